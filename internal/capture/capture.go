// Package capture takes still images of views at fixed checkpoints.
package capture

import (
	"galaxy-maker-server/internal/view"
)

type Checkpoint string

const (
	// CheckpointRoot is the freshly generated galaxy.
	CheckpointRoot Checkpoint = "root"
	// CheckpointFinal is taken for every literal view.
	CheckpointFinal Checkpoint = "final"
	// CheckpointCrop is the final selection cut out of the last literal view.
	CheckpointCrop Checkpoint = "crop"
)

// Hook receives a view at each checkpoint and returns a reference to the
// captured image. rect is only set for CheckpointCrop.
type Hook interface {
	Capture(cp Checkpoint, v *view.ViewState, rect *view.SelectionRect) (string, error)
}

// Noop captures nothing.
type Noop struct{}

func (Noop) Capture(Checkpoint, *view.ViewState, *view.SelectionRect) (string, error) {
	return "", nil
}
