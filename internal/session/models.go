package session

import (
	"time"

	"galaxy-maker-server/internal/sector"
	"galaxy-maker-server/internal/transition"
	"galaxy-maker-server/internal/view"
)

type Action string

const (
	ActionZoom     Action = "zoom"
	ActionFinalize Action = "finalize"
	ActionNone     Action = "none"
)

// CreateOptions pins a session's seed or archetype. Zero values pick at random.
type CreateOptions struct {
	Seed      uint64 `json:"seed,omitempty"`
	Archetype string `json:"archetype,omitempty"`
}

// Snapshot describes a session without its point list.
type Snapshot struct {
	ID            string            `json:"id"`
	GalaxyType    string            `json:"galaxyType"`
	Seed          uint64            `json:"seed,omitempty"`
	Phase         view.Phase        `json:"phase"`
	ZoomLevel     int               `json:"zoomLevel"`
	StarsPerPoint float64           `json:"starsPerPoint"`
	IsLiteral     bool              `json:"isLiteral"`
	Points        int               `json:"points"`
	TotalStars    float64           `json:"totalStars"`
	Viewport      view.Viewport     `json:"viewport"`
	Selection     *SelectionSummary `json:"selection,omitempty"`
	HistoryDepth  int               `json:"historyDepth"`
	SectorStars   *int              `json:"sectorStars,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	LastActive    time.Time         `json:"lastActive"`
}

// SelectionSummary is a committed selection plus what advancing would do.
type SelectionSummary struct {
	view.Selection
	Action  Action           `json:"action"`
	Preview *transition.Plan `json:"preview,omitempty"`
}

// HistoryEntry summarises a view the session has moved past.
type HistoryEntry struct {
	ZoomLevel     int                `json:"zoomLevel"`
	Phase         view.Phase         `json:"phase"`
	StarsPerPoint float64            `json:"starsPerPoint"`
	Points        int                `json:"points"`
	TotalStars    float64            `json:"totalStars"`
	Selection     view.SelectionRect `json:"selection"`
	LeftAt        time.Time          `json:"leftAt"`
}

type AdvanceResult struct {
	Changed  bool             `json:"changed"`
	Action   Action           `json:"action"`
	Plan     *transition.Plan `json:"plan,omitempty"`
	Sector   *sector.Record   `json:"sector,omitempty"`
	Snapshot Snapshot         `json:"session"`
}
