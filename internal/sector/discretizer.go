package sector

import (
	"errors"
	"log/slog"
	"math"

	"galaxy-maker-server/internal/random"
	"galaxy-maker-server/internal/view"
)

var ErrNotLiteral = errors.New("sector can only be built from a literal view")

type cell struct{ x, y int }

type Discretizer struct {
	logger *slog.Logger
}

func NewDiscretizer(logger *slog.Logger) *Discretizer {
	return &Discretizer{logger: logger.With("component", "sector_discretizer")}
}

// Discretize assigns every star inside rect a unique cell and depth. A column
// holding more stars than the grid is deep keeps its extra stars on
// already-used depths.
func (d *Discretizer) Discretize(s *random.Sampler, v *view.ViewState, rect view.SelectionRect) (*Record, error) {
	if v == nil || !v.IsLiteral {
		return nil, ErrNotLiteral
	}

	logger := d.logger.With("operation", "discretize", "zoom_level", v.ZoomLevel)

	grid := GridFor(rect)
	selected := view.PointsIn(rect, v.Points)
	used := make(map[cell]map[int]struct{})
	collisions := 0

	stars := make([]Star, 0, len(selected))
	for _, p := range selected {
		c := cell{
			x: random.ClampInt(int(math.Floor(p.X-rect.X)), 0, grid.Width-1),
			y: random.ClampInt(int(math.Floor(p.Y-rect.Y)), 0, grid.Height-1),
		}
		zs, ok := used[c]
		if !ok {
			zs = make(map[int]struct{})
			used[c] = zs
		}

		z := s.IntRange(1, grid.Depth)
		if len(zs) < grid.Depth {
			for {
				if _, taken := zs[z]; !taken {
					break
				}
				z = s.IntRange(1, grid.Depth)
			}
		} else {
			collisions++
		}
		zs[z] = struct{}{}

		stars = append(stars, Star{
			Name: StarName(c.x+1, c.y+1, z),
			X:    c.x + 1,
			Y:    c.y + 1,
			Z:    z,
		})
	}

	if collisions > 0 {
		logger.Warn("Columns overflowed grid depth", "collisions", collisions, "depth", grid.Depth)
	}
	logger.Info("Sector discretized",
		"stars", len(stars),
		"width", grid.Width,
		"height", grid.Height,
		"depth", grid.Depth,
	)

	return &Record{
		GalaxyType: v.GalaxyType,
		ZoomLevel:  v.ZoomLevel,
		Grid:       grid,
		StarCount:  len(stars),
		Stars:      stars,
	}, nil
}

// GridFor sizes the grid for a selection.
func GridFor(rect view.SelectionRect) Grid {
	return Grid{
		Width:  max(1, int(math.Round(rect.Width))),
		Height: max(1, int(math.Round(rect.Height))),
		Depth:  max(1, int(math.Round(math.Min(rect.Width, rect.Height)))),
	}
}
