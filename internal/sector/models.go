// Package sector turns a final literal selection into grid-addressed stars.
package sector

import "fmt"

type Grid struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Depth  int `json:"depth"`
}

// Star is addressed by 1-indexed grid coordinates.
type Star struct {
	Name string `json:"name"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Z    int    `json:"z"`
}

// Record is the portable sector file.
type Record struct {
	GalaxyType string `json:"galaxyType"`
	ZoomLevel  int    `json:"zoomLevel"`
	Grid       Grid   `json:"grid"`
	StarCount  int    `json:"starCount"`
	Stars      []Star `json:"stars"`
}

func StarName(x, y, z int) string {
	return fmt.Sprintf("Star %dx%dx%d", x, y, z)
}

// Validate checks a record that came from outside, such as an uploaded file.
func (r *Record) Validate() error {
	if r.Grid.Width < 1 || r.Grid.Height < 1 || r.Grid.Depth < 1 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%dx%d",
			r.Grid.Width, r.Grid.Height, r.Grid.Depth)
	}
	if r.StarCount != len(r.Stars) {
		return fmt.Errorf("starCount %d does not match %d stars", r.StarCount, len(r.Stars))
	}
	for i, s := range r.Stars {
		if s.X < 1 || s.X > r.Grid.Width || s.Y < 1 || s.Y > r.Grid.Height || s.Z < 1 || s.Z > r.Grid.Depth {
			return fmt.Errorf("star %d (%s) lies outside the grid", i, s.Name)
		}
	}
	return nil
}
