package sector

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"galaxy-maker-server/internal/random"
	"galaxy-maker-server/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDiscretizer() *Discretizer {
	return NewDiscretizer(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func literalView(points ...view.Point) *view.ViewState {
	return &view.ViewState{
		ZoomLevel:     4,
		StarsPerPoint: 1,
		IsLiteral:     true,
		GalaxyType:    "Ring Galaxy",
		Viewport:      view.Viewport{Width: 760, Height: 520},
		Points:        points,
	}
}

func at(x, y float64) view.Point {
	return view.Point{X: x, Y: y, Size: 1, Alpha: 0.5}
}

func TestDiscretize(t *testing.T) {
	d := newTestDiscretizer()

	t.Run("requires a literal view", func(t *testing.T) {
		v := literalView(at(10, 10))
		v.IsLiteral = false
		_, err := d.Discretize(random.New(1), v, view.SelectionRect{Width: 20, Height: 20})
		assert.ErrorIs(t, err, ErrNotLiteral)

		_, err = d.Discretize(random.New(1), nil, view.SelectionRect{Width: 20, Height: 20})
		assert.ErrorIs(t, err, ErrNotLiteral)
	})

	t.Run("grid follows the rect", func(t *testing.T) {
		rec, err := d.Discretize(random.New(1), literalView(), view.SelectionRect{X: 5, Y: 5, Width: 40.4, Height: 12.6})
		require.NoError(t, err)
		assert.Equal(t, Grid{Width: 40, Height: 13, Depth: 13}, rec.Grid)
		assert.Equal(t, 0, rec.StarCount)
		assert.Empty(t, rec.Stars)
		assert.Equal(t, "Ring Galaxy", rec.GalaxyType)
		assert.Equal(t, 4, rec.ZoomLevel)
	})

	t.Run("coordinates are 1-indexed and named", func(t *testing.T) {
		rect := view.SelectionRect{X: 100, Y: 200, Width: 10, Height: 10}
		rec, err := d.Discretize(random.New(2), literalView(at(100, 200), at(110, 210), at(50, 50)), rect)
		require.NoError(t, err)
		require.Len(t, rec.Stars, 2)

		first := rec.Stars[0]
		assert.Equal(t, 1, first.X)
		assert.Equal(t, 1, first.Y)
		assert.Equal(t, StarName(1, 1, first.Z), first.Name)

		// the far inclusive edge clamps into the last cell
		last := rec.Stars[1]
		assert.Equal(t, 10, last.X)
		assert.Equal(t, 10, last.Y)
		assert.NoError(t, rec.Validate())
	})
}

func TestDiscretizeColumnUniqueness(t *testing.T) {
	d := newTestDiscretizer()
	rect := view.SelectionRect{X: 0, Y: 0, Width: 8, Height: 8}

	// 8 stars in one column: exactly fills the depth
	var pts []view.Point
	for i := 0; i < 8; i++ {
		pts = append(pts, at(3.2+float64(i)*0.05, 4.5))
	}
	for i := 0; i < 30; i++ {
		pts = append(pts, at(float64(i%8)+0.5, float64(i/8)+0.5))
	}

	rec, err := d.Discretize(random.New(99), literalView(pts...), rect)
	require.NoError(t, err)
	require.Equal(t, len(pts), rec.StarCount)

	byColumn := make(map[[2]int][]int)
	for _, s := range rec.Stars {
		key := [2]int{s.X, s.Y}
		byColumn[key] = append(byColumn[key], s.Z)
	}
	for col, zs := range byColumn {
		if len(zs) > rec.Grid.Depth {
			continue
		}
		seen := make(map[int]bool)
		for _, z := range zs {
			assert.False(t, seen[z], "duplicate z %d in column %v", z, col)
			seen[z] = true
		}
	}
	assert.Len(t, byColumn[[2]int{4, 5}], 8)
}

func TestDiscretizeOverflowingColumn(t *testing.T) {
	d := newTestDiscretizer()
	rect := view.SelectionRect{X: 0, Y: 0, Width: 6, Height: 6}

	var pts []view.Point
	for i := 0; i < 20; i++ {
		pts = append(pts, at(1.5, 1.5))
	}

	rec, err := d.Discretize(random.New(5), literalView(pts...), rect)
	require.NoError(t, err)
	assert.Len(t, rec.Stars, 20)

	distinct := make(map[int]bool)
	for _, s := range rec.Stars {
		distinct[s.Z] = true
		assert.GreaterOrEqual(t, s.Z, 1)
		assert.LessOrEqual(t, s.Z, rec.Grid.Depth)
	}
	assert.Len(t, distinct, rec.Grid.Depth)
}

func TestRecordJSON(t *testing.T) {
	rec := Record{
		GalaxyType: "Elliptical",
		ZoomLevel:  5,
		Grid:       Grid{Width: 2, Height: 2, Depth: 2},
		StarCount:  1,
		Stars:      []Star{{Name: StarName(1, 2, 2), X: 1, Y: 2, Z: 2}},
	}

	body, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"galaxyType": "Elliptical",
		"zoomLevel": 5,
		"grid": {"width": 2, "height": 2, "depth": 2},
		"starCount": 1,
		"stars": [{"name": "Star 1x2x2", "x": 1, "y": 2, "z": 2}]
	}`, string(body))
}

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		ok     bool
	}{
		{"empty sector", Record{Grid: Grid{1, 1, 1}, Stars: []Star{}}, true},
		{"zero grid", Record{Grid: Grid{0, 1, 1}}, false},
		{"count mismatch", Record{Grid: Grid{2, 2, 2}, StarCount: 3}, false},
		{"star outside grid", Record{Grid: Grid{2, 2, 2}, StarCount: 1, Stars: []Star{{X: 3, Y: 1, Z: 1}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
