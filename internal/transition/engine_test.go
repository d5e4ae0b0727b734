package transition

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"galaxy-maker-server/internal/random"
	"galaxy-maker-server/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testViewport = view.Viewport{Width: 760, Height: 520}

func newTestEngine() *Engine {
	return NewEngine(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// clusteredView places n points in a tight grid around (x, y).
func clusteredView(n int, x, y, starsPerPoint float64, zoom int) *view.ViewState {
	pts := make([]view.Point, 0, n)
	side := int(math.Ceil(math.Sqrt(float64(n))))
	for i := 0; i < n; i++ {
		pts = append(pts, view.Point{
			X:    x + float64(i%side),
			Y:    y + float64(i/side),
			Size: 1, Alpha: 0.5,
			Color: view.RGBA(255, 255, 255, 0.5),
		})
	}
	return &view.ViewState{
		ZoomLevel:     zoom,
		StarsPerPoint: starsPerPoint,
		GalaxyType:    "Elliptical",
		Viewport:      testViewport,
		Points:        pts,
	}
}

func TestPlanTransition(t *testing.T) {
	tests := []struct {
		name          string
		parent        view.ViewState
		selStars      float64
		kind          Kind
		target        int
		starsPerPoint float64
	}{
		{
			name:          "root selection takes the ideal budget",
			parent:        view.ViewState{StarsPerPoint: view.RootStarsPerPoint},
			selStars:      4000000,
			kind:          KindSymbolic,
			target:        DotIdeal,
			starsPerPoint: 4000000.0 / DotIdeal,
		},
		{
			name:          "small selection goes pre-final",
			parent:        view.ViewState{ZoomLevel: 1, StarsPerPoint: 26.667},
			selStars:      30000,
			kind:          KindPreFinal,
			target:        30000,
			starsPerPoint: 1,
		},
		{
			name:          "exactly at the final threshold",
			parent:        view.ViewState{ZoomLevel: 1, StarsPerPoint: 50},
			selStars:      FinalMaxStars,
			kind:          KindPreFinal,
			target:        FinalMaxStars,
			starsPerPoint: 1,
		},
		{
			name:          "density floor switches to exact",
			parent:        view.ViewState{ZoomLevel: 2, StarsPerPoint: 3},
			selStars:      60000.7,
			kind:          KindPreFinal,
			target:        60000,
			starsPerPoint: 1,
		},
		{
			name:          "budget shrinks to the star count above the floor",
			parent:        view.ViewState{ZoomLevel: 2, StarsPerPoint: 4},
			selStars:      100000,
			kind:          KindSymbolic,
			target:        100000,
			starsPerPoint: 1,
		},
		{
			name:          "depth limit forces pre-final",
			parent:        view.ViewState{ZoomLevel: view.MaxLevels - 2, StarsPerPoint: 40},
			selStars:      500000,
			kind:          KindPreFinal,
			target:        500000,
			starsPerPoint: 1,
		},
		{
			name:          "pre-final view becomes literal",
			parent:        view.ViewState{ZoomLevel: 3, StarsPerPoint: 1},
			selStars:      1234,
			kind:          KindLiteral,
			target:        1234,
			starsPerPoint: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanTransition(&tt.parent, tt.selStars)

			assert.Equal(t, tt.kind, plan.Kind)
			assert.Equal(t, tt.target, plan.TargetPoints)
			assert.InDelta(t, tt.starsPerPoint, plan.NextStarsPerPoint, 1e-9)
			assert.Equal(t, tt.parent.ZoomLevel+1, plan.NextZoomLevel)
			assert.Equal(t, tt.kind == KindLiteral, plan.Literal)

			// a zoom never manufactures stars
			assert.LessOrEqual(t, plan.RepresentedStars(), tt.selStars+1e-6)

			// density floor
			if plan.NextStarsPerPoint != 1 {
				assert.GreaterOrEqual(t, plan.NextStarsPerPoint, 1.0)
				assert.GreaterOrEqual(t, plan.TargetPoints, DotMin)
				assert.LessOrEqual(t, plan.TargetPoints, DotMax)
			}
		})
	}
}

func TestTransitionScenario(t *testing.T) {
	e := newTestEngine()
	s := random.New(21)

	root := clusteredView(40, 300, 200, view.RootStarsPerPoint, 0)
	rect := view.SelectionRect{X: 290, Y: 190, Width: 30, Height: 30}
	require.Equal(t, 40, view.CountPointsIn(rect, root.Points))

	res := e.Transition(s, root, rect)
	require.True(t, res.Changed)
	child := res.View

	assert.Equal(t, 1, child.ZoomLevel)
	assert.False(t, child.IsLiteral)
	assert.Equal(t, view.PhaseSymbolic, child.Phase())
	assert.InDelta(t, 26.667, child.StarsPerPoint, 0.001)
	assert.Equal(t, DotIdeal, child.StarPoints())
	assert.GreaterOrEqual(t, len(child.Points)-DotIdeal, 800)
	assert.LessOrEqual(t, len(child.Points)-DotIdeal, 2500)
	assert.Equal(t, root.GalaxyType, child.GalaxyType)
	assert.InDelta(t, 4000000, child.TotalStars(), 1)
}

func TestTransitionToLiteral(t *testing.T) {
	e := newTestEngine()
	s := random.New(8)

	preFinal := clusteredView(400, 100, 100, 1, 3)
	require.Equal(t, view.PhasePreFinal, preFinal.Phase())
	rect := view.SelectionRect{X: 95, Y: 95, Width: 40, Height: 40}
	selected := view.CountPointsIn(rect, preFinal.Points)

	res := e.Transition(s, preFinal, rect)
	require.True(t, res.Changed)
	lit := res.View

	assert.True(t, lit.IsLiteral)
	assert.Equal(t, view.PhaseLiteral, lit.Phase())
	assert.Equal(t, 1.0, lit.StarsPerPoint)
	assert.Equal(t, 4, lit.ZoomLevel)
	assert.Len(t, lit.Points, selected)

	t.Run("literal views have no decorative points", func(t *testing.T) {
		for _, p := range lit.Points {
			require.False(t, p.Decorative)
			require.GreaterOrEqual(t, p.X, 0.0)
			require.LessOrEqual(t, p.X, testViewport.Width)
		}
	})

	t.Run("estimates are exact on literal views", func(t *testing.T) {
		sub := view.SelectionRect{X: 100, Y: 50, Width: 300, Height: 200}
		sel := view.Select(lit, sub)
		assert.Equal(t, float64(view.CountPointsIn(sub, lit.Points)), sel.EstimatedStars)
		assert.True(t, sel.Exact)
	})

	t.Run("literal views do not zoom further", func(t *testing.T) {
		again := e.Transition(s, lit, rect)
		assert.False(t, again.Changed)
		assert.Same(t, lit, again.View)
	})
}

func TestTransitionNoOp(t *testing.T) {
	e := newTestEngine()
	root := clusteredView(40, 300, 200, view.RootStarsPerPoint, 0)

	res := e.Transition(random.New(1), root, view.SelectionRect{X: 290, Y: 190, Width: 5, Height: 30})
	assert.False(t, res.Changed)
	assert.Same(t, root, res.View)

	_, ok := e.Preview(nil, view.SelectionRect{Width: 10, Height: 10})
	assert.False(t, ok)
}

func TestRefineSymbolicFallback(t *testing.T) {
	s := random.New(4)
	seeds := clusteredView(4, 10, 10, 1, 0).Points

	pts := RefineSymbolic(s, seeds, view.SelectionRect{X: 0, Y: 0, Width: 50, Height: 50}, 500, testViewport)
	assert.Len(t, pts, 500)
	for _, p := range pts {
		assert.False(t, p.Decorative)
	}
}

func TestRefineSymbolicWarpsTowardCenter(t *testing.T) {
	s := random.New(12)
	// seeds hugging the rect's far corner map to the viewport corner before the warp
	seeds := clusteredView(25, 95, 95, 1, 0).Points
	rect := view.SelectionRect{X: 0, Y: 0, Width: 100, Height: 100}

	pts := RefineSymbolic(s, seeds, rect, 2000, testViewport)
	cx, cy := testViewport.Center()
	maxR := 0.0
	for _, p := range pts {
		if p.Decorative {
			continue
		}
		maxR = math.Max(maxR, math.Hypot(p.X-cx, p.Y-cy))
	}

	// the unwarped corner sits at hypot(380, 260) ~ 460 from center
	assert.Less(t, maxR, 460.0)
}

func TestRefineLiteralCounts(t *testing.T) {
	s := random.New(6)
	seeds := clusteredView(30, 10, 10, 1, 0).Points
	rect := view.SelectionRect{X: 0, Y: 0, Width: 40, Height: 40}

	assert.Empty(t, RefineLiteral(s, seeds, rect, 0, testViewport))
	assert.Len(t, RefineLiteral(s, seeds, rect, 777, testViewport), 777)
	assert.Len(t, RefineLiteral(s, nil, rect, 12, testViewport), 12)
}
