package transition

import (
	"math"

	"galaxy-maker-server/internal/random"
	"galaxy-maker-server/internal/view"
)

// Point budgets for intermediate symbolic views.
const (
	DotIdeal = 150000
	DotMin   = 80000
	DotMax   = 220000

	// FinalMaxStars is the selection size at or below which the next view is exact.
	FinalMaxStars = 40000
)

type Kind string

const (
	// KindSymbolic keeps many stars per point.
	KindSymbolic Kind = "symbolic"
	// KindPreFinal drops to one star per point without becoming literal.
	KindPreFinal Kind = "pre_final"
	// KindLiteral turns a pre-final view into literal stars.
	KindLiteral Kind = "literal"
)

// Plan is the decision made before any point is generated.
type Plan struct {
	Kind              Kind    `json:"kind"`
	SelectedStars     float64 `json:"selectedStars"`
	TargetPoints      int     `json:"targetPoints"`
	NextStarsPerPoint float64 `json:"nextStarsPerPoint"`
	NextZoomLevel     int     `json:"nextZoomLevel"`
	Literal           bool    `json:"literal"`
}

// RepresentedStars is the star total the child view will stand for.
func (p Plan) RepresentedStars() float64 {
	return float64(p.TargetPoints) * p.NextStarsPerPoint
}

// PlanTransition decides the next density and point budget for a selection
// estimated at selStars on parent.
func PlanTransition(parent *view.ViewState, selStars float64) Plan {
	exact := int(math.Floor(math.Max(0, selStars)))
	plan := Plan{
		SelectedStars: selStars,
		NextZoomLevel: parent.ZoomLevel + 1,
	}

	if parent.StarsPerPoint == 1 && !parent.IsLiteral {
		plan.Kind = KindLiteral
		plan.TargetPoints = exact
		plan.NextStarsPerPoint = 1
		plan.Literal = true
		return plan
	}

	goPreFinal := selStars <= FinalMaxStars || parent.ZoomLevel >= view.MaxLevels-2
	if goPreFinal {
		plan.Kind = KindPreFinal
		plan.TargetPoints = exact
		plan.NextStarsPerPoint = 1
		return plan
	}

	target := random.ClampInt(DotIdeal, DotMin, DotMax)
	target = min(target, exact)
	if target < DotMin {
		plan.Kind = KindPreFinal
		plan.TargetPoints = exact
		plan.NextStarsPerPoint = 1
		return plan
	}

	plan.Kind = KindSymbolic
	plan.TargetPoints = target
	plan.NextStarsPerPoint = selStars / float64(target)
	return plan
}
