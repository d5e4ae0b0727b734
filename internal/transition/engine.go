// Package transition drives zooming from one resolution level to the next.
package transition

import (
	"log/slog"

	"galaxy-maker-server/internal/random"
	"galaxy-maker-server/internal/view"
)

// Result is the outcome of a transition. When Changed is false the parent
// view stays current and nothing is pushed to history.
type Result struct {
	View    *view.ViewState
	Plan    Plan
	Changed bool
}

type Engine struct {
	logger *slog.Logger
}

func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{logger: logger.With("component", "transition_engine")}
}

// Preview plans the transition for rect without generating points. ok is
// false when the transition would be a no-op.
func (e *Engine) Preview(parent *view.ViewState, rect view.SelectionRect) (Plan, bool) {
	if parent == nil || parent.IsLiteral || !rect.Valid() {
		return Plan{}, false
	}
	sel := view.Select(parent, rect)
	return PlanTransition(parent, sel.EstimatedStars), true
}

// Transition builds the child view for rect. Literal parents are finalized,
// not zoomed, so they yield a no-op here as well.
func (e *Engine) Transition(s *random.Sampler, parent *view.ViewState, rect view.SelectionRect) Result {
	plan, ok := e.Preview(parent, rect)
	if !ok {
		e.logger.Debug("Transition skipped", "operation", "transition", "reason", "invalid selection or literal view")
		return Result{View: parent}
	}
	return Result{View: e.Apply(s, parent, rect, plan), Plan: plan, Changed: true}
}

// Apply generates the child view for a plan produced by Preview.
func (e *Engine) Apply(s *random.Sampler, parent *view.ViewState, rect view.SelectionRect, plan Plan) *view.ViewState {
	logger := e.logger.With(
		"operation", "apply",
		"kind", plan.Kind,
		"zoom_level", plan.NextZoomLevel,
		"target_points", plan.TargetPoints,
	)

	seeds := view.PointsIn(rect, parent.Points)

	var points []view.Point
	if plan.Literal {
		points = RefineLiteral(s, seeds, rect, plan.TargetPoints, parent.Viewport)
	} else {
		points = RefineSymbolic(s, seeds, rect, plan.TargetPoints, parent.Viewport)
	}

	logger.Info("Transition generated view",
		"seeds", len(seeds),
		"points", len(points),
		"stars_per_point", plan.NextStarsPerPoint,
	)

	return &view.ViewState{
		ZoomLevel:     plan.NextZoomLevel,
		StarsPerPoint: plan.NextStarsPerPoint,
		IsLiteral:     plan.Literal,
		GalaxyType:    parent.GalaxyType,
		Viewport:      parent.Viewport,
		Points:        points,
	}
}
