// Package skeleton builds the whole-galaxy root view.
package skeleton

import (
	"log/slog"
	"math"

	"galaxy-maker-server/internal/random"
	"galaxy-maker-server/internal/view"
)

// DiscFraction is the galaxy radius as a fraction of the smaller viewport side.
const DiscFraction = 0.42

type Generator struct {
	logger *slog.Logger
}

func NewGenerator(logger *slog.Logger) *Generator {
	return &Generator{logger: logger.With("component", "skeleton_generator")}
}

// Pick builds one of the archetypes uniformly at random.
func Pick(s *random.Sampler) *Archetype {
	return newArchetype(Kinds[s.IntRange(0, len(Kinds)-1)], s)
}

// GenerateRoot picks an archetype and produces the root view.
func (g *Generator) GenerateRoot(s *random.Sampler, vp view.Viewport) *view.ViewState {
	return g.generate(Pick(s), s, vp)
}

// GenerateKind produces a root view of a specific archetype.
func (g *Generator) GenerateKind(kind ArchetypeKind, s *random.Sampler, vp view.Viewport) *view.ViewState {
	return g.generate(newArchetype(kind, s), s, vp)
}

func (g *Generator) generate(a *Archetype, s *random.Sampler, vp view.Viewport) *view.ViewState {
	cx, cy := vp.Center()
	r := math.Min(vp.Width, vp.Height) * DiscFraction

	points := a.Generate(s, cx, cy, r)

	g.logger.Debug("Root galaxy generated",
		"operation", "generate_root",
		"archetype", a.Name,
		"points", len(points),
		"radius", r,
	)

	return &view.ViewState{
		ZoomLevel:     0,
		StarsPerPoint: view.RootStarsPerPoint,
		IsLiteral:     false,
		GalaxyType:    a.Name,
		Viewport:      vp,
		Glow:          &a.Glow,
		Points:        points,
	}
}
