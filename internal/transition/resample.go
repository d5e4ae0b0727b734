package transition

import (
	"math"

	"galaxy-maker-server/internal/random"
	"galaxy-maker-server/internal/view"
)

// MinSeeds is the fewest parent points a resample will infer structure from.
const MinSeeds = 5

const (
	seedFollowShare = 0.72
	seedStd         = 0.05
	anchorStd       = 0.10
	maxAnchors      = 6
	warpStrength    = 0.45
	brightShare     = 0.07

	literalSeedShare   = 0.7
	literalSeedStd     = 0.04
	literalBrightShare = 0.06
)

type normPoint struct{ nx, ny float64 }

func normalize(seeds []view.Point, rect view.SelectionRect) []normPoint {
	out := make([]normPoint, len(seeds))
	for i, p := range seeds {
		out[i] = normPoint{
			nx: (p.X - rect.X) / rect.Width,
			ny: (p.Y - rect.Y) / rect.Height,
		}
	}
	return out
}

func uniformFill(s *random.Sampler, n int, vp view.Viewport, alphaLo, alphaHi float64) []view.Point {
	out := make([]view.Point, 0, n)
	for i := 0; i < n; i++ {
		alpha := s.Uniform(alphaLo, alphaHi)
		out = append(out, view.Point{
			X:     s.Uniform(0, vp.Width),
			Y:     s.Uniform(0, vp.Height),
			Size:  s.Uniform(0.35, 1.4),
			Alpha: alpha,
			Color: view.RGBA(255, 255, 255, alpha),
		})
	}
	return out
}

// RefineSymbolic synthesizes targetN points that follow the seeds inside rect,
// mapped onto the full viewport with a radial lens warp, plus decorative
// background texture.
func RefineSymbolic(s *random.Sampler, seeds []view.Point, rect view.SelectionRect, targetN int, vp view.Viewport) []view.Point {
	if len(seeds) < MinSeeds {
		return uniformFill(s, targetN, vp, 0.08, 0.7)
	}

	norm := normalize(seeds, rect)
	anchors := make([]normPoint, 0, maxAnchors)
	for i := 0; i < min(maxAnchors, len(norm)); i++ {
		anchors = append(anchors, norm[s.IntRange(0, len(norm)-1)])
	}

	cx, cy := vp.Center()
	minorHalf := vp.MinorHalf()
	bgN := s.IntRange(800, 2500)
	out := make([]view.Point, 0, targetN+bgN)

	for i := 0; i < targetN; i++ {
		var nx, ny float64
		if s.Chance(seedFollowShare) {
			p := norm[s.IntRange(0, len(norm)-1)]
			nx = p.nx + s.Gauss(0, seedStd)
			ny = p.ny + s.Gauss(0, seedStd)
		} else {
			a := anchors[s.IntRange(0, len(anchors)-1)]
			nx = a.nx + s.Gauss(0, anchorStd)
			ny = a.ny + s.Gauss(0, anchorStd)
		}

		nx = random.Clamp(nx, -0.2, 1.2)
		ny = random.Clamp(ny, -0.2, 1.2)

		dx := nx*vp.Width - cx
		dy := ny*vp.Height - cy
		r := math.Sqrt(dx*dx+dy*dy) / minorHalf
		warp := 1 / (1 + warpStrength*r*r)

		bright := s.Chance(brightShare)
		p := view.Point{X: cx + dx*warp, Y: cy + dy*warp}
		if bright {
			p.Size = s.Uniform(1.0, 2.2)
			p.Alpha = s.Uniform(0.55, 0.95)
			p.Color = view.RGBA(230, 240, 255, p.Alpha)
		} else {
			p.Size = s.Uniform(0.35, 1.1)
			p.Alpha = s.Uniform(0.10, 0.55)
			p.Color = view.RGBA(255, 255, 255, p.Alpha)
		}
		out = append(out, p)
	}

	for i := 0; i < bgN; i++ {
		out = append(out, view.Point{
			X:          s.Uniform(0, vp.Width),
			Y:          s.Uniform(0, vp.Height),
			Size:       s.Uniform(0.2, 0.8),
			Alpha:      s.Uniform(0.03, 0.14),
			Color:      view.RGBA(255, 255, 255, s.Uniform(0.03, 0.12)),
			Decorative: true,
		})
	}

	return out
}

// RefineLiteral synthesizes exactly targetN star points. Every point is a
// real star, so there is no warp and no background.
func RefineLiteral(s *random.Sampler, seeds []view.Point, rect view.SelectionRect, targetN int, vp view.Viewport) []view.Point {
	if len(seeds) < MinSeeds {
		return uniformFill(s, targetN, vp, 0.12, 0.9)
	}

	norm := normalize(seeds, rect)
	out := make([]view.Point, 0, targetN)

	for i := 0; i < targetN; i++ {
		var nx, ny float64
		if s.Chance(literalSeedShare) {
			p := norm[s.IntRange(0, len(norm)-1)]
			nx = p.nx + s.Gauss(0, literalSeedStd)
			ny = p.ny + s.Gauss(0, literalSeedStd)
		} else {
			nx = s.Float()
			ny = s.Float()
		}

		nx = random.Clamp(nx, 0, 1)
		ny = random.Clamp(ny, 0, 1)

		p := view.Point{X: nx * vp.Width, Y: ny * vp.Height}
		if s.Chance(literalBrightShare) {
			p.Size = s.Uniform(1.0, 2.0)
			p.Alpha = s.Uniform(0.6, 0.98)
		} else {
			p.Size = s.Uniform(0.35, 1.1)
			p.Alpha = s.Uniform(0.12, 0.6)
		}
		p.Color = view.RGBA(255, 255, 255, p.Alpha)
		out = append(out, p)
	}

	return out
}
