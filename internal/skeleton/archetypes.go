package skeleton

import (
	"fmt"
	"math"

	"galaxy-maker-server/internal/random"
	"galaxy-maker-server/internal/view"
)

type ArchetypeKind string

const (
	KindSpiral       ArchetypeKind = "spiral"
	KindBarredSpiral ArchetypeKind = "barred_spiral"
	KindElliptical   ArchetypeKind = "elliptical"
	KindRing         ArchetypeKind = "ring"
	KindIrregular    ArchetypeKind = "irregular"
)

// Kinds lists every archetype in selection order.
var Kinds = []ArchetypeKind{KindSpiral, KindBarredSpiral, KindElliptical, KindRing, KindIrregular}

// Archetype is a parameterised galaxy shape. Parameters are drawn once when the
// archetype is built; Generate places the points.
type Archetype struct {
	Kind     ArchetypeKind
	Name     string
	Glow     view.Color
	generate func(s *random.Sampler, cx, cy, r float64) []view.Point
}

// Generate places the archetype's points in a disc of radius r around (cx, cy).
func (a *Archetype) Generate(s *random.Sampler, cx, cy, r float64) []view.Point {
	return a.generate(s, cx, cy, r)
}

func newArchetype(kind ArchetypeKind, s *random.Sampler) *Archetype {
	switch kind {
	case KindSpiral:
		return spiral(s)
	case KindBarredSpiral:
		return barredSpiral(s)
	case KindElliptical:
		return elliptical(s)
	case KindRing:
		return ring(s)
	default:
		return irregular(s)
	}
}

func point(x, y, size, alpha float64, c view.Color) view.Point {
	return view.Point{X: x, Y: y, Size: size, Alpha: alpha, Color: c}
}

// polar offsets (cx, cy) by radius rN at angle a.
func polar(cx, cy, rN, a float64) (float64, float64) {
	return cx + math.Cos(a)*rN, cy + math.Sin(a)*rN
}

// halo appends n faint points out to reach*r.
func halo(s *random.Sampler, pts []view.Point, n int, cx, cy, r, reach, exp float64) []view.Point {
	for i := 0; i < n; i++ {
		rN := s.Pow(exp) * r * reach
		x, y := polar(cx, cy, rN, s.Angle())
		pts = append(pts, point(x, y, s.Uniform(0.3, 0.9), s.Uniform(0.06, 0.2), haloColor))
	}
	return pts
}

func spiral(s *random.Sampler) *Archetype {
	arms := s.IntRange(2, 5)
	twist := s.Uniform(2.8, 5.5)
	armWidth := s.Uniform(0.06, 0.14)
	coreN := s.IntRange(180, 320)
	armN := s.IntRange(900, 1400)

	return &Archetype{
		Kind: KindSpiral,
		Name: fmt.Sprintf("Spiral (%d arms)", arms),
		Glow: view.RGBA(120, 170, 255, 0.28),
		generate: func(s *random.Sampler, cx, cy, r float64) []view.Point {
			pts := make([]view.Point, 0, coreN+armN+220)

			for i := 0; i < coreN; i++ {
				x, y := polar(cx, cy, s.Pow(0.45)*r*0.35, s.Angle())
				x += s.Gauss(0, r*0.01)
				y += s.Gauss(0, r*0.01)
				pts = append(pts, point(x, y, s.Uniform(0.7, 1.6), s.Uniform(0.25, 0.7), coreColor(s)))
			}

			for i := 0; i < armN; i++ {
				armIndex := s.IntRange(0, arms-1)
				rN := s.Pow(0.62) * r
				base := float64(armIndex) * (2 * math.Pi / float64(arms))
				theta := base + rN*(twist/r) + s.Gauss(0, armWidth)
				spread := s.Gauss(0, r*armWidth*0.6)

				x := cx + math.Cos(theta)*rN + math.Cos(theta+math.Pi/2)*spread
				y := cy + math.Sin(theta)*rN + math.Sin(theta+math.Pi/2)*spread
				alpha := random.Lerp(0.12, 0.75, 1-rN/r)
				pts = append(pts, point(x, y, s.Uniform(0.4, 1.2), alpha, armColor(s)))
			}

			return halo(s, pts, 220, cx, cy, r, 1.1, 0.9)
		},
	}
}

func barredSpiral(s *random.Sampler) *Archetype {
	arms := s.IntRange(2, 4)
	twist := s.Uniform(2.6, 4.8)
	armWidth := s.Uniform(0.05, 0.12)
	barLen := s.Uniform(0.35, 0.55)
	barAng := s.Uniform(0, math.Pi)

	return &Archetype{
		Kind: KindBarredSpiral,
		Name: fmt.Sprintf("Barred Spiral (%d arms)", arms),
		Glow: view.RGBA(255, 170, 140, 0.24),
		generate: func(s *random.Sampler, cx, cy, r float64) []view.Point {
			cosB, sinB := math.Cos(barAng), math.Sin(barAng)
			barN := s.IntRange(350, 520)
			armN := s.IntRange(900, 1300)
			pts := make([]view.Point, 0, barN+220+armN+220)

			for i := 0; i < barN; i++ {
				xLocal := random.Clamp(s.Gauss(0, 1), -2.2, 2.2) * r * barLen * 0.24
				yLocal := s.Gauss(0, r*0.03)
				x := cx + xLocal*cosB - yLocal*sinB
				y := cy + xLocal*sinB + yLocal*cosB
				pts = append(pts, point(x, y, s.Uniform(0.6, 1.4), s.Uniform(0.2, 0.6), coreColor(s)))
			}

			for i := 0; i < 220; i++ {
				x, y := polar(cx, cy, s.Pow(0.5)*r*0.25, s.Angle())
				pts = append(pts, point(x, y, s.Uniform(0.7, 1.6), s.Uniform(0.25, 0.7), coreColor(s)))
			}

			for i := 0; i < armN; i++ {
				armIndex := s.IntRange(0, arms-1)
				rN := s.Pow(0.62) * r
				endOffset := r * barLen * 0.28
				if armIndex%2 != 0 {
					endOffset = -endOffset
				}

				base := barAng + float64(armIndex)*(2*math.Pi/float64(arms))
				theta := base + rN*(twist/r) + s.Gauss(0, armWidth)
				spread := s.Gauss(0, r*armWidth*0.6)

				x := cx + endOffset*cosB + math.Cos(theta)*rN + math.Cos(theta+math.Pi/2)*spread
				y := cy + endOffset*sinB + math.Sin(theta)*rN + math.Sin(theta+math.Pi/2)*spread
				alpha := random.Lerp(0.12, 0.7, 1-rN/r)
				pts = append(pts, point(x, y, s.Uniform(0.4, 1.2), alpha, armColorWarm(s)))
			}

			return halo(s, pts, 220, cx, cy, r, 1.1, 0.9)
		},
	}
}

func elliptical(s *random.Sampler) *Archetype {
	axisRatio := s.Uniform(0.6, 0.95)
	rot := s.Uniform(0, math.Pi)

	return &Archetype{
		Kind: KindElliptical,
		Name: "Elliptical",
		Glow: view.RGBA(200, 200, 255, 0.22),
		generate: func(s *random.Sampler, cx, cy, r float64) []view.Point {
			n := s.IntRange(1200, 1800)
			pts := make([]view.Point, 0, n+220)
			cosR, sinR := math.Cos(rot), math.Sin(rot)

			for i := 0; i < n; i++ {
				rN := s.Pow(0.45) * r
				a := s.Angle()
				ex := math.Cos(a) * rN
				ey := math.Sin(a) * rN * axisRatio

				x := cx + ex*cosR - ey*sinR + s.Gauss(0, r*0.01)
				y := cy + ex*sinR + ey*cosR + s.Gauss(0, r*0.01)
				alpha := random.Lerp(0.12, 0.75, 1-rN/r)
				pts = append(pts, point(x, y, s.Uniform(0.5, 1.5), alpha, coreColorCool(s)))
			}

			return halo(s, pts, 220, cx, cy, r, 1.05, 0.9)
		},
	}
}

func ring(s *random.Sampler) *Archetype {
	ringRadius := s.Uniform(0.65, 0.8)
	thickness := s.Uniform(0.06, 0.12)

	return &Archetype{
		Kind: KindRing,
		Name: "Ring Galaxy",
		Glow: view.RGBA(160, 255, 200, 0.20),
		generate: func(s *random.Sampler, cx, cy, r float64) []view.Point {
			ringN := s.IntRange(1200, 1700)
			pts := make([]view.Point, 0, 280+ringN+220)

			for i := 0; i < 280; i++ {
				x, y := polar(cx, cy, s.Pow(0.5)*r*0.22, s.Angle())
				pts = append(pts, point(x, y, s.Uniform(0.7, 1.6), s.Uniform(0.25, 0.7), coreColor(s)))
			}

			rBase := r * ringRadius
			for i := 0; i < ringN; i++ {
				rN := rBase + s.Gauss(0, r*thickness)
				x, y := polar(cx, cy, rN, s.Angle())
				alpha := random.Lerp(0.15, 0.55, 1-math.Abs(rN-rBase)/(r*thickness*3))
				pts = append(pts, point(x, y, s.Uniform(0.4, 1.2), alpha, armColor(s)))
			}

			return halo(s, pts, 220, cx, cy, r, 1.1, 0.9)
		},
	}
}

func irregular(s *random.Sampler) *Archetype {
	clumps := s.IntRange(3, 6)

	return &Archetype{
		Kind: KindIrregular,
		Name: "Irregular / Dwarf",
		Glow: view.RGBA(255, 220, 170, 0.18),
		generate: func(s *random.Sampler, cx, cy, r float64) []view.Point {
			type clump struct{ x, y, spread float64 }
			centers := make([]clump, clumps)
			for i := range centers {
				centers[i] = clump{
					x:      cx + s.Gauss(0, r*0.25),
					y:      cy + s.Gauss(0, r*0.25),
					spread: s.Uniform(0.08, 0.22),
				}
			}

			n := s.IntRange(900, 1400)
			pts := make([]view.Point, 0, n+220)
			for i := 0; i < n; i++ {
				c := centers[s.IntRange(0, len(centers)-1)]
				x, y := polar(c.x, c.y, math.Abs(s.Gauss(0, r*c.spread)), s.Angle())
				pts = append(pts, point(x, y, s.Uniform(0.4, 1.3), s.Uniform(0.12, 0.6), coreColorWarm(s)))
			}

			return halo(s, pts, 220, cx, cy, r, 1.1, 0.8)
		},
	}
}
