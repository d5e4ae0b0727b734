// Package random holds the sampling primitives every generator draws from.
package random

import (
	"math"
	"math/rand/v2"
)

// Sampler is a single-owner random source. It is not safe for concurrent use.
type Sampler struct {
	r    *rand.Rand
	seed uint64
}

// New returns a sampler. A zero seed draws the state from the runtime's
// unseeded source, so results differ on every run.
func New(seed uint64) *Sampler {
	if seed == 0 {
		return &Sampler{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	return &Sampler{
		r:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// Seed reports the explicit seed, or 0 for an unseeded sampler.
func (s *Sampler) Seed() uint64 {
	return s.seed
}

// Float returns a value in [0,1).
func (s *Sampler) Float() float64 {
	return s.r.Float64()
}

// Uniform returns a value in [a,b).
func (s *Sampler) Uniform(a, b float64) float64 {
	return a + s.r.Float64()*(b-a)
}

// IntRange returns an integer in [a,b], both ends inclusive.
func (s *Sampler) IntRange(a, b int) int {
	if b <= a {
		return a
	}
	return a + s.r.IntN(b-a+1)
}

// Gauss draws from a normal distribution.
func (s *Sampler) Gauss(mean, std float64) float64 {
	return mean + s.r.NormFloat64()*std
}

func (s *Sampler) Chance(p float64) bool {
	return s.r.Float64() < p
}

func (s *Sampler) Angle() float64 {
	return s.r.Float64() * 2 * math.Pi
}

// Pow returns Float()^exp; exponents below 1 bias toward 1, above 1 toward 0.
func (s *Sampler) Pow(exp float64) float64 {
	return math.Pow(s.r.Float64(), exp)
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func ClampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
