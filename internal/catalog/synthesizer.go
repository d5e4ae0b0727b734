package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"galaxy-maker-server/internal/random"
	"galaxy-maker-server/internal/sector"
)

const (
	// SectorSpanLy is the light-year extent of the sector's longest axis.
	SectorSpanLy = 140.0

	ReferenceStarName = "Sol"

	MinPlanets = 1
	MaxPlanets = 6

	radiusDisplayScale = 0.2
	maxSemiMajorAxisAU = 60.0
	maxEccentricity    = 0.35
)

type valueRange struct{ lo, hi float64 }

func (r valueRange) draw(s *random.Sampler) float64 {
	return s.Uniform(r.lo, r.hi)
}

type classMagnitude struct {
	class    SpectralClass
	minTempK float64
	mag      valueRange
}

// Ordered hottest first.
var spectralClasses = []classMagnitude{
	{ClassA, 7500, valueRange{0.6, 2.1}},
	{ClassF, 6000, valueRange{2.1, 3.6}},
	{ClassG, 5200, valueRange{3.6, 5.5}},
	{ClassK, 3700, valueRange{5.5, 8.0}},
	{ClassM, 0, valueRange{8.0, 16.0}},
}

// ClassForTemperature maps an effective temperature to its spectral class.
func ClassForTemperature(tempK float64) SpectralClass {
	return classFor(tempK).class
}

func classFor(tempK float64) classMagnitude {
	for _, c := range spectralClasses {
		if tempK >= c.minTempK {
			return c
		}
	}
	return spectralClasses[len(spectralClasses)-1]
}

type planetBucket struct {
	kind    PlanetType
	weight  int
	mass    valueRange
	radius  valueRange
	density valueRange
}

// Bucket ranges are half-open and do not overlap.
var planetBuckets = []planetBucket{
	{PlanetTypeRocky, 45, valueRange{0.05, 5}, valueRange{0.3, 1.8}, valueRange{3.5, 8}},
	{PlanetTypeIce, 25, valueRange{5, 30}, valueRange{1.8, 4.5}, valueRange{1.6, 3.5}},
	{PlanetTypeGas, 30, valueRange{30, 4000}, valueRange{4.5, 22}, valueRange{0.2, 1.6}},
}

func rollPlanetBucket(s *random.Sampler) planetBucket {
	totalWeight := 0
	for _, b := range planetBuckets {
		totalWeight += b.weight
	}

	roll := s.IntRange(0, totalWeight-1)
	currentWeight := 0
	for _, b := range planetBuckets {
		currentWeight += b.weight
		if roll < currentWeight {
			return b
		}
	}

	return planetBuckets[0]
}

var planetSuffixes = []string{"I", "II", "III", "IV", "V", "VI"}

func planetName(host string, index int) string {
	return fmt.Sprintf("%s %s", host, planetSuffixes[index%len(planetSuffixes)])
}

// ScaleLyPerUnit converts grid units to light-years.
func ScaleLyPerUnit(grid sector.Grid) float64 {
	return SectorSpanLy / float64(max(grid.Width, grid.Height, grid.Depth, 1))
}

type Synthesizer struct {
	logger *slog.Logger
}

func NewSynthesizer(logger *slog.Logger) *Synthesizer {
	return &Synthesizer{logger: logger.With("component", "catalog_synthesizer")}
}

// Synthesize builds a catalog for rec. Every call draws fresh values from s,
// so two catalogs of the same sector share their shape and nothing else.
func (c *Synthesizer) Synthesize(s *random.Sampler, rec *sector.Record, images Images) (*Record, error) {
	logger := c.logger.With("operation", "synthesize", "galaxy_type", rec.GalaxyType, "sector_stars", len(rec.Stars))
	logger.Debug("Synthesizing catalog")

	sectorJSON, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sector: %w", err)
	}

	out := &Record{
		Stars:   make([]StarRecord, 0, len(rec.Stars)+1),
		Planets: make([]PlanetRecord, 0, (len(rec.Stars)+1)*3),
		Appendix: Appendix{
			SectorJSON: sectorJSON,
			Images:     images,
		},
	}

	sol, solPlanets := referenceSystem()
	out.Stars = append(out.Stars, sol)
	out.Planets = append(out.Planets, solPlanets...)

	scale := ScaleLyPerUnit(rec.Grid)
	for _, st := range rec.Stars {
		star := synthesizeStar(s, st, rec.Grid, scale)
		planets := synthesizePlanets(s, star.Name)
		star.PlanetCount = len(planets)

		out.Stars = append(out.Stars, star)
		out.Planets = append(out.Planets, planets...)
	}

	logger.Info("Catalog synthesized",
		"stars", len(out.Stars),
		"planets", len(out.Planets),
		"scale_ly_per_unit", scale,
	)
	return out, nil
}

func synthesizeStar(s *random.Sampler, st sector.Star, grid sector.Grid, scale float64) StarRecord {
	temp := s.Uniform(2800, 9000)
	class := classFor(temp)

	x := (float64(st.X) - float64(grid.Width)/2) * scale
	y := (float64(st.Y) - float64(grid.Height)/2) * scale
	z := (float64(st.Z) - float64(grid.Depth)/2) * scale

	return StarRecord{
		Name:              st.Name,
		SpectralClass:     class.class,
		Temperature:       Inferred(temp, UnitKelvin),
		AbsoluteMagnitude: Inferred(class.mag.draw(s), UnitMagnitude),
		RightAscension:    Inferred(s.Uniform(0, 360), UnitDegrees),
		Declination:       Inferred(s.Uniform(-90, 90), UnitDegrees),
		Radius:            Inferred(s.Uniform(0.2, 2.8)*radiusDisplayScale, UnitSolarRadius),
		Position: Position{
			X: Inferred(x, UnitLightYear),
			Y: Inferred(y, UnitLightYear),
			Z: Inferred(z, UnitLightYear),
		},
		Distance: Inferred(math.Sqrt(x*x+y*y+z*z), UnitLightYear),
		Grid:     &GridCoord{X: st.X, Y: st.Y, Z: st.Z},
	}
}

func synthesizePlanets(s *random.Sampler, host string) []PlanetRecord {
	n := s.IntRange(MinPlanets, MaxPlanets)
	planets := make([]PlanetRecord, 0, n)

	a := s.Uniform(0.05, 0.6)
	for i := 0; i < n; i++ {
		if i > 0 {
			a = math.Min(a*s.Uniform(1.4, 2.2), maxSemiMajorAxisAU)
		}
		b := rollPlanetBucket(s)

		planets = append(planets, PlanetRecord{
			Host:          host,
			Index:         i + 1,
			Name:          planetName(host, i),
			Type:          b.kind,
			SemiMajorAxis: Inferred(a, UnitAU),
			OrbitalPeriod: Inferred(math.Sqrt(a*a*a), UnitYear),
			Eccentricity:  Inferred(s.Uniform(0, maxEccentricity), UnitDimensionless),
			Mass:          Inferred(b.mass.draw(s), UnitEarthMass),
			Radius:        Inferred(b.radius.draw(s), UnitEarthRadius),
			Density:       Inferred(b.density.draw(s), UnitDensity),
		})
	}
	return planets
}
