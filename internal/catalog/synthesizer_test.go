package catalog

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"testing"

	"galaxy-maker-server/internal/random"
	"galaxy-maker-server/internal/sector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSynthesizer() *Synthesizer {
	return NewSynthesizer(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testSector(n int) *sector.Record {
	rec := &sector.Record{
		GalaxyType: "Barred Spiral (2 arms)",
		ZoomLevel:  5,
		Grid:       sector.Grid{Width: 20, Height: 10, Depth: 10},
	}
	for i := 0; i < n; i++ {
		x, y, z := i%20+1, i%10+1, i%7+1
		rec.Stars = append(rec.Stars, sector.Star{Name: sector.StarName(x, y, z), X: x, Y: y, Z: z})
	}
	rec.StarCount = len(rec.Stars)
	return rec
}

func TestClassForTemperature(t *testing.T) {
	tests := []struct {
		temp  float64
		class SpectralClass
	}{
		{9000, ClassA},
		{7500, ClassA},
		{7499, ClassF},
		{6000, ClassF},
		{5772, ClassG},
		{5200, ClassG},
		{5199, ClassK},
		{3700, ClassK},
		{3699, ClassM},
		{2800, ClassM},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.class, ClassForTemperature(tt.temp), "temperature %.0f", tt.temp)
	}
}

func TestScaleLyPerUnit(t *testing.T) {
	assert.Equal(t, 7.0, ScaleLyPerUnit(sector.Grid{Width: 20, Height: 10, Depth: 10}))
	assert.Equal(t, 140.0, ScaleLyPerUnit(sector.Grid{}))
}

func TestSynthesizeCompleteness(t *testing.T) {
	c := newTestSynthesizer()
	rec := testSector(50)

	cat, err := c.Synthesize(random.New(3), rec, Images{Root: "data:image/png;base64,AA=="})
	require.NoError(t, err)
	require.Len(t, cat.Stars, len(rec.Stars)+1)

	perHost := make(map[string]int)
	for _, p := range cat.Planets {
		perHost[p.Host]++
	}
	for _, star := range cat.Stars {
		assert.GreaterOrEqual(t, perHost[star.Name], MinPlanets, star.Name)
		assert.LessOrEqual(t, perHost[star.Name], MaxPlanets, star.Name)
		assert.Equal(t, star.PlanetCount, perHost[star.Name], star.Name)
	}

	t.Run("reference star", func(t *testing.T) {
		sol := cat.Stars[0]
		assert.Equal(t, ReferenceStarName, sol.Name)
		assert.True(t, sol.Reference)
		assert.Equal(t, ClassG, sol.SpectralClass)
		assert.Equal(t, ProvenanceSupplied, sol.Temperature.Provenance)
		assert.Equal(t, 0.0, sol.Position.X.Value)
		assert.Equal(t, 0.0, sol.Distance.Value)
		assert.Nil(t, sol.Grid)
	})

	t.Run("appendix carries the sector", func(t *testing.T) {
		var back sector.Record
		require.NoError(t, json.Unmarshal(cat.Appendix.SectorJSON, &back))
		assert.Equal(t, *rec, back)
		assert.Equal(t, "data:image/png;base64,AA==", cat.Appendix.Images.Root)
	})
}

func TestSynthesizeStarRanges(t *testing.T) {
	c := newTestSynthesizer()
	rec := testSector(200)

	cat, err := c.Synthesize(random.New(17), rec, Images{})
	require.NoError(t, err)
	scale := ScaleLyPerUnit(rec.Grid)

	for i, star := range cat.Stars[1:] {
		src := rec.Stars[i]
		assert.Equal(t, src.Name, star.Name)
		assert.Equal(t, ProvenanceInferred, star.Temperature.Provenance)
		assert.Equal(t, UnitKelvin, star.Temperature.Unit)
		assert.GreaterOrEqual(t, star.Temperature.Value, 2800.0)
		assert.Less(t, star.Temperature.Value, 9000.0)
		assert.Equal(t, ClassForTemperature(star.Temperature.Value), star.SpectralClass)
		assert.GreaterOrEqual(t, star.RightAscension.Value, 0.0)
		assert.Less(t, star.RightAscension.Value, 360.0)
		assert.GreaterOrEqual(t, star.Declination.Value, -90.0)
		assert.Less(t, star.Declination.Value, 90.0)
		assert.GreaterOrEqual(t, star.Radius.Value, 0.04)
		assert.LessOrEqual(t, star.Radius.Value, 0.56)

		wantX := (float64(src.X) - float64(rec.Grid.Width)/2) * scale
		assert.InDelta(t, wantX, star.Position.X.Value, 1e-9)
		assert.Equal(t, UnitLightYear, star.Position.Z.Unit)
		require.NotNil(t, star.Grid)
		assert.Equal(t, src.Z, star.Grid.Z)
	}
}

func TestSynthesizePlanetRanges(t *testing.T) {
	c := newTestSynthesizer()
	cat, err := c.Synthesize(random.New(23), testSector(300), Images{})
	require.NoError(t, err)

	buckets := make(map[PlanetType]planetBucket)
	for _, b := range planetBuckets {
		buckets[b.kind] = b
	}

	var lastHost string
	var lastAxis float64
	for _, p := range cat.Planets {
		if p.Host == ReferenceStarName {
			assert.Equal(t, ProvenanceSupplied, p.Mass.Provenance)
			continue
		}
		assert.Equal(t, ProvenanceInferred, p.Mass.Provenance)

		if p.Index == 1 {
			assert.GreaterOrEqual(t, p.SemiMajorAxis.Value, 0.05)
			assert.Less(t, p.SemiMajorAxis.Value, 0.6)
		} else {
			assert.Equal(t, lastHost, p.Host)
			assert.GreaterOrEqual(t, p.SemiMajorAxis.Value, math.Min(lastAxis*1.4, maxSemiMajorAxisAU)-1e-9)
		}
		assert.LessOrEqual(t, p.SemiMajorAxis.Value, maxSemiMajorAxisAU)
		assert.InDelta(t, math.Pow(p.SemiMajorAxis.Value, 1.5), p.OrbitalPeriod.Value, 1e-9)
		assert.GreaterOrEqual(t, p.Eccentricity.Value, 0.0)
		assert.Less(t, p.Eccentricity.Value, maxEccentricity)

		b, ok := buckets[p.Type]
		require.True(t, ok, "unknown planet type %q", p.Type)
		assert.True(t, p.Mass.Value >= b.mass.lo && p.Mass.Value < b.mass.hi, "mass %v for %s", p.Mass.Value, p.Type)
		assert.True(t, p.Radius.Value >= b.radius.lo && p.Radius.Value < b.radius.hi, "radius %v for %s", p.Radius.Value, p.Type)
		assert.True(t, p.Density.Value >= b.density.lo && p.Density.Value < b.density.hi, "density %v for %s", p.Density.Value, p.Type)

		lastHost, lastAxis = p.Host, p.SemiMajorAxis.Value
	}
}

func TestSynthesizeEmptySector(t *testing.T) {
	c := newTestSynthesizer()
	cat, err := c.Synthesize(random.New(1), testSector(0), Images{})
	require.NoError(t, err)

	assert.Len(t, cat.Stars, 1)
	assert.Len(t, cat.Planets, len(solarPlanets))
}

// Two builds of one sector must agree on shape. Their values are free to
// differ, so none are compared.
func TestSynthesizeShapesMatchAcrossBuilds(t *testing.T) {
	c := newTestSynthesizer()
	rec := testSector(40)

	first, err := c.Synthesize(random.New(0), rec, Images{})
	require.NoError(t, err)
	second, err := c.Synthesize(random.New(0), rec, Images{})
	require.NoError(t, err)

	require.Len(t, second.Stars, len(first.Stars))
	for i := range first.Stars {
		assert.Equal(t, first.Stars[i].Name, second.Stars[i].Name)
		assert.Equal(t, first.Stars[i].Grid, second.Stars[i].Grid)
	}
	assert.JSONEq(t, string(first.Appendix.SectorJSON), string(second.Appendix.SectorJSON))
}

func TestRecordText(t *testing.T) {
	c := newTestSynthesizer()
	cat, err := c.Synthesize(random.New(2), testSector(3), Images{Crop: "crop"})
	require.NoError(t, err)

	text, err := cat.Text()
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(text), &decoded))
	assert.Contains(t, decoded, "stars")
	assert.Contains(t, decoded, "planets")
	assert.Contains(t, decoded, "appendix")

	var back Record
	require.NoError(t, json.Unmarshal([]byte(text), &back))
	assert.Len(t, back.Stars, 4)
	assert.Equal(t, "crop", back.Appendix.Images.Crop)
}
