// Package catalog expands a sector into synthetic stars and planets.
package catalog

import (
	"encoding/json"
)

type Provenance string

const (
	// ProvenanceSupplied marks fixed reference constants.
	ProvenanceSupplied Provenance = "supplied"
	// ProvenanceInferred marks randomized values.
	ProvenanceInferred Provenance = "inferred"
)

// Units.
const (
	UnitKelvin        = "K"
	UnitMagnitude     = "mag"
	UnitDegrees       = "deg"
	UnitSolarRadius   = "R_sun"
	UnitLightYear     = "ly"
	UnitAU            = "AU"
	UnitYear          = "yr"
	UnitEarthMass     = "M_earth"
	UnitEarthRadius   = "R_earth"
	UnitDensity       = "g/cm3"
	UnitDimensionless = "1"
)

// Quantity is a number tagged with its unit and where it came from.
type Quantity struct {
	Value      float64    `json:"value"`
	Unit       string     `json:"unit"`
	Provenance Provenance `json:"provenance"`
}

func Supplied(value float64, unit string) Quantity {
	return Quantity{Value: value, Unit: unit, Provenance: ProvenanceSupplied}
}

func Inferred(value float64, unit string) Quantity {
	return Quantity{Value: value, Unit: unit, Provenance: ProvenanceInferred}
}

type SpectralClass string

const (
	ClassA SpectralClass = "A"
	ClassF SpectralClass = "F"
	ClassG SpectralClass = "G"
	ClassK SpectralClass = "K"
	ClassM SpectralClass = "M"
)

type PlanetType string

const (
	PlanetTypeRocky PlanetType = "rocky"
	PlanetTypeIce   PlanetType = "ice"
	PlanetTypeGas   PlanetType = "gas"
)

type Position struct {
	X Quantity `json:"x"`
	Y Quantity `json:"y"`
	Z Quantity `json:"z"`
}

// GridCoord is the star's 1-indexed address in the source sector.
type GridCoord struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

type StarRecord struct {
	Name              string        `json:"name"`
	SpectralClass     SpectralClass `json:"spectralClass"`
	Temperature       Quantity      `json:"temperature"`
	AbsoluteMagnitude Quantity      `json:"absoluteMagnitude"`
	RightAscension    Quantity      `json:"rightAscension"`
	Declination       Quantity      `json:"declination"`
	Radius            Quantity      `json:"radius"`
	Position          Position      `json:"position"`
	Distance          Quantity      `json:"distance"`
	Grid              *GridCoord    `json:"grid,omitempty"`
	PlanetCount       int           `json:"planetCount"`
	Reference         bool          `json:"reference,omitempty"`
}

type PlanetRecord struct {
	Host          string     `json:"host"`
	Index         int        `json:"index"`
	Name          string     `json:"name"`
	Type          PlanetType `json:"type"`
	SemiMajorAxis Quantity   `json:"semiMajorAxis"`
	OrbitalPeriod Quantity   `json:"orbitalPeriod"`
	Eccentricity  Quantity   `json:"eccentricity"`
	Mass          Quantity   `json:"mass"`
	Radius        Quantity   `json:"radius"`
	Density       Quantity   `json:"density"`
}

// Images holds capture references, usually data URLs.
type Images struct {
	Root  string `json:"root,omitempty"`
	Final string `json:"final,omitempty"`
	Crop  string `json:"crop,omitempty"`
}

// Appendix links a catalog back to the sector it was built from.
type Appendix struct {
	SectorJSON json.RawMessage `json:"sectorJSON"`
	Images     Images          `json:"images"`
}

// Record is the catalog file.
type Record struct {
	Stars    []StarRecord   `json:"stars"`
	Planets  []PlanetRecord `json:"planets"`
	Appendix Appendix       `json:"appendix"`
}

// Text encodes the catalog file.
func (r *Record) Text() (string, error) {
	body, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(body), nil
}
