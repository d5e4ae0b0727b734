package catalog

type referencePlanet struct {
	kind                                      PlanetType
	axisAU, periodYr, ecc, mass, radius, dens float64
}

// Mercury through Saturn.
var solarPlanets = []referencePlanet{
	{PlanetTypeRocky, 0.387, 0.241, 0.2056, 0.0553, 0.383, 5.43},
	{PlanetTypeRocky, 0.723, 0.615, 0.0068, 0.815, 0.949, 5.24},
	{PlanetTypeRocky, 1.000, 1.000, 0.0167, 1.000, 1.000, 5.51},
	{PlanetTypeRocky, 1.524, 1.881, 0.0934, 0.107, 0.532, 3.93},
	{PlanetTypeGas, 5.203, 11.86, 0.0489, 317.8, 11.21, 1.33},
	{PlanetTypeGas, 9.537, 29.46, 0.0565, 95.2, 9.45, 0.687},
}

// referenceSystem is the fixed star at the origin of every catalog.
func referenceSystem() (StarRecord, []PlanetRecord) {
	zero := Supplied(0, UnitLightYear)
	sol := StarRecord{
		Name:              ReferenceStarName,
		SpectralClass:     ClassG,
		Temperature:       Supplied(5772, UnitKelvin),
		AbsoluteMagnitude: Supplied(4.83, UnitMagnitude),
		RightAscension:    Supplied(0, UnitDegrees),
		Declination:       Supplied(0, UnitDegrees),
		Radius:            Supplied(radiusDisplayScale, UnitSolarRadius),
		Position:          Position{X: zero, Y: zero, Z: zero},
		Distance:          zero,
		PlanetCount:       len(solarPlanets),
		Reference:         true,
	}

	planets := make([]PlanetRecord, 0, len(solarPlanets))
	for i, p := range solarPlanets {
		planets = append(planets, PlanetRecord{
			Host:          ReferenceStarName,
			Index:         i + 1,
			Name:          planetName(ReferenceStarName, i),
			Type:          p.kind,
			SemiMajorAxis: Supplied(p.axisAU, UnitAU),
			OrbitalPeriod: Supplied(p.periodYr, UnitYear),
			Eccentricity:  Supplied(p.ecc, UnitDimensionless),
			Mass:          Supplied(p.mass, UnitEarthMass),
			Radius:        Supplied(p.radius, UnitEarthRadius),
			Density:       Supplied(p.dens, UnitDensity),
		})
	}
	return sol, planets
}
