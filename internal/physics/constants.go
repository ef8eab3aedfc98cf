package physics

// Constants is the set of physical and engine constants shared by every
// body in a system. It is passed by value and never mutated once built.
//
// Distances are scaled: EarthDistance is one astronomical unit times 1e6,
// which keeps the canonical solar system stable at the default timestep.
type Constants struct {
	G             float64
	SolarMass     float64
	EarthMass     float64
	EarthDistance float64

	// Softening is the length added in quadrature to the separation in the
	// force law.
	Softening float64

	// CollisionDistance is the separation below which two bodies merge.
	// It does not depend on either body's diameter.
	CollisionDistance float64

	MinDt     float64
	MaxDt     float64
	DefaultDt float64
	MaxBodies int

	// CometVelocityScale scales the central mass used for a comet's
	// circular-orbit speed.
	CometVelocityScale float64

	// DwarfPlanetMass is the reference mass for randomly sampled bodies.
	DwarfPlanetMass float64

	// CatalogDensity (kg/m³) and DefaultCatalogRadius (km) turn catalog
	// records into masses.
	CatalogDensity       float64
	DefaultCatalogRadius float64
}

const (
	solarMass = 1.98892e30
)

// DefaultConstants returns the constants the canonical scenarios are tuned for.
func DefaultConstants() Constants {
	return Constants{
		G:                    6.673e-11,
		SolarMass:            solarMass,
		EarthMass:            solarMass / 333000.0,
		EarthDistance:        1.496e17,
		Softening:            3e4,
		CollisionDistance:    7e15,
		MinDt:                1e11,
		MaxDt:                5e14,
		DefaultDt:            1e13,
		MaxBodies:            710000,
		CometVelocityScale:   0.1,
		DwarfPlanetMass:      9.393e20,
		CatalogDensity:       600,
		DefaultCatalogRadius: 25,
	}
}

// ValidDt reports whether dt lies within [MinDt, MaxDt].
func (c Constants) ValidDt(dt float64) bool {
	return dt >= c.MinDt && dt <= c.MaxDt
}

// ClampBodies clamps n to [0, MaxBodies].
func (c Constants) ClampBodies(n int) int {
	if n < 0 {
		return 0
	}
	if n > c.MaxBodies {
		return c.MaxBodies
	}
	return n
}
