package sim

import (
	"math"
	"math/rand"

	"github.com/san-kum/gravsim/internal/catalog"
	"github.com/san-kum/gravsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// spawn distances for sampled bodies, in units of EarthDistance
	minSpawnRatio = 0.1
	maxSpawnRatio = 40.0

	retrogradeChance = 0.01
	massShape        = 1.8
)

type planetSpec struct {
	name       string
	kind       physics.Kind
	axisRatio  float64
	ecc        float64
	node, peri float64
	earthMass  float64
	parent     string
}

// solarSystem is the canonical anchor set; "earth" must precede "moon".
var solarSystem = []planetSpec{
	{"mercury", physics.Planet, .38709, 0.20563, 48.3, 29.1, .0553, "sun"},
	{"venus", physics.Planet, .7233, 0.006772, 76.68, 54.884, .815, "sun"},
	{"earth", physics.Planet, 1, 0.0167086, 174.9, 288.1, 1, "sun"},
	{"moon", physics.Moon, 0.00384748, 0.0549, 0, 0, 0.0012, "earth"},
	{"mars", physics.Planet, 1.524, 0.0934, 49.558, 286.502, .107, "sun"},
	{"jupiter", physics.Planet, 5.203, 0.048498, 100.464, 273.867, 317.83, "sun"},
	{"saturn", physics.Planet, 9.537, 0.05555, 113.665, 339.392, 95.162, "sun"},
	{"uranus", physics.Planet, 19.2, 0.046381, 74.006, 96.998857, 14, "sun"},
	{"neptune", physics.Planet, 30.1, 0.009456, 131.784, 276.336, 17, "sun"},
}

// ResetScenario clears every collection and recreates the canonical solar
// system: a star and its planets at fixed orbital elements. Statistics and
// the frame counter start over.
func (s *BodySystem) ResetScenario() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()

	sun, _ := physics.NewBody(physics.Star, r2.Vec{}, r2.Vec{}, s.c.SolarMass, s.c)
	s.addAnchor(*sun)

	byName := map[string]physics.Body{"sun": s.anchors[0]}
	for _, p := range solarSystem {
		parent := byName[p.parent]
		el := physics.Elements{
			SemiMajorAxis:     p.axisRatio * s.c.EarthDistance,
			Eccentricity:      p.ecc,
			LongAscendingNode: p.node,
			ArgPeriapsis:      p.peri,
		}
		b, err := physics.NewFromElements(p.kind, el, p.earthMass*s.c.EarthMass, &parent, s.c)
		if err != nil {
			s.log.Error("canonical body rejected", "name", p.name, "err", err)
			continue
		}
		s.addAnchor(*b)
		byName[p.name] = s.anchors[len(s.anchors)-1]
	}
}

// Clear empties all collections and resets the frame counter and statistics.
func (s *BodySystem) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

func (s *BodySystem) clear() {
	s.anchors = nil
	for i := range s.parts {
		s.parts[i] = nil
	}
	s.cursor = 0
	s.collisions = nil
	s.lastTick = nil
	s.frame = 0
	s.nextID = 0
	s.stats = Stats{}
}

func (s *BodySystem) addAnchor(b physics.Body) {
	s.nextID++
	b.ID = s.nextID
	s.anchors = append(s.anchors, b)
}

// primary returns the heaviest anchor, or nil when there are none.
func (s *BodySystem) primary() *physics.Body {
	var p *physics.Body
	for i := range s.anchors {
		if p == nil || s.anchors[i].Mass > p.Mass {
			p = &s.anchors[i]
		}
	}
	return p
}

func (s *BodySystem) centralMass() float64 {
	if p := s.primary(); p != nil {
		return p.Mass
	}
	return s.c.SolarMass
}

// room clamps a requested count to [0, MaxBodies] and to what the
// population can still take.
func (s *BodySystem) room(n int) int {
	n = s.c.ClampBodies(n)
	if left := s.c.MaxBodies - s.transients(); n > left {
		n = max(left, 0)
	}
	return n
}

// AddRandomBodies samples n asteroids on circular orbits around the origin
// and spreads them over the partitions. n is clamped to [0, MaxBodies].
// The same rng state always yields the same bodies.
func (s *BodySystem) AddRandomBodies(n int, rng *rand.Rand) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n = s.room(n)
	central := s.centralMass()
	return s.fill(spread(n, len(s.parts)), func() (physics.Body, bool) {
		return s.sampleAsteroid(rng, central), true
	})
}

func (s *BodySystem) sampleAsteroid(rng *rand.Rand, central float64) physics.Body {
	dist := s.c.EarthDistance * (minSpawnRatio + rng.Float64()*(maxSpawnRatio-minSpawnRatio))
	angle := rng.Float64() * 2 * math.Pi
	u := 1 - rng.Float64()
	mass := u * s.c.DwarfPlanetMass * math.Exp(1-rng.Float64()) / massShape

	b, err := physics.NewCircular(physics.Asteroid, dist, angle, mass, central, s.c)
	if err != nil {
		// unreachable for u in (0, 1]; keep the body valid regardless
		b, _ = physics.NewCircular(physics.Asteroid, dist, angle, s.c.DwarfPlanetMass, central, s.c)
	}
	if rng.Float64() < retrogradeChance {
		b.Vel.X, b.Vel.Y = -b.Vel.X, -b.Vel.Y
	}
	return *b
}

// AddKnownBodies adds the first n catalog asteroids, spread over the
// partitions like AddRandomBodies. Records with unusable elements are
// skipped. It returns the number of bodies added.
func (s *BodySystem) AddKnownBodies(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalog == nil {
		return 0
	}
	return s.addRecords(s.catalog.Asteroids, physics.Asteroid, n)
}

// AddCatalogComets adds every catalog comet to the transient population.
func (s *BodySystem) AddCatalogComets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalog == nil {
		return 0
	}
	return s.addRecords(s.catalog.Comets, physics.Comet, len(s.catalog.Comets))
}

func (s *BodySystem) addRecords(records []catalog.Record, kind physics.Kind, n int) int {
	n = min(s.room(n), len(records))
	ref := s.primary()
	if ref == nil {
		ref = &physics.Body{Mass: s.c.SolarMass}
	}
	refCopy := *ref

	bodies := make([]physics.Body, 0, n)
	for _, r := range records {
		if len(bodies) == n {
			break
		}
		b, err := physics.NewFromElements(kind, r.Elements(s.c.EarthDistance), r.Mass(s.c), &refCopy, s.c)
		if err != nil {
			s.log.Warn("catalog record skipped", "name", r.Name, "err", err)
			continue
		}
		bodies = append(bodies, *b)
	}

	next := 0
	return s.fill(spread(len(bodies), len(s.parts)), func() (physics.Body, bool) {
		b := bodies[next]
		next++
		return b, true
	})
}

// SetCatalog replaces the catalog used by AddKnownBodies and AddCatalogComets.
func (s *BodySystem) SetCatalog(cat *catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = cat
}

// AddBody inserts b by kind: anchors join the anchor set, everything else
// joins the active partition. Partitions take turns being active. The
// assigned ID is returned.
func (s *BodySystem) AddBody(b physics.Body) (uint64, error) {
	if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
		return 0, physics.ErrInvalidMass
	}
	b.Diameter = physics.Diameter(b.Mass, s.c)

	s.mu.Lock()
	defer s.mu.Unlock()

	if b.Kind.IsAnchor() {
		s.addAnchor(b)
		return s.nextID, nil
	}
	s.nextID++
	b.ID = s.nextID
	s.parts[s.cursor] = append(s.parts[s.cursor], b)
	s.cursor = (s.cursor + 1) % len(s.parts)
	return b.ID, nil
}
