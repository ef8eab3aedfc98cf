package experiment

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

var ErrUnknownScenario = errors.New("experiment: unknown scenario")

// Builder populates a freshly created system for one scenario.
type Builder func(sys *sim.BodySystem, cfg *config.Config, rng *rand.Rand) error

const (
	// main belt, in units of EarthDistance
	beltInner = 2.1
	beltOuter = 3.3

	blackHoleDistance = 2.7e17
)

type Registry struct {
	scenarios map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{
		scenarios: make(map[string]Builder),
	}

	r.scenarios["solar"] = buildSolar
	r.scenarios["belt"] = buildBelt
	r.scenarios["catalog"] = buildCatalog
	r.scenarios["twobody"] = buildTwoBody
	r.scenarios["blackhole"] = buildBlackHole

	return r
}

func (r *Registry) Register(name string, b Builder) {
	r.scenarios[name] = b
}

func (r *Registry) Get(name string) (Builder, error) {
	fn, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, name)
	}
	return fn, nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(c physics.Constants) []sim.Metric {
	return metrics.Standard(c)
}

// buildSolar is the canonical system with a sampled asteroid population and
// the catalog comets. UseKnownCatalog takes the asteroids from the catalog
// instead of sampling them.
func buildSolar(sys *sim.BodySystem, cfg *config.Config, rng *rand.Rand) error {
	sys.ResetScenario()
	if cfg.UseKnownCatalog {
		sys.AddKnownBodies(cfg.BodyCount)
	} else {
		sys.AddRandomBodies(cfg.BodyCount, rng)
	}
	sys.AddCatalogComets()
	return nil
}

func buildCatalog(sys *sim.BodySystem, cfg *config.Config, rng *rand.Rand) error {
	sys.ResetScenario()
	sys.AddKnownBodies(cfg.BodyCount)
	sys.AddCatalogComets()
	return nil
}

// buildBelt keeps the star and Jupiter and fills the main belt.
func buildBelt(sys *sim.BodySystem, cfg *config.Config, rng *rand.Rand) error {
	sys.ResetScenario()
	c := sys.Constants()

	anchors := sys.Anchors()
	sys.Clear()
	for _, a := range anchors {
		if a.Kind == physics.Star || a.Mass > 300*c.EarthMass {
			if _, err := sys.AddBody(a); err != nil {
				return err
			}
		}
	}

	for i := 0; i < c.ClampBodies(cfg.BodyCount); i++ {
		dist := c.EarthDistance * (beltInner + rng.Float64()*(beltOuter-beltInner))
		mass := c.DwarfPlanetMass * (1 - rng.Float64()) / 10
		b, err := physics.NewCircular(physics.Asteroid, dist, rng.Float64()*2*math.Pi, mass, c.SolarMass, c)
		if err != nil {
			return err
		}
		if _, err := sys.AddBody(*b); err != nil {
			return err
		}
	}
	return nil
}

// buildTwoBody is a star and one earth-like planet on a circular orbit.
func buildTwoBody(sys *sim.BodySystem, cfg *config.Config, rng *rand.Rand) error {
	sys.Clear()
	c := sys.Constants()

	if _, err := sys.AddBody(physics.Body{Kind: physics.Star, Mass: c.SolarMass}); err != nil {
		return err
	}
	planet, err := physics.NewCircular(physics.Planet, c.EarthDistance, 0, c.EarthMass, c.SolarMass, c)
	if err != nil {
		return err
	}
	_, err = sys.AddBody(*planet)
	return err
}

// buildBlackHole drops a second solar mass into the inner system.
func buildBlackHole(sys *sim.BodySystem, cfg *config.Config, rng *rand.Rand) error {
	if err := buildSolar(sys, cfg, rng); err != nil {
		return err
	}
	c := sys.Constants()
	hole, err := physics.NewCircular(physics.BlackHole, blackHoleDistance, rng.Float64()*2*math.Pi, c.SolarMass, c.SolarMass, c)
	if err != nil {
		return err
	}
	_, err = sys.AddBody(*hole)
	return err
}
