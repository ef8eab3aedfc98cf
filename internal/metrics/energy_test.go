package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

func orbitSummary(c physics.Constants, speed float64) sim.Summary {
	return sim.Summary{
		Anchors: []physics.Body{
			{ID: 1, Kind: physics.Star, Mass: c.SolarMass},
			{ID: 2, Kind: physics.Planet, Pos: r2.Vec{X: c.EarthDistance}, Vel: r2.Vec{Y: speed}, Mass: c.EarthMass},
		},
		Transients:    10,
		TransientMass: 1e21,
	}
}

func TestEnergyDrift(t *testing.T) {
	c := physics.DefaultConstants()
	m := NewEnergyDrift(c)
	v := physics.CircularSpeed(c.G, c.SolarMass, c.EarthDistance)

	m.Observe(orbitSummary(c, v))
	if m.Value() != 0 {
		t.Errorf("drift after one sample = %g", m.Value())
	}
	e0 := m.Current()

	m.Observe(orbitSummary(c, v*1.01))
	m.Observe(orbitSummary(c, v))

	// kinetic part changes by (1.01²-1), the potential part not at all
	want := math.Abs(0.5 * c.EarthMass * v * v * (1.01*1.01 - 1) / e0)
	if math.Abs(m.Value()-want) > 1e-6*want {
		t.Errorf("max drift = %g, want %g", m.Value(), want)
	}
	if m.Current() != e0 {
		t.Errorf("current energy %g, want back at %g", m.Current(), e0)
	}

	m.Reset()
	if m.Value() != 0 || m.Current() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMassConservation(t *testing.T) {
	c := physics.DefaultConstants()
	m := NewMassConservation()

	s := orbitSummary(c, 0)
	m.Observe(s)

	// a merge moves mass from the transient total into an anchor
	s.Anchors[0].Mass += 1e21
	s.TransientMass = 0
	m.Observe(s)
	if m.Value() > 1e-15 {
		t.Errorf("mass moved between collections counted as change: %g", m.Value())
	}

	s.TransientMass = 0.01 * physics.TotalMass(s.Anchors)
	m.Observe(s)
	if math.Abs(m.Value()-0.01) > 1e-9 {
		t.Errorf("value = %g, want 0.01", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMergeRate(t *testing.T) {
	m := NewMergeRate()
	if m.Value() != 0 {
		t.Error("empty rate should be zero")
	}

	m.Observe(sim.Summary{NewCollisions: make([]physics.Collision, 3)})
	m.Observe(sim.Summary{})
	m.Observe(sim.Summary{NewCollisions: make([]physics.Collision, 3)})

	if m.Value() != 2 {
		t.Errorf("rate = %g, want 2", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestPopulation(t *testing.T) {
	m := NewPopulation()
	for _, n := range []int{100, 98, 95} {
		m.Observe(sim.Summary{Transients: n})
	}
	if m.Value() != 95 {
		t.Errorf("population = %g, want 95", m.Value())
	}
	if h := m.History(); len(h) != 3 || h[0] != 100 {
		t.Errorf("history = %v", h)
	}
	m.Reset()
	if m.Value() != 0 || len(m.History()) != 0 {
		t.Error("expected empty after reset")
	}
}

func TestStandard(t *testing.T) {
	names := map[string]bool{}
	for _, m := range Standard(physics.DefaultConstants()) {
		names[m.Name()] = true
	}
	for _, want := range []string{"energy_drift", "mass_conservation", "merge_rate", "population"} {
		if !names[want] {
			t.Errorf("missing metric %s", want)
		}
	}
}
