package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

// EnergyDrift tracks the largest relative deviation of anchor energy from
// the first observed tick. Merges remove energy, so drift includes them.
type EnergyDrift struct {
	name          string
	c             physics.Constants
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(c physics.Constants) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		c:    c,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s sim.Summary) {
	energy := physics.Energy(s.Anchors, e.c)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Current returns the anchor energy at the last observed tick.
func (e *EnergyDrift) Current() float64 {
	return e.currentEnergy
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MassConservation is the largest relative change of total mass, anchors
// plus transient bodies. Merges move mass without creating or destroying
// it, so anything above rounding noise is a bug.
type MassConservation struct {
	name    string
	initial float64
	maxDiff float64
	samples int
}

func NewMassConservation() *MassConservation {
	return &MassConservation{name: "mass_conservation"}
}

func (m *MassConservation) Name() string { return m.name }

func (m *MassConservation) Observe(s sim.Summary) {
	total := physics.TotalMass(s.Anchors) + s.TransientMass
	if m.samples == 0 {
		m.initial = total
	}
	m.samples++
	if m.initial != 0 {
		m.maxDiff = math.Max(m.maxDiff, math.Abs(total-m.initial)/m.initial)
	}
}

func (m *MassConservation) Value() float64 { return m.maxDiff }

func (m *MassConservation) Reset() {
	m.initial = 0
	m.maxDiff = 0
	m.samples = 0
}
