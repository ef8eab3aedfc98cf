package metrics

import (
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

// MergeRate is the mean number of collisions per observed tick.
type MergeRate struct {
	name    string
	merges  int
	samples int
}

func NewMergeRate() *MergeRate {
	return &MergeRate{
		name: "merge_rate",
	}
}

func (r *MergeRate) Name() string {
	return r.name
}

func (r *MergeRate) Observe(s sim.Summary) {
	r.merges += len(s.NewCollisions)
	r.samples++
}

func (r *MergeRate) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return float64(r.merges) / float64(r.samples)
}

func (r *MergeRate) Reset() {
	r.merges = 0
	r.samples = 0
}

// Population reports the transient body count at the last observed tick
// and keeps the full history for charting.
type Population struct {
	name    string
	history []float64
}

func NewPopulation() *Population {
	return &Population{name: "population"}
}

func (p *Population) Name() string { return p.name }

func (p *Population) Observe(s sim.Summary) {
	p.history = append(p.history, float64(s.Transients))
}

func (p *Population) Value() float64 {
	if len(p.history) == 0 {
		return 0
	}
	return p.history[len(p.history)-1]
}

// History returns the per-tick counts observed since the last reset.
func (p *Population) History() []float64 {
	return p.history
}

func (p *Population) Reset() {
	p.history = p.history[:0]
}

// Standard returns the metrics every run collects.
func Standard(c physics.Constants) []sim.Metric {
	return []sim.Metric{
		NewEnergyDrift(c),
		NewMassConservation(),
		NewMergeRate(),
		NewPopulation(),
	}
}
