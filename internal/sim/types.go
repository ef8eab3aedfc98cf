package sim

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/san-kum/gravsim/internal/catalog"
	"github.com/san-kum/gravsim/internal/physics"
)

// Options configure a BodySystem. Zero fields take their defaults.
type Options struct {
	Constants physics.Constants

	// Partitions is the number of transient-body partitions, fixed for the
	// lifetime of the system.
	Partitions int

	// Workers sizes the worker pool.
	Workers int

	CollisionsEnabled bool
	DeltaTime         float64
	Catalog           *catalog.Catalog
	Logger            *slog.Logger

	// RebalanceInterval redistributes transient bodies across partitions
	// every that many ticks. Zero keeps the initial assignment.
	RebalanceInterval uint64
}

func DefaultOptions() Options {
	c := physics.DefaultConstants()
	return Options{
		Constants:         c,
		Partitions:        2 * runtime.NumCPU(),
		Workers:           runtime.NumCPU(),
		CollisionsEnabled: true,
		DeltaTime:         c.DefaultDt,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Constants == (physics.Constants{}) {
		o.Constants = def.Constants
	}
	if o.Partitions <= 0 {
		o.Partitions = def.Partitions
	}
	if o.Workers <= 0 {
		o.Workers = def.Workers
	}
	if !o.Constants.ValidDt(o.DeltaTime) {
		o.DeltaTime = o.Constants.DefaultDt
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Partition is a statically assigned group of transient bodies processed by
// one worker per tick.
type Partition []physics.Body

func (p Partition) Comets() int {
	n := 0
	for i := range p {
		if p[i].Kind == physics.Comet {
			n++
		}
	}
	return n
}

// Stats are counters since the last scenario reset.
type Stats struct {
	Ticks        uint64
	Merges       uint64
	AnchorMerges uint64
	Discarded    uint64
	LastTick     time.Duration
	TotalTick    time.Duration
}

func (s Stats) AvgTick() time.Duration {
	if s.Ticks == 0 {
		return 0
	}
	return s.TotalTick / time.Duration(s.Ticks)
}

// Summary is a cheap per-tick view: anchors are copied, transient bodies are
// only counted.
type Summary struct {
	Frame         uint64
	DeltaTime     float64
	Anchors       []physics.Body
	Transients    int
	Comets        int
	TransientMass float64
	NewCollisions []physics.Collision
	Stats         Stats
}

// Snapshot is a deep, read-only copy of the whole system.
type Snapshot struct {
	Frame      uint64
	DeltaTime  float64
	Anchors    []physics.Body
	Partitions []Partition
	Collisions []physics.Collision
	Stats      Stats
}

// Bodies flattens the partitions. Comets are left out unless showComets is set.
func (s Snapshot) Bodies(showComets bool) []physics.Body {
	n := 0
	for _, p := range s.Partitions {
		n += len(p)
	}
	out := make([]physics.Body, 0, n)
	for _, p := range s.Partitions {
		for i := range p {
			if !showComets && p[i].Kind == physics.Comet {
				continue
			}
			out = append(out, p[i])
		}
	}
	return out
}

// Recent returns collisions younger than window frames.
func (s Snapshot) Recent(window uint64) []physics.Collision {
	return recent(s.Collisions, s.Frame, window)
}

func recent(all []physics.Collision, frame, window uint64) []physics.Collision {
	out := make([]physics.Collision, 0)
	for _, c := range all {
		if frame-c.Frame < window {
			out = append(out, c)
		}
	}
	return out
}

// Observer is notified after every committed tick.
type Observer interface {
	OnTick(s Summary)
}

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(s Summary)
	Value() float64
	Reset()
}
