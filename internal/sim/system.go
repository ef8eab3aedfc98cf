package sim

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/san-kum/gravsim/internal/catalog"
	"github.com/san-kum/gravsim/internal/physics"
)

// BodySystem owns the anchor set and the partitioned transient population
// and advances both one tick at a time.
//
// All methods are safe for concurrent use. A tick holds the system lock from
// start to join, so configuration changes land between ticks.
type BodySystem struct {
	mu sync.Mutex

	c        physics.Constants
	resolver physics.Resolver
	dt       float64
	frame    uint64
	nextID   uint64

	anchors    []physics.Body
	parts      []Partition
	cursor     int
	collisions []physics.Collision
	lastTick   []physics.Collision
	stats      Stats

	catalog        *catalog.Catalog
	pool           *WorkerPool
	buffers        *BodyPool
	log            *slog.Logger
	rebalanceEvery uint64
	closed         bool
}

// wrapPartitionTask decorates each partition task as it is submitted.
var wrapPartitionTask = func(_ int, task func() error) func() error { return task }

type mergeRequest struct {
	winner uint64
	loser  physics.Body
}

type partitionResult struct {
	bodies []physics.Body
	merges []mergeRequest
}

// New returns an empty system. Call ResetScenario to populate the canonical
// anchor set.
func New(opts Options) *BodySystem {
	opts = opts.withDefaults()
	s := &BodySystem{
		c:              opts.Constants,
		resolver:       physics.NewResolver(opts.Constants, opts.CollisionsEnabled),
		dt:             opts.DeltaTime,
		parts:          make([]Partition, opts.Partitions),
		catalog:        opts.Catalog,
		pool:           NewWorkerPool(opts.Workers, opts.Partitions),
		buffers:        NewBodyPool(),
		log:            opts.Logger,
		rebalanceEvery: opts.RebalanceInterval,
	}
	return s
}

// Close releases the worker pool. Further ticks fail with ErrClosed.
func (s *BodySystem) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.pool.Close()
}

func (s *BodySystem) Constants() physics.Constants { return s.c }

// UpdatePositions advances the system by one tick.
//
// Partitions read a copy of the anchors taken before the anchor set is
// touched. Their merges are applied once the anchors have settled and all
// workers have joined. If any partition fails the tick is discarded and the
// system keeps its previous state.
func (s *BodySystem) UpdatePositions() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	start := time.Now()
	frame := s.frame + 1
	dt := s.dt
	resolver := s.resolver
	snapshot := slices.Clone(s.anchors)

	results := make([]partitionResult, len(s.parts))
	tasks := make([]func() error, len(s.parts))
	for i := range s.parts {
		part := s.parts[i]
		tasks[i] = wrapPartitionTask(i, func() error {
			results[i] = s.stepPartition(part, snapshot, resolver, dt)
			return nil
		})
	}
	batch := s.pool.Submit(tasks...)

	anchors, records, absorbed := s.stepAnchors(slices.Clone(s.anchors), resolver, frame, dt)

	if err := batch.Wait(); err != nil {
		for _, r := range results {
			if r.bodies != nil {
				s.buffers.Put(r.bodies)
			}
		}
		s.stats.Discarded++
		s.log.Warn("tick discarded", "frame", frame, "err", err)
		return &TickError{Frame: frame, Wrapped: err}
	}

	s.frame = frame
	if frame == 0 {
		s.collisions = s.collisions[:0]
	}
	s.anchors = anchors
	s.stats.AnchorMerges += uint64(len(records))
	for _, rec := range records {
		s.log.Debug("anchor merge", "frame", frame, "winner", rec.WinnerID, "loser", rec.LoserID)
	}

	index := make(map[uint64]int, len(s.anchors))
	for i := range s.anchors {
		index[s.anchors[i].ID] = i
	}
	for _, r := range results {
		for _, m := range r.merges {
			id := m.winner
			for {
				next, ok := absorbed[id]
				if !ok {
					break
				}
				id = next
			}
			idx, ok := index[id]
			if !ok {
				continue
			}
			records = append(records, resolver.Merge(&s.anchors[idx], &m.loser, frame))
			s.stats.Merges++
		}
	}

	for i, r := range results {
		s.buffers.Put(s.parts[i])
		s.parts[i] = r.bodies
	}

	s.collisions = append(s.collisions, records...)
	s.lastTick = records

	elapsed := time.Since(start)
	s.stats.Ticks++
	s.stats.LastTick = elapsed
	s.stats.TotalTick += elapsed

	if s.rebalanceEvery > 0 && s.stats.Ticks%s.rebalanceEvery == 0 {
		s.rebalance()
	}

	s.log.Debug("tick", "frame", frame, "elapsed", elapsed, "merges", len(records))
	return nil
}

// stepPartition runs one worker's share of a tick. It never writes to part
// or anchors; survivors go to a fresh buffer.
func (s *BodySystem) stepPartition(part Partition, anchors []physics.Body, resolver physics.Resolver, dt float64) partitionResult {
	res := partitionResult{bodies: s.buffers.Get(len(part))}

	for i := range part {
		b := part[i]
		b.ResetForce()
		for j := range anchors {
			b.AddForce(&anchors[j], s.c)
		}

		hit := -1
		for j := range anchors {
			if resolver.Collided(&b, &anchors[j]) {
				hit = j
				break
			}
		}
		if hit >= 0 {
			res.merges = append(res.merges, mergeRequest{winner: anchors[hit].ID, loser: b})
			continue
		}
		res.bodies = append(res.bodies, b)
	}

	for i := range res.bodies {
		res.bodies[i].Integrate(dt)
	}
	return res
}

// stepAnchors advances the anchor set in place with full pairwise
// interaction. On a mass tie the higher-indexed anchor survives. absorbed
// maps each removed anchor to the one that took its mass.
func (s *BodySystem) stepAnchors(a []physics.Body, resolver physics.Resolver, frame uint64, dt float64) ([]physics.Body, []physics.Collision, map[uint64]uint64) {
	n := len(a)
	for i := range a {
		a[i].ResetForce()
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a[i].AddForce(&a[j], s.c)
			a[j].AddForce(&a[i], s.c)
		}
	}

	var records []physics.Collision
	absorbed := make(map[uint64]uint64)
	alive := make([]bool, n)
	for i := range alive {
		alive[i] = true
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n && alive[i]; j++ {
			if !alive[j] || !resolver.Collided(&a[i], &a[j]) {
				continue
			}
			w, l := physics.Winner(&a[i], &a[j])
			records = append(records, resolver.Merge(w, l, frame))
			absorbed[l.ID] = w.ID
			if l == &a[i] {
				alive[i] = false
			} else {
				alive[j] = false
			}
		}
	}

	out := a[:0]
	for i := range a {
		if alive[i] {
			out = append(out, a[i])
		}
	}
	for i := range out {
		out[i].Integrate(dt)
	}
	return out, records, absorbed
}

// SetDeltaTime changes the timestep for subsequent ticks. Values outside
// [MinDt, MaxDt] are ignored; the result reports whether dt was accepted.
func (s *BodySystem) SetDeltaTime(dt float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.c.ValidDt(dt) {
		return false
	}
	s.dt = dt
	return true
}

func (s *BodySystem) DeltaTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dt
}

func (s *BodySystem) SetCollisionsEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolver.Enabled = enabled
}

func (s *BodySystem) CollisionsEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.Enabled
}

func (s *BodySystem) Frame() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// SetFrame moves the frame counter, for replay and wraparound checks.
func (s *BodySystem) SetFrame(frame uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = frame
}

func (s *BodySystem) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Counts returns the number of anchors and transient bodies.
func (s *BodySystem) Counts() (anchors, transients int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.anchors), s.transients()
}

func (s *BodySystem) transients() int {
	n := 0
	for _, p := range s.parts {
		n += len(p)
	}
	return n
}

// PartitionSizes reports the population of each partition.
func (s *BodySystem) PartitionSizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sizes := make([]int, len(s.parts))
	for i, p := range s.parts {
		sizes[i] = len(p)
	}
	return sizes
}

func (s *BodySystem) Anchors() []physics.Body {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.anchors)
}

// Collisions returns records younger than window frames.
func (s *BodySystem) Collisions(window uint64) []physics.Collision {
	s.mu.Lock()
	defer s.mu.Unlock()
	return recent(s.collisions, s.frame, window)
}

// ClearCollisions drops the collision history.
func (s *BodySystem) ClearCollisions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collisions = nil
	s.lastTick = nil
}

func (s *BodySystem) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	parts := make([]Partition, len(s.parts))
	for i, p := range s.parts {
		parts[i] = slices.Clone(p)
	}
	return Snapshot{
		Frame:      s.frame,
		DeltaTime:  s.dt,
		Anchors:    slices.Clone(s.anchors),
		Partitions: parts,
		Collisions: slices.Clone(s.collisions),
		Stats:      s.stats,
	}
}

func (s *BodySystem) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	comets := 0
	mass := 0.0
	for _, p := range s.parts {
		comets += p.Comets()
		mass += physics.TotalMass(p)
	}
	return Summary{
		Frame:         s.frame,
		DeltaTime:     s.dt,
		Anchors:       slices.Clone(s.anchors),
		Transients:    s.transients(),
		Comets:        comets,
		TransientMass: mass,
		NewCollisions: slices.Clone(s.lastTick),
		Stats:         s.stats,
	}
}
