package sim

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/san-kum/gravsim/internal/physics"
)

type countMetric struct {
	n float64
}

func (m *countMetric) Name() string      { return "count" }
func (m *countMetric) Observe(s Summary) { m.n++ }
func (m *countMetric) Value() float64    { return m.n }
func (m *countMetric) Reset()            { m.n = 0 }

type frameRecorder struct {
	mu     sync.Mutex
	frames []uint64
}

func (o *frameRecorder) OnTick(s Summary) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.frames = append(o.frames, s.Frame)
}

func TestRunner_Run(t *testing.T) {
	sys := newTestSystem(t, Options{CollisionsEnabled: true})
	sys.ResetScenario()
	sys.AddRandomBodies(100, rand.New(rand.NewSource(1)))

	r := NewRunner(sys)
	metric := &countMetric{n: 99}
	rec := &frameRecorder{}
	r.AddMetric(metric)
	r.AddObserver(rec)

	res, err := r.Run(context.Background(), RunConfig{Ticks: 10})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Ticks != 10 {
		t.Errorf("ticks = %d, want 10", res.Ticks)
	}
	if res.Metrics["count"] != 10 {
		t.Errorf("metric = %v, want 10 (reset before run)", res.Metrics["count"])
	}
	if res.Final.Frame != 10 {
		t.Errorf("final frame = %d", res.Final.Frame)
	}
	for i, f := range rec.frames {
		if f != uint64(i+1) {
			t.Fatalf("observer saw frames %v", rec.frames)
		}
	}
	if len(res.Errors) != 0 {
		t.Errorf("unexpected tick errors: %v", res.Errors)
	}
}

func TestRunner_Cancel(t *testing.T) {
	sys := newTestSystem(t, Options{})
	sys.ResetScenario()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res, err := NewRunner(sys).Run(ctx, RunConfig{Interval: 5 * time.Millisecond})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if res == nil || res.Ticks == 0 {
		t.Fatal("expected some ticks before cancellation")
	}
	if uint64(res.Ticks) != sys.Frame() {
		t.Errorf("result reports %d ticks, system is at frame %d", res.Ticks, sys.Frame())
	}
}

func TestRunner_CollectsTickErrors(t *testing.T) {
	sys := newTestSystem(t, Options{})
	if _, err := sys.AddBody(physics.Body{Kind: physics.Asteroid, Mass: 1}); err != nil {
		t.Fatal(err)
	}
	calls := 0
	injectPartitionFault(t, func(p int) {
		if p == 0 {
			calls++
			if calls == 2 {
				panic("flaky")
			}
		}
	})

	res, err := NewRunner(sys).Run(context.Background(), RunConfig{Ticks: 3})
	if err != nil {
		t.Fatal(err)
	}
	if res.Ticks != 2 || len(res.Errors) != 1 {
		t.Errorf("ticks %d errors %d, want 2 and 1", res.Ticks, len(res.Errors))
	}
	if sys.Frame() != 2 {
		t.Errorf("frame = %d, want 2", sys.Frame())
	}
}

func TestRunner_Invalid(t *testing.T) {
	sys := newTestSystem(t, Options{})
	r := NewRunner(sys)

	for _, cfg := range []RunConfig{{Ticks: -1}, {Interval: -time.Second}} {
		if _, err := r.Run(context.Background(), cfg); !errors.Is(err, ErrInvalidRun) {
			t.Errorf("%+v: expected ErrInvalidRun, got %v", cfg, err)
		}
	}
}

func TestRunner_Closed(t *testing.T) {
	sys := New(Options{Partitions: 1, Workers: 1})
	sys.Close()

	_, err := NewRunner(sys).Run(context.Background(), RunConfig{Ticks: 5})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
