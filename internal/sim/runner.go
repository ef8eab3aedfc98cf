package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// RunConfig bounds a Runner session.
type RunConfig struct {
	// Ticks is the number of ticks to run; zero runs until the context ends.
	Ticks int

	// Interval is the minimum wall-clock time between tick starts.
	Interval time.Duration
}

type Result struct {
	Ticks   int
	Elapsed time.Duration
	Metrics map[string]float64
	Errors  []error
	Final   Summary
}

// Runner drives a BodySystem tick after tick and feeds observers and
// metrics. Stopping the context prevents the next tick; a tick in flight
// always completes.
type Runner struct {
	sys       *BodySystem
	metrics   []Metric
	observers []Observer
}

func NewRunner(sys *BodySystem) *Runner {
	return &Runner{
		sys:       sys,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) validate(cfg RunConfig) error {
	if cfg.Ticks < 0 {
		return fmt.Errorf("%w: ticks must be non-negative, got %d", ErrInvalidRun, cfg.Ticks)
	}
	if cfg.Interval < 0 {
		return fmt.Errorf("%w: interval must be non-negative, got %s", ErrInvalidRun, cfg.Interval)
	}
	return nil
}

func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := r.validate(cfg); err != nil {
		return nil, err
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	result := &Result{
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	summaries := make(chan Summary, 16)

	g.Go(func() error {
		defer close(summaries)

		var ticker *time.Ticker
		if cfg.Interval > 0 {
			ticker = time.NewTicker(cfg.Interval)
			defer ticker.Stop()
		}

		for i := 0; cfg.Ticks == 0 || i < cfg.Ticks; i++ {
			select {
			case <-gctx.Done():
				return nil
			default:
			}

			if err := r.sys.UpdatePositions(); err != nil {
				if errors.Is(err, ErrClosed) {
					return err
				}
				result.Errors = append(result.Errors, err)
				continue
			}
			result.Ticks++

			select {
			case summaries <- r.sys.Summary():
			case <-gctx.Done():
				return nil
			}

			if ticker != nil {
				select {
				case <-ticker.C:
				case <-gctx.Done():
					return nil
				}
			}
		}
		return nil
	})

	g.Go(func() error {
		for sum := range summaries {
			for _, m := range r.metrics {
				m.Observe(sum)
			}
			for _, o := range r.observers {
				o.OnTick(sum)
			}
		}
		return nil
	})

	err := g.Wait()
	result.Elapsed = time.Since(start)
	result.Final = r.sys.Summary()
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if err != nil {
		return result, err
	}
	if ctx.Err() != nil {
		return result, ctx.Err()
	}
	return result, nil
}
