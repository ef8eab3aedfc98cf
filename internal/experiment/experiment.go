package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/san-kum/gravsim/internal/catalog"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

var ErrNotSetup = errors.New("experiment: not set up")

// Experiment turns a Config into a populated BodySystem and a Runner.
type Experiment struct {
	cfg        *config.Config
	consts     physics.Constants
	system     *sim.BodySystem
	runner     *sim.Runner
	randSource *rand.Rand
	log        *slog.Logger
}

func New(cfg *config.Config, log *slog.Logger) *Experiment {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Experiment{
		cfg:        cfg,
		consts:     physics.DefaultConstants(),
		randSource: rand.New(rand.NewSource(cfg.Seed)),
		log:        log,
	}
}

// Setup validates the config, loads the catalogs, builds the scenario and
// attaches metrics to a new runner.
func (e *Experiment) Setup(reg *Registry, metrics []sim.Metric) error {
	if err := e.cfg.Validate(e.consts); err != nil {
		return err
	}
	build, err := reg.Get(e.cfg.Scenario)
	if err != nil {
		return err
	}

	cat, err := catalog.Load(e.cfg.CometsFile, e.cfg.AsteroidsFile)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	if cat.Skipped > 0 {
		e.log.Warn("catalog rows skipped", "count", cat.Skipped)
	}

	if e.system != nil {
		e.system.Close()
	}
	e.system = sim.New(sim.Options{
		Constants:         e.consts,
		Partitions:        e.cfg.Partitions,
		Workers:           e.cfg.Workers,
		CollisionsEnabled: e.cfg.CollisionsEnabled,
		DeltaTime:         e.cfg.DeltaTime,
		Catalog:           cat,
		Logger:            e.log,
		RebalanceInterval: e.cfg.RebalanceInterval,
	})

	if err := build(e.system, e.cfg, e.randSource); err != nil {
		return fmt.Errorf("building scenario %s: %w", e.cfg.Scenario, err)
	}
	anchors, transients := e.system.Counts()
	e.log.Info("scenario ready", "scenario", e.cfg.Scenario, "anchors", anchors, "transients", transients)

	e.runner = sim.NewRunner(e.system)
	for _, m := range metrics {
		e.runner.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.runner == nil {
		return nil, ErrNotSetup
	}
	return e.runner.Run(ctx, sim.RunConfig{Ticks: e.cfg.Ticks})
}

// System returns the underlying system for observers and interactive control.
func (e *Experiment) System() *sim.BodySystem {
	return e.system
}

func (e *Experiment) Runner() *sim.Runner {
	return e.runner
}

func (e *Experiment) Close() {
	if e.system != nil {
		e.system.Close()
	}
}
