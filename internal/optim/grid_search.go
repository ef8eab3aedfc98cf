package optim

import (
	"context"
	"errors"
	"math"

	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/sim"
)

var ErrEmptyGrid = errors.New("optim: empty parameter grid")

// Trial is one evaluated grid point. Lower scores are better.
type Trial struct {
	Params map[string]float64
	Score  float64
	Result *sim.Result
}

// GridSearch evaluates every combination of parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search builds, runs and scores an experiment per grid point, in
// lexicographic order of the grid. The first failing point aborts the search.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	score func(*sim.Result) float64,
) ([]Trial, Trial, error) {
	if len(g.paramNames) == 0 || len(g.paramNames) != len(g.ranges) {
		return nil, Trial{}, ErrEmptyGrid
	}
	for _, r := range g.ranges {
		if len(r) == 0 {
			return nil, Trial{}, ErrEmptyGrid
		}
	}

	var trials []Trial
	best := Trial{Score: math.Inf(1)}
	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) error {
		exp, err := buildExperiment(params)
		if err != nil {
			return err
		}
		defer exp.Close()

		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		t := Trial{Params: params, Score: score(result), Result: result}
		trials = append(trials, t)
		if t.Score < best.Score {
			best = t
		}
		return nil
	})
	return trials, best, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	evaluate func(map[string]float64) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return evaluate(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, evaluate); err != nil {
			return err
		}
	}
	return nil
}

// AvgTickSeconds scores a run by its mean tick duration.
func AvgTickSeconds(r *sim.Result) float64 {
	return r.Final.Stats.AvgTick().Seconds()
}
