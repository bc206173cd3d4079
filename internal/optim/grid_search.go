// Package optim searches spring parameters for a desired motion.
package optim

import (
	"context"
	"errors"
	"math"

	"github.com/san-kum/motion/internal/sim"
)

// Objective scores a finished run; lower is better. Returning +Inf rejects
// the candidate.
type Objective func(result *sim.Result) float64

// Build turns one grid point into a scenario and its metrics.
type Build func(params map[string]float64) (sim.Scenario, []sim.Metric, error)

var ErrNoCandidate = errors.New("optim: no grid point produced a finite score")

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// Search runs every grid point and returns the best parameters with their
// score. Candidates whose scenario fails to build or run are skipped.
func (g *GridSearch) Search(ctx context.Context, build Build, cfg sim.Config, objective Objective) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), build, cfg, objective, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoCandidate
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build Build,
	cfg sim.Config,
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		sc, metrics, err := build(current)
		if err != nil {
			return nil
		}

		s := sim.New()
		for _, m := range metrics {
			s.AddMetric(m)
		}
		result, err := s.Run(ctx, sc, cfg)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		}

		val := objective(result)
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, build, cfg, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}
