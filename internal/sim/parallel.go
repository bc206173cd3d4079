package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs the same scenario under consecutive seeds. Each run gets its
// own Simulator from newSim so metric state is never shared.
type Ensemble struct {
	newSim    func() *Simulator
	numRuns   int
	seedStart int64
	limit     int
}

func NewEnsemble(newSim func() *Simulator, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{newSim: newSim, numRuns: numRuns, seedStart: seedStart, limit: -1}
}

// SetLimit bounds the number of concurrent runs; n <= 0 means unbounded.
func (e *Ensemble) SetLimit(n int) {
	if n <= 0 {
		n = -1
	}
	e.limit = n
}

// Run returns one result per seed in seed order. The first failing run
// cancels the rest.
func (e *Ensemble) Run(ctx context.Context, sc Scenario, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)
	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			res, err := e.newSim().Run(ctx, sc, cfgCopy)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunAll runs several scenarios under one config concurrently.
func RunAll(ctx context.Context, newSim func() *Simulator, scenarios []Scenario, cfg Config, limit int) ([]*Result, error) {
	results := make([]*Result, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range scenarios {
		idx := i
		g.Go(func() error {
			res, err := newSim().Run(ctx, scenarios[idx], cfg)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
