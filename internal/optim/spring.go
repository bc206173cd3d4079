package optim

import (
	"context"
	"math"

	"github.com/san-kum/motion/internal/analysis"
	"github.com/san-kum/motion/internal/metrics"
	"github.com/san-kum/motion/internal/sim"
	"github.com/san-kum/motion/internal/spring"
)

const tuneKey = "x"

// SpringMove builds a single-key move from 0 to distance with the grid's
// stiffness and damping.
func SpringMove(distance float64) Build {
	return func(p map[string]float64) (sim.Scenario, []sim.Metric, error) {
		cfg := spring.Config{Stiffness: p["stiffness"], Damping: p["damping"], Precision: spring.DefaultPrecision}
		if err := cfg.Validate(); err != nil {
			return sim.Scenario{}, nil, err
		}
		sc := sim.Scenario{
			Name:         "tune",
			Target:       spring.Style{tuneKey: spring.To(distance, cfg)},
			DefaultStyle: spring.PlainStyle{tuneKey: 0},
		}
		return sc, metrics.ForScenario(sc), nil
	}
}

// FastestSettle scores by settle time, rejecting runs that overshoot more
// than maxOvershoot or never come to rest.
func FastestSettle(maxOvershoot float64) Objective {
	return func(r *sim.Result) float64 {
		if len(r.Rests) == 0 || r.Metrics["overshoot_"+tuneKey] > maxOvershoot {
			return math.Inf(1)
		}
		return r.Metrics["settle_time_"+tuneKey]
	}
}

// MatchEasing scores by RMS deviation from fn over the recorded run.
func MatchEasing(fn analysis.EaseFunc) Objective {
	return func(r *sim.Result) float64 {
		if len(r.Rests) == 0 {
			return math.Inf(1)
		}
		values := r.Series(tuneKey)
		c, err := analysis.CompareEasing(r.Times, values, values[0], values[len(values)-1], fn)
		if err != nil {
			return math.Inf(1)
		}
		return c.RMS
	}
}

// TuneSpring searches stiffness and damping on an n x n grid.
func TuneSpring(ctx context.Context, distance float64, n int, objective Objective) (spring.Config, float64, error) {
	g := NewGridSearch(
		[]string{"stiffness", "damping"},
		[][]float64{Linspace(50, 400, n), Linspace(5, 50, n)},
	)
	cfg := sim.DefaultConfig()
	params, score, err := g.Search(ctx, SpringMove(distance), cfg, objective)
	if err != nil {
		return spring.Config{}, 0, err
	}
	return spring.Config{
		Stiffness: params["stiffness"],
		Damping:   params["damping"],
		Precision: spring.DefaultPrecision,
	}, score, nil
}
