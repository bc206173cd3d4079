package metrics

import (
	"github.com/san-kum/motion/internal/sim"
	"github.com/san-kum/motion/internal/spring"
)

// DefaultBand is the settle band, as a fraction of the travel.
const DefaultBand = 0.02

// ForScenario builds overshoot, settle time and peak speed metrics for every
// spring key of the scenario's initial target.
func ForScenario(sc sim.Scenario) []sim.Metric {
	start := spring.Strip(sc.Target)
	if sc.DefaultStyle != nil {
		start = sc.DefaultStyle
	}

	var out []sim.Metric
	for _, k := range sc.Target.Keys() {
		t := sc.Target[k]
		if !t.IsSpring() {
			continue
		}
		from, to := start[k], t.Value()
		band := DefaultBand * abs(to-from)
		if band == 0 {
			band = spring.DefaultPrecision
		}
		out = append(out,
			NewOvershoot(k, from, to),
			NewSettleTime(k, to, band),
			NewPeakSpeed(k),
		)
	}
	return out
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
