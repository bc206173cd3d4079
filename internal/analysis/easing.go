package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/fogleman/ease"
)

// EaseFunc maps normalised time in [0, 1] to normalised progress.
type EaseFunc func(t float64) float64

var easings = map[string]EaseFunc{
	"linear":     ease.Linear,
	"inQuad":     ease.InQuad,
	"outQuad":    ease.OutQuad,
	"inOutQuad":  ease.InOutQuad,
	"outCubic":   ease.OutCubic,
	"inOutCubic": ease.InOutCubic,
	"outSine":    ease.OutSine,
	"inOutSine":  ease.InOutSine,
	"outBack":    ease.OutBack,
	"outElastic": ease.OutElastic,
	"outBounce":  ease.OutBounce,
}

var (
	ErrTooFewSamples = errors.New("analysis: need at least two samples")
	ErrNoTravel      = errors.New("analysis: from and to are equal")
)

// Ease returns the named easing function.
func Ease(name string) (EaseFunc, error) {
	fn, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing: %s (available: %v)", name, EaseNames())
	}
	return fn, nil
}

func EaseNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Comparison holds deviations as fractions of the travel from..to.
type Comparison struct {
	Name         string
	RMS          float64
	MaxDeviation float64
	// MaxAt is the normalised time of the largest deviation.
	MaxAt float64
}

func CompareEasing(times, values []float64, from, to float64, fn EaseFunc) (Comparison, error) {
	if len(times) < 2 || len(values) != len(times) {
		return Comparison{}, ErrTooFewSamples
	}
	span := to - from
	if span == 0 {
		return Comparison{}, ErrNoTravel
	}
	t0 := times[0]
	total := times[len(times)-1] - t0
	if total <= 0 {
		return Comparison{}, ErrTooFewSamples
	}

	var c Comparison
	sumSq := 0.0
	for i, t := range times {
		u := (t - t0) / total
		progress := (values[i] - from) / span
		dev := math.Abs(progress - fn(u))
		sumSq += dev * dev
		if dev > c.MaxDeviation {
			c.MaxDeviation = dev
			c.MaxAt = u
		}
	}
	c.RMS = math.Sqrt(sumSq / float64(len(times)))
	return c, nil
}

// BestFit compares against every named easing, best first.
func BestFit(times, values []float64, from, to float64) ([]Comparison, error) {
	out := make([]Comparison, 0, len(easings))
	for _, name := range EaseNames() {
		c, err := CompareEasing(times, values, from, to, easings[name])
		if err != nil {
			return nil, err
		}
		c.Name = name
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RMS < out[j].RMS })
	return out, nil
}
