package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/motion/internal/motion"
	"github.com/san-kum/motion/internal/spring"
)

// Metric summarizes a run from the driver state at every committed frame.
type Metric interface {
	Name() string
	Observe(st motion.State, t float64)
	Value() float64
	Reset()
}

// Observer sees every exposed style, with t in seconds.
type Observer interface {
	OnFrame(style spring.PlainStyle, t float64)
}

// Event replaces the target at a point in simulated time.
type Event struct {
	At    time.Duration
	Style spring.Style
}

// Scenario is what to animate: a target, optional starting values and
// later retargets.
type Scenario struct {
	Name         string
	Target       spring.Style
	DefaultStyle spring.PlainStyle
	Events       []Event
}

type Config struct {
	// FrameInterval is the simulated host refresh period.
	FrameInterval time.Duration
	// Jitter spreads each interval uniformly by up to ±Jitter.
	Jitter     time.Duration
	Duration   time.Duration
	Seed       int64
	StopAtRest bool
}

func DefaultConfig() Config {
	return Config{
		FrameInterval: 16670 * time.Microsecond,
		Duration:      5 * time.Second,
		StopAtRest:    true,
	}
}

type Result struct {
	Keys       []string
	Times      []float64
	Frames     []spring.PlainStyle
	Velocities []spring.Velocity
	// Rests holds the time of every animating-to-rest transition.
	Rests []float64
	// HostFrames counts frame callbacks delivered by the simulated host.
	HostFrames int
	Metrics    map[string]float64
}

// Series returns the recorded values of one key.
func (r *Result) Series(key string) []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f[key]
	}
	return out
}

// Final returns the last recorded style, or nil for an empty result.
func (r *Result) Final() spring.PlainStyle {
	if len(r.Frames) == 0 {
		return nil
	}
	return r.Frames[len(r.Frames)-1]
}

type SimError struct {
	Time    float64
	Frame   int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %s", e.Frame, e.Time, e.Message)
}

func finite(s spring.PlainStyle) bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
