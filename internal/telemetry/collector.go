// Package telemetry exports driver events as Prometheus metrics.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/motion/internal/motion"
)

const defaultNamespace = "motion"

// Collector implements motion.Metrics. One collector may serve many drivers.
type Collector struct {
	frames    prometheus.Counter
	steps     prometheus.Counter
	stalls    prometheus.Counter
	rests     prometheus.Counter
	perFrame  prometheus.Histogram
	fractions prometheus.Histogram
}

var _ motion.Metrics = (*Collector)(nil)

// NewCollector registers the driver metrics on reg, or on
// prometheus.DefaultRegisterer when reg is nil. It returns an error if the
// metrics are already registered there.
func NewCollector(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = defaultNamespace
	}

	c := &Collector{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "driver",
			Name:      "frames_total",
			Help:      "Committed animation frames.",
		}),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "driver",
			Name:      "steps_total",
			Help:      "Whole integration steps taken across all frames.",
		}),
		stalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "driver",
			Name:      "stall_resets_total",
			Help:      "Frames whose accumulated time was discarded after a stall.",
		}),
		rests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "driver",
			Name:      "rests_total",
			Help:      "Animations that came to rest.",
		}),
		perFrame: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "driver",
			Name:      "steps_per_frame",
			Help:      "Whole integration steps per committed frame.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8},
		}),
		fractions: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "driver",
			Name:      "step_fraction",
			Help:      "Sub-step interpolation fraction per committed frame.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 9),
		}),
	}

	for _, col := range []prometheus.Collector{c.frames, c.steps, c.stalls, c.rests, c.perFrame, c.fractions} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) FrameCommitted(steps int, fraction float64) {
	c.frames.Inc()
	c.steps.Add(float64(steps))
	c.perFrame.Observe(float64(steps))
	c.fractions.Observe(fraction)
}

func (c *Collector) StallReset() { c.stalls.Inc() }

func (c *Collector) Rested() { c.rests.Inc() }

// Handler serves the metrics gathered by g; nil means the default gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
