package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/san-kum/motion/internal/frame"
	"github.com/san-kum/motion/internal/logging"
	"github.com/san-kum/motion/internal/motion"
	"github.com/san-kum/motion/internal/spring"
)

// Simulator runs a motion.Driver against a virtual display clock.
type Simulator struct {
	metrics   []Metric
	observers []Observer
	logger    logging.Logger
	telemetry motion.Metrics
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    logging.Nop(),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l logging.Logger) {
	if l != nil {
		s.logger = l
	}
}

// SetTelemetry forwards driver events of every run to m.
func (s *Simulator) SetTelemetry(m motion.Metrics) { s.telemetry = m }

// Run animates sc until cfg.Duration elapses, or until the driver is at rest
// with no events left when cfg.StopAtRest is set.
func (s *Simulator) Run(ctx context.Context, sc Scenario, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	events := make([]Event, len(sc.Events))
	copy(events, sc.Events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })

	for _, m := range s.metrics {
		m.Reset()
	}

	sched := frame.NewVirtual()
	rng := rand.New(rand.NewSource(cfg.Seed))
	result := &Result{
		Keys:    sc.Target.Keys(),
		Metrics: make(map[string]float64),
	}

	var d *motion.Driver
	var invalid error
	record := func(style spring.PlainStyle) {
		t := sched.Now().Seconds()
		st := d.State()
		if invalid == nil && !finite(style) {
			invalid = SimError{Time: t, Frame: len(result.Frames), Message: "non-finite style (spring unstable at this step size)"}
		}
		result.Times = append(result.Times, t)
		result.Frames = append(result.Frames, style)
		result.Velocities = append(result.Velocities, st.CurrentVelocity)
		for _, m := range s.metrics {
			m.Observe(st, t)
		}
		for _, o := range s.observers {
			o.OnFrame(style, t)
		}
	}

	opts := []motion.Option{
		motion.WithLogger(s.logger),
		motion.WithMetrics(s.telemetry),
		motion.WithOnFrame(record),
		motion.WithOnRest(func() { result.Rests = append(result.Rests, sched.Now().Seconds()) }),
	}
	if sc.DefaultStyle != nil {
		opts = append(opts, motion.WithDefaultStyle(sc.DefaultStyle))
	}

	d, err := motion.New(sched, sc.Target, opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	defer d.Destroy()

	record(d.Style())

	now := time.Duration(0)
	for now < cfg.Duration {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if cfg.StopAtRest && len(events) == 0 && !d.Scheduled() {
			break
		}

		next := now + s.interval(cfg, rng)
		for len(events) > 0 && events[0].At <= next {
			ev := events[0]
			events = events[1:]
			if ev.At > now {
				sched.Set(ev.At)
			}
			if err := d.SetTarget(ev.Style); err != nil {
				return result, fmt.Errorf("event at %v: %w", ev.At, err)
			}
		}

		sched.Set(next)
		result.HostFrames += sched.Frame()
		now = next

		if invalid != nil {
			return result, invalid
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) interval(cfg Config, rng *rand.Rand) time.Duration {
	if cfg.Jitter <= 0 {
		return cfg.FrameInterval
	}
	offset := time.Duration(rng.Int63n(int64(2*cfg.Jitter)+1)) - cfg.Jitter
	if d := cfg.FrameInterval + offset; d > 0 {
		return d
	}
	return time.Microsecond
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.FrameInterval <= 0 {
		return fmt.Errorf("frame interval must be positive, got %v", cfg.FrameInterval)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", cfg.Duration)
	}
	if cfg.Jitter < 0 {
		return fmt.Errorf("jitter must not be negative, got %v", cfg.Jitter)
	}
	return nil
}
