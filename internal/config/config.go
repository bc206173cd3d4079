package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/motion/internal/sim"
	"github.com/san-kum/motion/internal/spring"
)

const (
	DefaultFrameIntervalMs = 16.67
	DefaultDuration        = 5.0
)

// Scenario is the yaml form of a simulated animation. Times are in seconds
// except the frame timing fields, which are in milliseconds.
type Scenario struct {
	Name            string                `yaml:"name"`
	FrameIntervalMs float64               `yaml:"frame_interval_ms"`
	JitterMs        float64               `yaml:"jitter_ms,omitempty"`
	Duration        float64               `yaml:"duration"`
	Seed            int64                 `yaml:"seed,omitempty"`
	StopAtRest      bool                  `yaml:"stop_at_rest"`
	DefaultStyle    map[string]float64    `yaml:"default_style,omitempty"`
	Style           map[string]TargetSpec `yaml:"style"`
	Events          []EventSpec           `yaml:"events,omitempty"`
}

type EventSpec struct {
	At    float64               `yaml:"at"`
	Style map[string]TargetSpec `yaml:"style"`
}

func DefaultScenario() *Scenario {
	return &Scenario{
		Name:            "slide",
		FrameIntervalMs: DefaultFrameIntervalMs,
		Duration:        DefaultDuration,
		StopAtRest:      true,
		DefaultStyle:    map[string]float64{"x": 0},
		Style:           map[string]TargetSpec{"x": SpringTo(100, "noWobble")},
	}
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc := DefaultScenario()
	sc.DefaultStyle = nil
	sc.Style = nil
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return sc, nil
}

func Save(path string, sc *Scenario) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ToStyle resolves yaml targets into a driver style.
func ToStyle(specs map[string]TargetSpec) (spring.Style, error) {
	out := make(spring.Style, len(specs))
	keys := make([]string, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t, err := specs[k].Target()
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out[k] = t
	}
	return out, nil
}

// Build converts the scenario into simulator input.
func (s *Scenario) Build() (sim.Scenario, sim.Config, error) {
	if len(s.Style) == 0 {
		return sim.Scenario{}, sim.Config{}, fmt.Errorf("scenario %q has no style", s.Name)
	}
	target, err := ToStyle(s.Style)
	if err != nil {
		return sim.Scenario{}, sim.Config{}, err
	}

	sc := sim.Scenario{Name: s.Name, Target: target}
	if s.DefaultStyle != nil {
		sc.DefaultStyle = spring.PlainStyle(s.DefaultStyle).Clone()
	}
	for i, ev := range s.Events {
		style, err := ToStyle(ev.Style)
		if err != nil {
			return sim.Scenario{}, sim.Config{}, fmt.Errorf("event %d: %w", i, err)
		}
		sc.Events = append(sc.Events, sim.Event{At: seconds(ev.At), Style: style})
	}

	cfg := sim.Config{
		FrameInterval: millis(s.FrameIntervalMs),
		Jitter:        millis(s.JitterMs),
		Duration:      seconds(s.Duration),
		Seed:          s.Seed,
		StopAtRest:    s.StopAtRest,
	}
	return sc, cfg, nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func millis(v float64) time.Duration {
	return time.Duration(v * float64(time.Millisecond))
}
