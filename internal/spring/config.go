package spring

import (
	"fmt"
	"math"
	"sort"
)

// DefaultPrecision is the convergence tolerance used by the presets.
const DefaultPrecision = 0.01

// Config parameterizes a damped harmonic oscillator of unit mass.
type Config struct {
	Stiffness float64 `json:"stiffness" yaml:"stiffness"`
	Damping   float64 `json:"damping" yaml:"damping"`
	Precision float64 `json:"precision" yaml:"precision"`
}

var (
	NoWobble = Config{Stiffness: 170, Damping: 26, Precision: DefaultPrecision}
	Gentle   = Config{Stiffness: 120, Damping: 14, Precision: DefaultPrecision}
	Wobbly   = Config{Stiffness: 180, Damping: 12, Precision: DefaultPrecision}
	Stiff    = Config{Stiffness: 210, Damping: 20, Precision: DefaultPrecision}

	// Default is used by To when no config is given.
	Default = NoWobble
)

var presets = map[string]Config{
	"noWobble": NoWobble,
	"gentle":   Gentle,
	"wobbly":   Wobbly,
	"stiff":    Stiff,
}

// Preset returns the named preset config.
func Preset(name string) (Config, error) {
	cfg, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("unknown spring preset: %s (available: %v)", name, PresetNames())
	}
	return cfg, nil
}

// PresetNames lists preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate reports whether every parameter is finite and positive.
func (c Config) Validate() error {
	check := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be finite, got %v", name, v)
		}
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, v)
		}
		return nil
	}
	if err := check("stiffness", c.Stiffness); err != nil {
		return err
	}
	if err := check("damping", c.Damping); err != nil {
		return err
	}
	return check("precision", c.Precision)
}
