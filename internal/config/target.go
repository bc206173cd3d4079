package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/motion/internal/spring"
)

// TargetSpec is one style value in yaml: a bare number for a plain target,
// or a mapping for a spring target.
//
//	x: 10
//	y: {val: 100, preset: wobbly}
//	z: {val: 1, stiffness: 300, damping: 30}
type TargetSpec struct {
	Spring    bool
	Val       float64
	Preset    string
	Stiffness float64
	Damping   float64
	Precision float64
}

type springSpec struct {
	Val       *float64 `yaml:"val"`
	Preset    string   `yaml:"preset,omitempty"`
	Stiffness float64  `yaml:"stiffness,omitempty"`
	Damping   float64  `yaml:"damping,omitempty"`
	Precision float64  `yaml:"precision,omitempty"`
}

func PlainValue(v float64) TargetSpec { return TargetSpec{Val: v} }

func SpringTo(v float64, preset string) TargetSpec {
	return TargetSpec{Spring: true, Val: v, Preset: preset}
}

func (t *TargetSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("line %d: target must be a number: %w", node.Line, err)
		}
		*t = TargetSpec{Val: v}
		return nil
	case yaml.MappingNode:
		var s springSpec
		if err := node.Decode(&s); err != nil {
			return err
		}
		if s.Val == nil {
			return fmt.Errorf("line %d: spring target needs val", node.Line)
		}
		*t = TargetSpec{
			Spring:    true,
			Val:       *s.Val,
			Preset:    s.Preset,
			Stiffness: s.Stiffness,
			Damping:   s.Damping,
			Precision: s.Precision,
		}
		return nil
	default:
		return fmt.Errorf("line %d: target must be a number or a mapping", node.Line)
	}
}

func (t TargetSpec) MarshalYAML() (interface{}, error) {
	if !t.Spring {
		return t.Val, nil
	}
	val := t.Val
	return springSpec{
		Val:       &val,
		Preset:    t.Preset,
		Stiffness: t.Stiffness,
		Damping:   t.Damping,
		Precision: t.Precision,
	}, nil
}

// Target resolves the spec. A preset supplies the base parameters and any
// explicit stiffness, damping or precision overrides it.
func (t TargetSpec) Target() (spring.Target, error) {
	if !t.Spring {
		return spring.Plain(t.Val), nil
	}
	cfg := spring.Default
	if t.Preset != "" {
		p, err := spring.Preset(t.Preset)
		if err != nil {
			return spring.Target{}, err
		}
		cfg = p
	}
	if t.Stiffness != 0 {
		cfg.Stiffness = t.Stiffness
	}
	if t.Damping != 0 {
		cfg.Damping = t.Damping
	}
	if t.Precision != 0 {
		cfg.Precision = t.Precision
	}
	if err := cfg.Validate(); err != nil {
		return spring.Target{}, err
	}
	return spring.To(t.Val, cfg), nil
}
