package spring

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestTargetVariant(t *testing.T) {
	p := Plain(3)
	if p.IsSpring() {
		t.Error("plain target reported as spring")
	}
	if _, ok := p.Config(); ok {
		t.Error("plain target returned a config")
	}

	s := To(5)
	cfg, ok := s.Config()
	if !ok || !s.IsSpring() {
		t.Fatal("spring target not reported as spring")
	}
	if cfg != Default {
		t.Errorf("expected default config, got %+v", cfg)
	}

	w := To(5, Wobbly)
	if cfg, _ := w.Config(); cfg != Wobbly {
		t.Errorf("expected wobbly config, got %+v", cfg)
	}

	var zero Target
	if zero.IsSpring() || zero.Value() != 0 {
		t.Error("zero target is not Plain(0)")
	}
}

func TestStyleValidate(t *testing.T) {
	tests := []struct {
		name  string
		style Style
		key   string
	}{
		{"valid", Style{"x": Plain(1), "y": To(2)}, ""},
		{"nan plain", Style{"x": Plain(math.NaN())}, "x"},
		{"inf spring", Style{"x": To(math.Inf(1))}, "x"},
		{"zero stiffness", Style{"a": To(1, Config{Damping: 1, Precision: 1})}, "a"},
		{"negative damping", Style{"a": To(1, Config{Stiffness: 1, Damping: -1, Precision: 1})}, "a"},
		{"zero precision", Style{"a": To(1, Config{Stiffness: 1, Damping: 1})}, "a"},
		{"first in key order", Style{"b": Plain(math.NaN()), "a": Plain(math.NaN())}, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.style.Validate()
			if tt.key == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidTarget) {
				t.Fatalf("expected ErrInvalidTarget, got %v", err)
			}
			var te *TargetError
			if !errors.As(err, &te) || te.Key != tt.key {
				t.Errorf("expected key %q, got %v", tt.key, err)
			}
		})
	}
}

func TestStripAndZero(t *testing.T) {
	style := Style{"x": Plain(1), "y": To(2, Gentle)}
	plain := Strip(style)
	if !reflect.DeepEqual(plain, PlainStyle{"x": 1, "y": 2}) {
		t.Errorf("Strip() = %v", plain)
	}

	vel := Zero(plain)
	if !reflect.DeepEqual(vel, Velocity{"x": 0, "y": 0}) {
		t.Errorf("Zero() = %v", vel)
	}
}

func TestDiffKeys(t *testing.T) {
	missing, extra := DiffKeys(Style{"a": Plain(0), "b": Plain(0)}, PlainStyle{"b": 0, "c": 0})
	if !reflect.DeepEqual(missing, []string{"a"}) {
		t.Errorf("missing = %v", missing)
	}
	if !reflect.DeepEqual(extra, []string{"c"}) {
		t.Errorf("extra = %v", extra)
	}
}

func TestPreset(t *testing.T) {
	cfg, err := Preset("stiff")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Stiff {
		t.Errorf("expected stiff, got %+v", cfg)
	}
	if _, err := Preset("bouncy"); err == nil {
		t.Error("expected error for unknown preset")
	}
	for _, name := range PresetNames() {
		cfg, _ := Preset(name)
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
