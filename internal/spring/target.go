package spring

import (
	"fmt"
	"math"
	"sort"
)

type targetKind uint8

const (
	kindPlain targetKind = iota
	kindSpring
)

// Target is the destination of one animated key. A plain target snaps
// immediately; a spring target is approached under its Config.
// The zero value is Plain(0).
type Target struct {
	kind targetKind
	val  float64
	cfg  Config
}

// Plain returns a target that is applied without animation.
func Plain(v float64) Target {
	return Target{kind: kindPlain, val: v}
}

// To returns a spring target toward v. Without cfg the Default config is used.
func To(v float64, cfg ...Config) Target {
	c := Default
	if len(cfg) > 0 {
		c = cfg[0]
	}
	return Target{kind: kindSpring, val: v, cfg: c}
}

func (t Target) IsSpring() bool { return t.kind == kindSpring }
func (t Target) Value() float64 { return t.val }

// Config returns the spring parameters; ok is false for plain targets.
func (t Target) Config() (cfg Config, ok bool) {
	return t.cfg, t.kind == kindSpring
}

func (t Target) String() string {
	if t.IsSpring() {
		return fmt.Sprintf("spring(%g, k=%g c=%g p=%g)", t.val, t.cfg.Stiffness, t.cfg.Damping, t.cfg.Precision)
	}
	return fmt.Sprintf("%g", t.val)
}

func (t Target) validate() error {
	if math.IsNaN(t.val) || math.IsInf(t.val, 0) {
		return fmt.Errorf("value must be finite, got %v", t.val)
	}
	if t.IsSpring() {
		return t.cfg.Validate()
	}
	return nil
}

// PlainStyle maps keys to numeric values.
type PlainStyle map[string]float64

// Velocity maps keys to rates of change.
type Velocity = PlainStyle

// Style maps keys to their destinations.
type Style map[string]Target

func (s PlainStyle) Clone() PlainStyle {
	c := make(PlainStyle, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

func (s PlainStyle) Keys() []string { return sortedKeys(s) }

func (s Style) Clone() Style {
	c := make(Style, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

func (s Style) Keys() []string { return sortedKeys(s) }

// Validate checks every target and returns the first failure as a
// *TargetError, in key order.
func (s Style) Validate() error {
	for _, k := range s.Keys() {
		if err := s[k].validate(); err != nil {
			return &TargetError{Key: k, Reason: err.Error()}
		}
	}
	return nil
}

// Strip reduces a style to its destination values.
func Strip(s Style) PlainStyle {
	out := make(PlainStyle, len(s))
	for k, t := range s {
		out[k] = t.val
	}
	return out
}

// Zero returns a velocity of zero for every key of s.
func Zero(s PlainStyle) Velocity {
	out := make(Velocity, len(s))
	for k := range s {
		out[k] = 0
	}
	return out
}

// DiffKeys returns keys of want missing from have, and keys of have absent
// from want. Both are sorted.
func DiffKeys[A, B any](want map[string]A, have map[string]B) (missing, extra []string) {
	for k := range want {
		if _, ok := have[k]; !ok {
			missing = append(missing, k)
		}
	}
	for k := range have {
		if _, ok := want[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return missing, extra
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
