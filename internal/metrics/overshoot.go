package metrics

import (
	"math"

	"github.com/san-kum/motion/internal/motion"
)

// Overshoot is the largest excursion of key past its target, as a fraction of
// the travel from..to. A move that never passes the target scores 0.
type Overshoot struct {
	name     string
	key      string
	from, to float64
	peak     float64
}

func NewOvershoot(key string, from, to float64) *Overshoot {
	return &Overshoot{
		name: "overshoot_" + key,
		key:  key,
		from: from,
		to:   to,
	}
}

func (o *Overshoot) Name() string {
	return o.name
}

func (o *Overshoot) Observe(st motion.State, t float64) {
	span := o.to - o.from
	if span == 0 {
		return
	}
	progress := (st.CurrentStyle[o.key] - o.from) / span
	if past := progress - 1; past > o.peak {
		o.peak = past
	}
}

func (o *Overshoot) Value() float64 {
	return o.peak
}

func (o *Overshoot) Reset() {
	o.peak = 0
}

// PeakSpeed is the largest absolute velocity seen on key.
type PeakSpeed struct {
	name string
	key  string
	max  float64
}

func NewPeakSpeed(key string) *PeakSpeed {
	return &PeakSpeed{name: "peak_speed_" + key, key: key}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(st motion.State, t float64) {
	if v := math.Abs(st.CurrentVelocity[p.key]); v > p.max {
		p.max = v
	}
}

func (p *PeakSpeed) Value() float64 { return p.max }

func (p *PeakSpeed) Reset() { p.max = 0 }
