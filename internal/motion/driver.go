package motion

import (
	"math"
	"time"

	"github.com/san-kum/motion/internal/frame"
	"github.com/san-kum/motion/internal/logging"
	"github.com/san-kum/motion/internal/spring"
)

const (
	// FixedTick is the wall-clock duration of one integration step.
	FixedTick = time.Second / 60

	// StallThreshold is the accumulated time past which a frame is treated
	// as a fresh start instead of a catch-up.
	StallThreshold = 10 * FixedTick
)

// Scheduler delivers frame callbacks and reports the current time on the
// same clock as the callback timestamps.
type Scheduler interface {
	Now() time.Duration
	RequestFrame(cb frame.Callback) frame.ID
	CancelFrame(id frame.ID)
}

// State is the animated state of a driver. Current* are exposed to observers
// and may include a sub-step interpolation; LastIdeal* are the values at the
// last whole integration step.
type State struct {
	CurrentStyle      spring.PlainStyle
	CurrentVelocity   spring.Velocity
	LastIdealStyle    spring.PlainStyle
	LastIdealVelocity spring.Velocity
}

func (s State) Clone() State {
	return State{
		CurrentStyle:      s.CurrentStyle.Clone(),
		CurrentVelocity:   s.CurrentVelocity.Clone(),
		LastIdealStyle:    s.LastIdealStyle.Clone(),
		LastIdealVelocity: s.LastIdealVelocity.Clone(),
	}
}

func newState(keys int) State {
	return State{
		CurrentStyle:      make(spring.PlainStyle, keys),
		CurrentVelocity:   make(spring.Velocity, keys),
		LastIdealStyle:    make(spring.PlainStyle, keys),
		LastIdealVelocity: make(spring.Velocity, keys),
	}
}

// Driver animates one style. See the package documentation for the frame
// algorithm and threading rules.
type Driver struct {
	sched   Scheduler
	log     logging.Logger
	metrics Metrics

	target spring.Style
	// unread is the last target no frame has consumed yet.
	unread spring.Style
	state  State

	prevTime     time.Duration
	accumulated  time.Duration
	wasAnimating bool

	scheduled bool
	frameID   frame.ID
	destroyed bool

	onFrame []func(spring.PlainStyle)
	onRest  []func()
}

// New creates a driver toward target and starts animating if the initial
// state has not already converged.
func New(s Scheduler, target spring.Style, opts ...Option) (*Driver, error) {
	if s == nil {
		return nil, ErrNilScheduler
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	current := spring.Strip(target)
	if o.defaultStyle != nil {
		if err := checkKeys(target, o.defaultStyle); err != nil {
			return nil, err
		}
		for _, k := range o.defaultStyle.Keys() {
			if v := o.defaultStyle[k]; math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &spring.TargetError{Key: k, Reason: "default value must be finite"}
			}
		}
		current = o.defaultStyle.Clone()
	}
	velocity := spring.Zero(current)

	d := &Driver{
		sched:   s,
		log:     o.logger,
		metrics: o.metrics,
		target:  target.Clone(),
		state: State{
			CurrentStyle:      current,
			CurrentVelocity:   velocity,
			LastIdealStyle:    current.Clone(),
			LastIdealVelocity: velocity.Clone(),
		},
	}
	if o.onFrame != nil {
		d.onFrame = append(d.onFrame, o.onFrame)
	}
	if o.onRest != nil {
		d.onRest = append(d.onRest, o.onRest)
	}

	d.state, _ = reconcile(d.target, d.state)
	d.prevTime = s.Now()
	d.start()
	return d, nil
}

// SetTarget replaces the target. The style must have exactly the driver's
// keys; on any error nothing changes. Plain keys take effect before SetTarget
// returns, and observers see them immediately if they changed anything.
func (d *Driver) SetTarget(target spring.Style) error {
	if d.destroyed {
		return ErrDestroyed
	}
	if err := target.Validate(); err != nil {
		return err
	}
	if err := checkKeys(d.target, target); err != nil {
		return err
	}
	target = target.Clone()

	changed := false
	if d.unread != nil {
		// previous target never reached a frame
		d.state, changed = reconcile(d.unread, d.state)
	}
	d.unread = target
	d.target = target

	var c bool
	d.state, c = reconcile(target, d.state)
	changed = changed || c
	if changed {
		d.emitFrame()
	}

	if !d.scheduled && !d.destroyed {
		d.prevTime = d.sched.Now()
		d.start()
	}
	return nil
}

// OnFrame registers fn to receive the complete exposed style after every
// committed frame and every synchronous plain-value change.
func (d *Driver) OnFrame(fn func(spring.PlainStyle)) {
	if fn != nil && !d.destroyed {
		d.onFrame = append(d.onFrame, fn)
	}
}

// OnRest registers fn to run once each time an animation comes to rest.
func (d *Driver) OnRest(fn func()) {
	if fn != nil && !d.destroyed {
		d.onRest = append(d.onRest, fn)
	}
}

// Destroy cancels any pending frame. No observer runs afterwards. Calling it
// again is a no-op.
func (d *Driver) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	if d.scheduled {
		d.sched.CancelFrame(d.frameID)
		d.scheduled = false
	}
	d.onFrame = nil
	d.onRest = nil
	d.log.Debug("driver destroyed")
}

// State returns a copy of the animated state.
func (d *Driver) State() State { return d.state.Clone() }

// Style returns a copy of the exposed style.
func (d *Driver) Style() spring.PlainStyle { return d.state.CurrentStyle.Clone() }

// Target returns a copy of the current target.
func (d *Driver) Target() spring.Style { return d.target.Clone() }

// Keys returns the driver's keys in sorted order.
func (d *Driver) Keys() []string { return d.target.Keys() }

// Scheduled reports whether a frame callback is pending.
func (d *Driver) Scheduled() bool { return d.scheduled }

// Animating reports whether the driver has moved since it last came to rest.
func (d *Driver) Animating() bool { return d.wasAnimating }

func (d *Driver) Destroyed() bool { return d.destroyed }

func (d *Driver) start() {
	if d.destroyed || d.scheduled {
		return
	}
	if spring.ShouldStop(d.state.CurrentStyle, d.target, d.state.CurrentVelocity) {
		return
	}
	d.log.Debug("animation scheduled", "keys", len(d.target))
	d.schedule()
}

func (d *Driver) schedule() {
	if d.destroyed || d.scheduled {
		return
	}
	d.scheduled = true
	d.frameID = d.sched.RequestFrame(d.tick)
}

func (d *Driver) tick(ts time.Duration) {
	if d.destroyed {
		return
	}
	d.scheduled = false

	delta := ts - d.prevTime
	if delta < 0 {
		delta = 0
	}
	d.prevTime = ts
	d.accumulated += delta
	if d.accumulated > StallThreshold {
		d.log.Debug("frame stall, restarting accumulation", "elapsed", d.accumulated)
		d.metrics.StallReset()
		d.accumulated = 0
	}

	if spring.ShouldStop(d.state.CurrentStyle, d.target, d.state.CurrentVelocity) {
		wasAnimating := d.wasAnimating
		d.wasAnimating = false
		d.accumulated = 0
		if settled, ok := settle(d.target, d.state); ok {
			d.state = settled
			d.emitFrame()
		}
		if wasAnimating {
			d.log.Debug("animation at rest")
			d.metrics.Rested()
			for _, fn := range d.onRest {
				if d.destroyed {
					return
				}
				fn()
			}
		}
		return
	}

	d.wasAnimating = true

	if d.accumulated == 0 {
		d.schedule()
		return
	}

	steps := int(d.accumulated / FixedTick)
	fraction := float64(d.accumulated%FixedTick) / float64(FixedTick)

	next := newState(len(d.target))
	for k, t := range d.target {
		cfg, ok := t.Config()
		if !ok {
			next.CurrentStyle[k] = t.Value()
			next.CurrentVelocity[k] = 0
			next.LastIdealStyle[k] = t.Value()
			next.LastIdealVelocity[k] = 0
			continue
		}

		x := d.state.LastIdealStyle[k]
		v := d.state.LastIdealVelocity[k]
		for i := 0; i < steps; i++ {
			x, v = spring.StepConfig(spring.StepSeconds, x, v, t.Value(), cfg)
		}
		nextX, nextV := spring.StepConfig(spring.StepSeconds, x, v, t.Value(), cfg)

		next.CurrentStyle[k] = x + (nextX-x)*fraction
		next.CurrentVelocity[k] = v + (nextV-v)*fraction
		next.LastIdealStyle[k] = x
		next.LastIdealVelocity[k] = v
	}

	d.accumulated -= time.Duration(steps) * FixedTick
	d.state = next
	d.unread = nil
	d.metrics.FrameCommitted(steps, fraction)

	d.emitFrame()
	d.schedule()
}

func (d *Driver) emitFrame() {
	for _, fn := range d.onFrame {
		if d.destroyed {
			return
		}
		fn(d.state.CurrentStyle.Clone())
	}
}

