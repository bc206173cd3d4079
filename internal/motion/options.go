package motion

import (
	"github.com/san-kum/motion/internal/logging"
	"github.com/san-kum/motion/internal/spring"
)

// Metrics receives driver events. Implementations must be cheap; they run
// inside frame callbacks.
type Metrics interface {
	FrameCommitted(steps int, fraction float64)
	StallReset()
	Rested()
}

type nopMetrics struct{}

func (nopMetrics) FrameCommitted(int, float64) {}
func (nopMetrics) StallReset()                 {}
func (nopMetrics) Rested()                     {}

// Option configures a Driver.
type Option func(*options)

type options struct {
	defaultStyle spring.PlainStyle
	logger       logging.Logger
	metrics      Metrics
	onFrame      func(spring.PlainStyle)
	onRest       func()
}

func defaultOptions() options {
	return options{
		logger:  logging.Nop(),
		metrics: nopMetrics{},
	}
}

// WithDefaultStyle sets the starting values instead of the stripped target.
// Its keys must equal the target's keys.
func WithDefaultStyle(s spring.PlainStyle) Option {
	return func(o *options) { o.defaultStyle = s }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithOnFrame registers fn as a frame observer; see Driver.OnFrame.
func WithOnFrame(fn func(spring.PlainStyle)) Option {
	return func(o *options) { o.onFrame = fn }
}

// WithOnRest registers fn as a rest observer; see Driver.OnRest.
func WithOnRest(fn func()) Option {
	return func(o *options) { o.onRest = fn }
}
