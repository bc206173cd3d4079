package frame

import (
	"context"
	"time"
)

// DefaultInterval approximates a 60Hz display refresh.
const DefaultInterval = time.Second / 60

// Loop flushes a Queue on a real-time ticker. Frame callbacks and work posted
// with Do run on the goroutine that called Run, one at a time.
type Loop struct {
	*Queue
	interval time.Duration
	start    time.Time
	work     chan func()
}

// NewLoop creates a loop ticking every interval; non-positive means DefaultInterval.
func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	l := &Loop{
		interval: interval,
		start:    time.Now(),
		work:     make(chan func(), 64),
	}
	l.Queue = NewQueue(func() time.Duration { return time.Since(l.start) })
	return l
}

func (l *Loop) Interval() time.Duration { return l.interval }

// Do schedules fn on the loop goroutine. It blocks while the work buffer is
// full and returns false if ctx ends first.
func (l *Loop) Do(ctx context.Context, fn func()) bool {
	select {
	case l.work <- fn:
		return true
	case <-ctx.Done():
		return false
	}
}

// Run drives the loop until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.work:
			fn()
		case <-ticker.C:
			l.Flush(l.Now())
		}
	}
}
