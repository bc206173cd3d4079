package frame

import (
	"sync"
	"time"
)

// Virtual is a scheduler whose clock only moves when told to.
type Virtual struct {
	*Queue
	mu  sync.Mutex
	now time.Duration
}

// NewVirtual creates a virtual scheduler starting at t=0.
func NewVirtual() *Virtual {
	v := &Virtual{}
	v.Queue = NewQueue(v.clock)
	return v
}

func (v *Virtual) clock() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// Set moves the clock to t without running callbacks.
func (v *Virtual) Set(t time.Duration) {
	v.mu.Lock()
	v.now = t
	v.mu.Unlock()
}

// Advance moves the clock by d and flushes pending callbacks at the new time.
func (v *Virtual) Advance(d time.Duration) int {
	v.mu.Lock()
	v.now += d
	ts := v.now
	v.mu.Unlock()
	return v.Flush(ts)
}

// Frame flushes pending callbacks at the current time.
func (v *Virtual) Frame() int {
	return v.Flush(v.clock())
}
