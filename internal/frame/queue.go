// Package frame provides display-refresh style callback schedulers.
//
// A [Queue] holds pending callbacks and runs them on Flush. [Virtual] wraps a
// Queue with a manually advanced clock for deterministic tests and headless
// simulation. [Loop] flushes on a real-time ticker from a single goroutine.
package frame

import (
	"sync"
	"time"
)

// ID identifies a pending callback.
type ID uint64

// Callback receives the frame timestamp.
type Callback func(timestamp time.Duration)

type entry struct {
	id ID
	cb Callback
}

// Queue is a list of callbacks waiting for the next frame.
type Queue struct {
	mu       sync.Mutex
	next     ID
	pending  []entry
	inflight map[ID]struct{}
	now      func() time.Duration
}

// NewQueue creates a queue whose Now reports the given clock.
func NewQueue(now func() time.Duration) *Queue {
	return &Queue{now: now}
}

func (q *Queue) Now() time.Duration {
	return q.now()
}

// RequestFrame registers cb for the next Flush.
func (q *Queue) RequestFrame(cb Callback) ID {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	q.pending = append(q.pending, entry{id: q.next, cb: cb})
	return q.next
}

// CancelFrame removes a pending callback. Unknown ids are ignored.
func (q *Queue) CancelFrame(id ID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.inflight[id]; ok {
		delete(q.inflight, id)
		return
	}
	for i, e := range q.pending {
		if e.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// Flush runs every callback registered before the call with timestamp ts and
// returns how many ran. Callbacks registered while flushing wait for the next
// Flush. A callback cancelled by an earlier one in the same flush does not run.
func (q *Queue) Flush(ts time.Duration) int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.inflight = make(map[ID]struct{}, len(batch))
	for _, e := range batch {
		q.inflight[e.id] = struct{}{}
	}
	q.mu.Unlock()

	ran := 0
	for _, e := range batch {
		q.mu.Lock()
		_, live := q.inflight[e.id]
		delete(q.inflight, e.id)
		q.mu.Unlock()
		if !live {
			continue
		}
		e.cb(ts)
		ran++
	}

	q.mu.Lock()
	q.inflight = nil
	q.mu.Unlock()
	return ran
}

// Len returns the number of pending callbacks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
