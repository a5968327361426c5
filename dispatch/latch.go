package dispatch

import (
	"context"
	"sync"
	"time"
)

// Latch is a resettable boolean condition that goroutines can wait on.
type Latch struct {
	mu    sync.Mutex
	set   bool
	ready chan struct{}
}

// NewLatch returns a cleared latch.
func NewLatch() *Latch {

	return &Latch{
		ready: make(chan struct{}),
	}
}

// Set marks the latch and releases every waiter. Setting a set latch is a no-op.
func (latch *Latch) Set() {

	latch.mu.Lock()
	defer latch.mu.Unlock()

	if !latch.set {
		latch.set = true
		close(latch.ready)
	}
}

// Clear resets the latch so a later Set can be waited for again.
func (latch *Latch) Clear() {

	latch.mu.Lock()
	defer latch.mu.Unlock()

	if latch.set {
		latch.set = false
		latch.ready = make(chan struct{})
	}
}

func (latch *Latch) IsSet() bool {

	latch.mu.Lock()
	defer latch.mu.Unlock()

	return latch.set
}

// Wait blocks until the latch is set, the timeout elapses or ctx ends, and
// reports whether the latch was set. A zero timeout only checks the state.
func (latch *Latch) Wait(ctx context.Context, timeout time.Duration) bool {

	latch.mu.Lock()
	set, ready := latch.set, latch.ready
	latch.mu.Unlock()

	if set || timeout <= 0 {
		return set
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ready:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

// done returns a channel that is closed once the latch is set. After a Clear
// the old channel stays closed; callers must fetch a fresh one.
func (latch *Latch) done() <-chan struct{} {

	latch.mu.Lock()
	defer latch.mu.Unlock()

	return latch.ready
}

// EventSet holds the notification latches of one session stream.
type EventSet struct {
	ResultReady        *Latch
	PartialResultReady *Latch

	// AudioComplete is never set by the dispatcher. Audio producers set it
	// once all audio has been pushed.
	AudioComplete *Latch
}

func newEventSet() *EventSet {

	return &EventSet{
		ResultReady:        NewLatch(),
		PartialResultReady: NewLatch(),
		AudioComplete:      NewLatch(),
	}
}
