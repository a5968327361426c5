package dispatch

import (
	"context"
	"sync"
	"time"
)

// Queue is an unbounded FIFO. Push never blocks; Take waits for at most the
// given timeout.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T

	// notify is closed and replaced on every Push, waking all waiters.
	notify chan struct{}
}

// NewQueue returns an empty queue.
func NewQueue[T any]() *Queue[T] {

	return &Queue[T]{
		notify: make(chan struct{}),
	}
}

// Push appends an item to the tail of the queue.
func (queue *Queue[T]) Push(item T) {

	queue.mu.Lock()
	queue.items = append(queue.items, item)
	close(queue.notify)
	queue.notify = make(chan struct{})
	queue.mu.Unlock()
}

// tryPop removes the head item if there is one. It also returns the channel
// to wait on when the queue is empty.
func (queue *Queue[T]) tryPop() (item T, ok bool, notify <-chan struct{}) {

	queue.mu.Lock()
	defer queue.mu.Unlock()

	if len(queue.items) == 0 {
		return item, false, queue.notify
	}

	item = queue.items[0]
	var zero T
	queue.items[0] = zero
	queue.items = queue.items[1:]

	return item, true, nil
}

// Take removes and returns the head item. A zero timeout polls once and never
// blocks. Otherwise Take waits until an item arrives, the timeout elapses or
// ctx ends; in the last two cases ok is false.
func (queue *Queue[T]) Take(ctx context.Context, timeout time.Duration) (item T, ok bool) {

	item, ok, notify := queue.tryPop()
	if ok || timeout <= 0 {
		return item, ok
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-notify:
		case <-timer.C:
			return item, false
		case <-ctx.Done():
			return item, false
		}

		// Another consumer may have won the race for the new item.
		item, ok, notify = queue.tryPop()
		if ok {
			return item, true
		}
	}
}

// Len returns the number of buffered items.
func (queue *Queue[T]) Len() int {

	queue.mu.Lock()
	defer queue.mu.Unlock()

	return len(queue.items)
}

// Drain discards every buffered item and returns how many were dropped.
func (queue *Queue[T]) Drain() int {

	queue.mu.Lock()
	defer queue.mu.Unlock()

	dropped := len(queue.items)
	queue.items = nil

	return dropped
}
