package dispatch

import (
	"context"
	"time"
)

func (dispatcher *Dispatcher) lookup(stream Stream) *streamState {

	if state := dispatcher.session.lookup(stream); state != nil {
		return state
	}

	return dispatcher.global.lookup(stream)
}

// Take removes the next message from the named queue of a stream. A zero
// timeout polls once. It returns (nil, false) when nothing arrived in time,
// when the stream is not registered, or when the stream has no such queue;
// callers cannot tell these cases apart and are not meant to.
func (dispatcher *Dispatcher) Take(ctx context.Context, stream Stream, name QueueName,
	timeout time.Duration) (response *Response, ok bool) {

	state := dispatcher.lookup(stream)
	if state == nil {
		return nil, false
	}

	queue := state.queues.Queue(name)
	if queue == nil {
		return nil, false
	}

	return queue.Take(ctx, timeout)
}

// TakeGeneralResponse returns the next session response that has no
// dedicated queue (interaction create, audio pull, session close, ...).
func (dispatcher *Dispatcher) TakeGeneralResponse(ctx context.Context, stream Stream,
	timeout time.Duration) (*Response, bool) {

	return dispatcher.Take(ctx, stream, QueueGeneral, timeout)
}

func (dispatcher *Dispatcher) TakeSessionEvent(ctx context.Context, stream Stream,
	timeout time.Duration) (*Response, bool) {

	return dispatcher.Take(ctx, stream, QueueSessionEvent, timeout)
}

func (dispatcher *Dispatcher) TakePartialResult(ctx context.Context, stream Stream,
	timeout time.Duration) (*Response, bool) {

	return dispatcher.Take(ctx, stream, QueuePartialResult, timeout)
}

func (dispatcher *Dispatcher) TakeFinalResult(ctx context.Context, stream Stream,
	timeout time.Duration) (*Response, bool) {

	return dispatcher.Take(ctx, stream, QueueFinalResult, timeout)
}

func (dispatcher *Dispatcher) TakeVadEvent(ctx context.Context, stream Stream,
	timeout time.Duration) (*Response, bool) {

	return dispatcher.Take(ctx, stream, QueueVadEvent, timeout)
}

func (dispatcher *Dispatcher) TakeGlobalEvent(ctx context.Context, stream Stream,
	timeout time.Duration) (*Response, bool) {

	return dispatcher.Take(ctx, stream, QueueGlobalEvent, timeout)
}

func (dispatcher *Dispatcher) TakeGlobalSettings(ctx context.Context, stream Stream,
	timeout time.Duration) (*Response, bool) {

	return dispatcher.Take(ctx, stream, QueueGlobalSettings, timeout)
}

// Events returns the notification latches of a registered stream, or nil.
func (dispatcher *Dispatcher) Events(stream Stream) *EventSet {

	state := dispatcher.lookup(stream)
	if state == nil {
		return nil
	}

	return state.events
}

// Registered reports whether the stream is currently registered.
func (dispatcher *Dispatcher) Registered(stream Stream) bool {

	return dispatcher.lookup(stream) != nil
}

// Terminated reports whether a registered stream has reached EOF or failed.
func (dispatcher *Dispatcher) Terminated(stream Stream) bool {

	state := dispatcher.lookup(stream)

	return state != nil && state.terminated.IsSet()
}

// SessionId returns the latest session ID received on a stream, or "".
func (dispatcher *Dispatcher) SessionId(stream Stream) string {

	state := dispatcher.lookup(stream)
	if state == nil {
		return ""
	}

	return state.currentSessionId()
}

// WaitSessionId waits for the first session ID to arrive on a stream.
func (dispatcher *Dispatcher) WaitSessionId(ctx context.Context, stream Stream,
	timeout time.Duration) (sessionId string, err error) {

	state := dispatcher.lookup(stream)
	if state == nil {
		return "", ErrStreamNotKnown
	}

	if sessionId = state.currentSessionId(); sessionId != "" {
		return sessionId, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-state.sessionIdReady.done():
		return state.currentSessionId(), nil
	case <-state.terminated.done():
		// the ID may have been classified just before the stream ended
		if sessionId = state.currentSessionId(); sessionId != "" {
			return sessionId, nil
		}
		return "", ErrStreamTerminated
	case <-timer.C:
		return "", ErrSessionIdTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
