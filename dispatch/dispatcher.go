package dispatch

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Dispatcher reads every registered stream and routes each inbound message
// into that stream's queues. Streams are split into two categories, each
// served by its own dispatch loop while Run is active.
//
// A Dispatcher owns all of its state; independent dispatchers share nothing.
type Dispatcher struct {
	session *streamGroup
	global  *streamGroup

	running atomic.Bool

	// readers holds the streams that currently have a reader goroutine. A
	// reader outlives registrations and runs, so a stream is never read by
	// two goroutines at once.
	readersLock sync.Mutex
	readers     map[Stream]struct{}
}

// NewDispatcher returns an idle dispatcher. Streams can only be registered
// from inside Run.
func NewDispatcher() *Dispatcher {

	return &Dispatcher{
		session: newStreamGroup(CategorySession),
		global:  newStreamGroup(CategoryGlobal),
		readers: make(map[Stream]struct{}),
	}
}

func (dispatcher *Dispatcher) group(category Category) *streamGroup {

	if category == CategoryGlobal {
		return dispatcher.global
	}

	return dispatcher.session
}

// RegisterSessionStream makes a session stream visible to the session
// dispatch loop and allocates its queues and events. Registering the same
// stream again keeps everything already buffered for it.
func (dispatcher *Dispatcher) RegisterSessionStream(stream Stream) error {

	return dispatcher.register(CategorySession, stream)
}

// RegisterGlobalStream is RegisterSessionStream for global streams.
func (dispatcher *Dispatcher) RegisterGlobalStream(stream Stream) error {

	return dispatcher.register(CategoryGlobal, stream)
}

func (dispatcher *Dispatcher) register(category Category, stream Stream) error {

	other := dispatcher.group(otherCategory(category))
	if other.lookup(stream) != nil {
		return ErrCategoryMismatch
	}

	_, created, err := dispatcher.group(category).register(stream)
	if err != nil {
		return err
	}

	if created && enableVerboseLogging {
		getLogger().Debug("registered stream",
			"category", category.String())
	}

	return nil
}

// Unregister removes a stream from whichever category holds it and drops
// anything still buffered for it. The transport is left open; closing it is
// the caller's job.
func (dispatcher *Dispatcher) Unregister(stream Stream) {

	for _, group := range []*streamGroup{dispatcher.session, dispatcher.global} {
		if state := group.unregister(stream); state != nil {
			dropped := state.detach()
			recordDrained(group.category, dropped)
		}
	}
}

// UnregisterAll removes every stream of both categories.
func (dispatcher *Dispatcher) UnregisterAll() {

	for _, group := range []*streamGroup{dispatcher.session, dispatcher.global} {
		dropped := 0
		for _, state := range group.removeAll(false) {
			dropped += state.detach()
		}
		recordDrained(group.category, dropped)
	}
}

// RequestCancellation asks both dispatch loops to stop. Each loop honors the
// request the next time it checks its flag; a reader blocked inside Recv is
// not interrupted.
func (dispatcher *Dispatcher) RequestCancellation() {

	for _, group := range []*streamGroup{dispatcher.session, dispatcher.global} {
		group.cancelled.Store(true)
		group.signal()
	}
}

func otherCategory(category Category) Category {

	if category == CategoryGlobal {
		return CategorySession
	}

	return CategoryGlobal
}

// dispatchLoop is the single consumer of a category's inbound messages. It
// returns nil when cancelled, ctx.Err() when ctx ends and a *ProtocolFault
// when the API reports an error event.
func (dispatcher *Dispatcher) dispatchLoop(ctx context.Context, group *streamGroup) error {

	logger := getLogger().With("category", group.category.String())

	for {
		if group.cancelled.Load() {
			logger.Debug("dispatch loop cancelled")
			return nil
		}

		for _, state := range group.snapshot() {
			if state.terminated.IsSet() {
				continue
			}
			dispatcher.ensureReader(state.stream)
		}

		select {
		case message := <-group.inbound:
			if group.cancelled.Load() {
				logger.Debug("dispatch loop cancelled")
				return nil
			}
			state := group.lookup(message.stream)
			if state == nil {
				// stream was unregistered after the read
				continue
			}
			if err := dispatcher.classify(ctx, group.category, state, message.response); err != nil {
				logger.Error("dispatch loop stopped",
					"error", err)
				return err
			}

		case <-group.wake:

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ensureReader starts the reader of stream unless one is already running.
func (dispatcher *Dispatcher) ensureReader(stream Stream) {

	dispatcher.readersLock.Lock()
	defer dispatcher.readersLock.Unlock()

	if _, running := dispatcher.readers[stream]; running {
		return
	}

	dispatcher.readers[stream] = struct{}{}
	go dispatcher.readStream(stream)
}

func (dispatcher *Dispatcher) readerExited(stream Stream) {

	dispatcher.readersLock.Lock()
	delete(dispatcher.readers, stream)
	dispatcher.readersLock.Unlock()
}

// readStream is the only caller of Recv for its stream. Messages are handed
// to the loop in read order. The reader ends when Recv fails; a stream that
// is registered again after that gets a new reader.
func (dispatcher *Dispatcher) readStream(stream Stream) {

	defer dispatcher.readerExited(stream)

	for {
		response, err := stream.Recv()
		if err != nil {
			logger := getLogger()
			if state := dispatcher.lookup(stream); state != nil {
				logger = logger.With("category", state.category.String())
				state.terminated.Set()
				dispatcher.group(state.category).signal()
			}
			if errors.Is(err, io.EOF) {
				logger.Debug("stream ended")
			} else {
				logger.Warn("stream read failed",
					"error", err)
			}
			return
		}

		if response == nil {
			continue
		}

		dispatcher.deliver(stream, response)
	}
}

// deliver hands one message to the dispatch loop of the stream's current
// registration. When the registration goes away while the reader waits, the
// stream is looked up again. A message read while the stream is not
// registered is dropped.
func (dispatcher *Dispatcher) deliver(stream Stream, response *Response) {

	for {
		state := dispatcher.lookup(stream)
		if state == nil {
			if enableVerboseLogging {
				getLogger().Debug("dropping message of unregistered stream",
					"kind", response.Kind.String())
			}
			return
		}

		select {
		case dispatcher.group(state.category).inbound <- inboundMessage{stream: stream, response: response}:
			return
		case <-state.detached:
		}
	}
}

// classify routes one message. Routing is exclusive: a message lands in at
// most one queue, and an error event lands in none.
func (dispatcher *Dispatcher) classify(ctx context.Context, category Category, state *streamState,
	response *Response) error {

	if enableVerboseLogging {
		getLogger().Debug("received response",
			"category", category.String(),
			"kind", response.Kind.String(),
			"sessionId", response.SessionId)
	}

	var target QueueName
	var latch *Latch

	switch category {
	case CategorySession:
		if response.SessionId != "" {
			if first := state.recordSessionId(response.SessionId); first && enableVerboseLogging {
				getLogger().Debug("received session ID",
					"sessionId", response.SessionId)
			}
		}

		switch response.Kind {
		case KindSessionEvent:
			target = QueueSessionEvent
		case KindVadEvent:
			target = QueueVadEvent
		case KindPartialResult:
			target = QueuePartialResult
			latch = state.events.PartialResultReady
		case KindFinalResult:
			target = QueueFinalResult
			latch = state.events.ResultReady
		default:
			target = QueueGeneral
		}

	case CategoryGlobal:
		switch response.Kind {
		case KindGlobalEvent:
			target = QueueGlobalEvent
		case KindGlobalSettings:
			target = QueueGlobalSettings
		default:
			getLogger().Debug("ignoring global response",
				"kind", response.Kind.String())
			return nil
		}
	}

	if (target == QueueSessionEvent || target == QueueGlobalEvent) && response.statusCode() != 0 {
		fault := newProtocolFault(category, response)
		faultsCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("category", category.String()),
			attribute.Int("code", int(fault.Code))))
		return fault
	}

	state.queues.Queue(target).Push(response)
	if latch != nil {
		latch.Set()
	}

	messagesCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", category.String()),
		attribute.String("kind", response.Kind.String())))

	return nil
}

func recordDrained(category Category, dropped int) {

	if dropped == 0 {
		return
	}

	drainedCounter.Add(context.Background(), int64(dropped), metric.WithAttributes(
		attribute.String("category", category.String())))
	getLogger().Debug("drained buffered responses",
		"category", category.String(),
		"count", dropped)
}
