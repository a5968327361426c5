package dispatch

import (
	"sync"
	"sync/atomic"
)

// Stream is the inbound half of a duplex stream. Implementations are used as
// map keys, so they must be comparable (pointer types are).
//
// Recv blocks until the next message arrives. io.EOF, or any other error,
// marks the stream as terminated.
type Stream interface {
	Recv() (*Response, error)
}

// streamState is everything the dispatcher keeps for one registered stream.
type streamState struct {
	stream   Stream
	category Category
	queues   *QueueSet
	events   *EventSet

	sessionIdLock  sync.Mutex
	sessionId      string
	sessionIdReady *Latch

	terminated *Latch

	// detached is closed when the stream leaves the registry, releasing a
	// reader that is waiting to deliver.
	detached   chan struct{}
	detachOnce sync.Once
}

func newStreamState(stream Stream, category Category) *streamState {

	return &streamState{
		stream:         stream,
		category:       category,
		queues:         newQueueSet(category),
		events:         newEventSet(),
		sessionIdReady: NewLatch(),
		terminated:     NewLatch(),
		detached:       make(chan struct{}),
	}
}

// recordSessionId stores the latest session ID and reports whether it is the
// first one seen on this stream.
func (state *streamState) recordSessionId(sessionId string) (first bool) {

	state.sessionIdLock.Lock()
	first = state.sessionId == ""
	state.sessionId = sessionId
	state.sessionIdLock.Unlock()

	state.sessionIdReady.Set()

	return first
}

func (state *streamState) currentSessionId() string {

	state.sessionIdLock.Lock()
	defer state.sessionIdLock.Unlock()

	return state.sessionId
}

// detach drains the queues and releases the reader. Safe to call repeatedly.
func (state *streamState) detach() (dropped int) {

	dropped = state.queues.drain()
	state.detachOnce.Do(func() {
		close(state.detached)
	})

	return dropped
}

// inboundMessage is what a reader hands to its category's dispatch loop. The
// loop resolves the stream's registration itself, so a message always lands
// in the state that is current when it is classified.
type inboundMessage struct {
	stream   Stream
	response *Response
}

// streamGroup is the registry, cancellation flag and loop plumbing of one
// category.
type streamGroup struct {
	category Category

	mu      sync.RWMutex
	enabled bool
	streams map[Stream]*streamState
	order   []*streamState

	cancelled atomic.Bool

	// wake nudges the dispatch loop to re-check its flag and re-snapshot.
	wake chan struct{}

	inbound chan inboundMessage
}

func newStreamGroup(category Category) *streamGroup {

	return &streamGroup{
		category: category,
		streams:  make(map[Stream]*streamState),
		wake:     make(chan struct{}, 1),
		inbound:  make(chan inboundMessage),
	}
}

func (group *streamGroup) signal() {

	select {
	case group.wake <- struct{}{}:
	default:
	}
}

// register adds a stream, allocating its state. A stream that is already
// registered keeps its existing state.
func (group *streamGroup) register(stream Stream) (state *streamState, created bool, err error) {

	group.mu.Lock()
	defer group.mu.Unlock()

	if !group.enabled {
		return nil, false, ErrNotRunning
	}

	if existing, ok := group.streams[stream]; ok {
		return existing, false, nil
	}

	state = newStreamState(stream, group.category)
	group.streams[stream] = state
	group.order = append(group.order, state)
	group.signal()

	return state, true, nil
}

// unregister removes a stream and returns its state, or nil if unknown.
func (group *streamGroup) unregister(stream Stream) *streamState {

	group.mu.Lock()
	defer group.mu.Unlock()

	state, ok := group.streams[stream]
	if !ok {
		return nil
	}

	delete(group.streams, stream)
	for idx, candidate := range group.order {
		if candidate == state {
			group.order = append(group.order[:idx], group.order[idx+1:]...)
			break
		}
	}
	group.signal()

	return state
}

// removeAll empties the registry and returns the removed states. When
// disable is set, further registrations fail until the next reset.
func (group *streamGroup) removeAll(disable bool) []*streamState {

	group.mu.Lock()
	defer group.mu.Unlock()

	removed := group.order
	group.streams = make(map[Stream]*streamState)
	group.order = nil
	if disable {
		group.enabled = false
	}
	group.signal()

	return removed
}

// reset prepares the group for a new run: empty, enabled and not cancelled.
func (group *streamGroup) reset() {

	group.mu.Lock()
	group.streams = make(map[Stream]*streamState)
	group.order = nil
	group.enabled = true
	group.mu.Unlock()

	group.cancelled.Store(false)
}

func (group *streamGroup) lookup(stream Stream) *streamState {

	group.mu.RLock()
	defer group.mu.RUnlock()

	return group.streams[stream]
}

// snapshot returns the registered states in registration order.
func (group *streamGroup) snapshot() []*streamState {

	group.mu.RLock()
	defer group.mu.RUnlock()

	states := make([]*streamState, len(group.order))
	copy(states, group.order)

	return states
}
