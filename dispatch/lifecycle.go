package dispatch

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// Run executes one workflow. It resets the registries, starts the session and
// global dispatch loops, runs task alongside them and waits for all three.
//
// When task returns, both loops are asked to stop. The first error wins: a
// task error, or a *ProtocolFault from a loop (which also cancels the
// context handed to task). On every exit path the queues of all streams
// registered during the run are drained and the registries are disabled
// before Run returns.
func (dispatcher *Dispatcher) Run(ctx context.Context, task func(ctx context.Context) error) (err error) {

	if !dispatcher.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer dispatcher.running.Store(false)

	ctx, span := tracer.Start(ctx, "dispatch run")
	defer span.End()

	dispatcher.session.reset()
	dispatcher.global.reset()

	defer dispatcher.teardown()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return dispatcher.dispatchLoop(groupCtx, dispatcher.session)
	})
	group.Go(func() error {
		return dispatcher.dispatchLoop(groupCtx, dispatcher.global)
	})
	group.Go(func() error {
		defer dispatcher.RequestCancellation()
		return task(groupCtx)
	})

	err = group.Wait()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

// teardown drains every queue, disables both registries and releases any
// reader still waiting to deliver.
func (dispatcher *Dispatcher) teardown() {

	for _, group := range []*streamGroup{dispatcher.session, dispatcher.global} {
		dropped := 0
		for _, state := range group.removeAll(true) {
			dropped += state.detach()
		}
		recordDrained(group.category, dropped)
	}
}
