package dispatch

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const scopeName = "github.com/lumenvox/go-stream-sdk/dispatch"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)

	messagesCounter = int64Counter("dispatch.messages",
		"Inbound stream messages classified by the dispatch loops")
	faultsCounter = int64Counter("dispatch.protocol_faults",
		"Event messages rejected because of a non-zero status code")
	drainedCounter = int64Counter("dispatch.drained_messages",
		"Buffered messages discarded at unregister or teardown")
)

func int64Counter(name, description string) metric.Int64Counter {

	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return noop.Int64Counter{}
	}

	return counter
}
