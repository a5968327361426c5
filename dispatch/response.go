package dispatch

import (
	"google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/protobuf/proto"
)

// Kind identifies the response category of an inbound message. It is decided
// once, when the transport adapter converts the wire message, and drives the
// routing done by the dispatch loop.
type Kind int

const (
	// KindGeneral is the catch-all for responses without a dedicated queue.
	KindGeneral Kind = iota
	KindSessionEvent
	KindVadEvent
	KindPartialResult
	KindFinalResult
	KindGlobalEvent
	KindGlobalSettings
)

func (kind Kind) String() string {

	switch kind {
	case KindGeneral:
		return "general_response"
	case KindSessionEvent:
		return "session_event"
	case KindVadEvent:
		return "vad_event"
	case KindPartialResult:
		return "partial_result"
	case KindFinalResult:
		return "final_result"
	case KindGlobalEvent:
		return "global_event"
	case KindGlobalSettings:
		return "global_settings"
	default:
		return "unknown"
	}
}

// Category separates session-oriented streams from global-oriented streams.
// Each category has its own registry, cancellation flag and dispatch loop.
type Category int

const (
	CategorySession Category = iota
	CategoryGlobal
)

func (category Category) String() string {

	switch category {
	case CategorySession:
		return "session"
	case CategoryGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// Response is the discriminated form of one inbound stream message.
type Response struct {
	// SessionId is empty when the message does not carry one.
	SessionId string

	Kind Kind

	// Status is the embedded status of event-shaped messages. A nil status,
	// or one with code 0, means success.
	Status *status.Status

	// Payload holds the kind-specific message. For KindGeneral it is the
	// complete wire message.
	Payload proto.Message
}

// statusCode returns the embedded status code, or 0 when there is none.
func (response *Response) statusCode() int32 {

	if response.Status == nil {
		return 0
	}

	return response.Status.GetCode()
}
