package stream

import (
	"github.com/lumenvox/go-stream-sdk/dispatch"

	"github.com/lumenvox/protos-go/lumenvox/api"
)

// ClassifySession converts a session response into the dispatcher's view of
// it. Responses with a dedicated queue carry their sub-message as payload;
// everything else (interaction create, audio pull, session close, settings)
// carries the whole response.
func ClassifySession(response *api.SessionResponse) *dispatch.Response {

	classified := &dispatch.Response{
		SessionId: response.GetSessionId().GetValue(),
		Kind:      dispatch.KindGeneral,
		Payload:   response,
	}

	switch {
	case response.GetSessionEvent() != nil:
		classified.Kind = dispatch.KindSessionEvent
		classified.Payload = response.GetSessionEvent()
		classified.Status = response.GetSessionEvent().GetStatusMessage()
	case response.GetVadEvent() != nil:
		classified.Kind = dispatch.KindVadEvent
		classified.Payload = response.GetVadEvent()
	case response.GetPartialResult() != nil:
		classified.Kind = dispatch.KindPartialResult
		classified.Payload = response.GetPartialResult()
	case response.GetFinalResult() != nil:
		classified.Kind = dispatch.KindFinalResult
		classified.Payload = response.GetFinalResult()
	}

	return classified
}

// ClassifyGlobal converts a global response. Responses other than global
// events and settings keep KindGeneral, which the global loop ignores.
func ClassifyGlobal(response *api.GlobalResponse) *dispatch.Response {

	classified := &dispatch.Response{
		Kind:    dispatch.KindGeneral,
		Payload: response,
	}

	switch {
	case response.GetGlobalEvent() != nil:
		classified.Kind = dispatch.KindGlobalEvent
		classified.Payload = response.GetGlobalEvent()
		classified.Status = response.GetGlobalEvent().GetStatusMessage()
	case response.GetGlobalSettings() != nil:
		classified.Kind = dispatch.KindGlobalSettings
		classified.Payload = response.GetGlobalSettings()
	}

	return classified
}
