package client

import (
	"github.com/lumenvox/go-stream-sdk/dispatch"
	"github.com/lumenvox/go-stream-sdk/stream"

	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lumenvox/protos-go/lumenvox/api"
)

// ErrNoGlobalResponse is returned when a global stream does not answer in
// time.
var ErrNoGlobalResponse = errors.New("timed out waiting for global response")

func (client *SdkClient) globalRequest(correlationId string) *api.GlobalRequest {

	if correlationId == "" {
		correlationId = uuid.NewString()
	}

	return &api.GlobalRequest{
		CorrelationId: &api.OptionalString{Value: correlationId},
		DeploymentId:  client.DeploymentId,
		OperatorId:    client.OperatorId,
	}
}

func (client *SdkClient) getGlobalLoadGrammarRequest(correlationId string,
	loadGrammar *api.GlobalLoadGrammarRequest) *api.GlobalRequest {

	request := client.globalRequest(correlationId)
	request.RequestType = &api.GlobalRequest_GlobalLoadGrammarRequest{
		GlobalLoadGrammarRequest: loadGrammar,
	}

	return request
}

func (client *SdkClient) getGlobalGetSettingsRequest(correlationId string,
	getSettings *api.GlobalGetSettingsRequest) *api.GlobalRequest {

	request := client.globalRequest(correlationId)
	request.RequestType = &api.GlobalRequest_GlobalGetSettingsRequest{
		GlobalGetSettingsRequest: getSettings,
	}

	return request
}

// GlobalLoadGrammar loads a grammar at deployment scope. A failure is
// reported by the API as a global event, which ends the dispatcher's Run.
func (client *SdkClient) GlobalLoadGrammar(globalStream *stream.GlobalStream,
	loadGrammar *api.GlobalLoadGrammarRequest) error {

	if err := globalStream.Send(client.getGlobalLoadGrammarRequest("", loadGrammar)); err != nil {
		return fmt.Errorf("sending global load grammar: %w", err)
	}

	return nil
}

// GlobalGetSettings asks for the deployment's settings and waits up to
// timeout for the answer taken from the global settings queue.
func (client *SdkClient) GlobalGetSettings(ctx context.Context, dispatcher *dispatch.Dispatcher,
	globalStream *stream.GlobalStream, getSettings *api.GlobalGetSettingsRequest,
	timeout time.Duration) (*dispatch.Response, error) {

	if err := globalStream.Send(client.getGlobalGetSettingsRequest("", getSettings)); err != nil {
		return nil, fmt.Errorf("sending global get settings: %w", err)
	}

	response, ok := dispatcher.TakeGlobalSettings(ctx, globalStream, timeout)
	if !ok {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrNoGlobalResponse
	}

	return response, nil
}

// NextGlobalEvent waits up to wait for the next successful global event.
func (client *SdkClient) NextGlobalEvent(ctx context.Context, dispatcher *dispatch.Dispatcher,
	globalStream *stream.GlobalStream, wait time.Duration) (*dispatch.Response, error) {

	response, ok := dispatcher.TakeGlobalEvent(ctx, globalStream, wait)
	if !ok {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrNoGlobalResponse
	}

	return response, nil
}
