package stream

import (
	"github.com/lumenvox/go-stream-sdk/dispatch"

	"context"
	"fmt"
	"sync"

	"github.com/lumenvox/protos-go/lumenvox/api"
)

// GlobalClient is the part of api.LumenVox_GlobalClient used here.
type GlobalClient interface {
	Send(*api.GlobalRequest) error
	Recv() (*api.GlobalResponse, error)
	CloseSend() error
}

var _ GlobalClient = (api.LumenVox_GlobalClient)(nil)

// GlobalStream adapts a global RPC to dispatch.Stream. Unlike session
// requests, every global request names its deployment and operator.
type GlobalStream struct {
	client GlobalClient

	sendLock sync.Mutex
}

var _ dispatch.Stream = (*GlobalStream)(nil)

func NewGlobalStream(client GlobalClient) *GlobalStream {

	return &GlobalStream{
		client: client,
	}
}

func OpenGlobalStream(ctx context.Context, lumenvoxClient api.LumenVoxClient) (*GlobalStream, error) {

	client, err := lumenvoxClient.Global(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening global stream: %w", err)
	}

	return NewGlobalStream(client), nil
}

func (globalStream *GlobalStream) Recv() (*dispatch.Response, error) {

	response, err := globalStream.client.Recv()
	if err != nil {
		return nil, err
	}

	return ClassifyGlobal(response), nil
}

func (globalStream *GlobalStream) Send(request *api.GlobalRequest) error {

	globalStream.sendLock.Lock()
	defer globalStream.sendLock.Unlock()

	return globalStream.client.Send(request)
}

func (globalStream *GlobalStream) CloseSend() error {

	globalStream.sendLock.Lock()
	defer globalStream.sendLock.Unlock()

	return globalStream.client.CloseSend()
}
