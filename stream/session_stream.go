package stream

import (
	"github.com/lumenvox/go-stream-sdk/dispatch"

	"context"
	"fmt"
	"sync"

	"github.com/lumenvox/protos-go/lumenvox/api"
)

// SessionClient is the part of api.LumenVox_SessionClient used here.
type SessionClient interface {
	Send(*api.SessionRequest) error
	Recv() (*api.SessionResponse, error)
	CloseSend() error
}

var _ SessionClient = (api.LumenVox_SessionClient)(nil)

// SessionStream adapts a session RPC to dispatch.Stream. Send may be called
// from several goroutines.
type SessionStream struct {
	client SessionClient

	sendLock sync.Mutex
}

var _ dispatch.Stream = (*SessionStream)(nil)

func NewSessionStream(client SessionClient) *SessionStream {

	return &SessionStream{
		client: client,
	}
}

// OpenSessionStream starts a session RPC on lumenvoxClient. The stream lives
// until ctx ends or it is closed by both sides.
func OpenSessionStream(ctx context.Context, lumenvoxClient api.LumenVoxClient) (*SessionStream, error) {

	client, err := lumenvoxClient.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening session stream: %w", err)
	}

	return NewSessionStream(client), nil
}

func (sessionStream *SessionStream) Recv() (*dispatch.Response, error) {

	response, err := sessionStream.client.Recv()
	if err != nil {
		return nil, err
	}

	return ClassifySession(response), nil
}

func (sessionStream *SessionStream) Send(request *api.SessionRequest) error {

	sessionStream.sendLock.Lock()
	defer sessionStream.sendLock.Unlock()

	return sessionStream.client.Send(request)
}

// CloseSend half-closes the stream. The API answers by ending the stream,
// which the reader sees as io.EOF.
func (sessionStream *SessionStream) CloseSend() error {

	sessionStream.sendLock.Lock()
	defer sessionStream.sendLock.Unlock()

	return sessionStream.client.CloseSend()
}
