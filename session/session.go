package session

import (
	"github.com/lumenvox/go-stream-sdk/dispatch"
	"github.com/lumenvox/go-stream-sdk/stream"

	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lumenvox/protos-go/lumenvox/api"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/lumenvox/go-stream-sdk/session")

var (
	// ErrResponseTimeout is returned when an expected response does not
	// arrive within the allotted time.
	ErrResponseTimeout = errors.New("timed out waiting for response")

	// ErrNoSession is returned by operations on a session whose stream is no
	// longer registered with the dispatcher.
	ErrNoSession = errors.New("session stream is not registered")
)

const (
	sessionIdTimeout       = 10 * time.Second
	closeResponseTimeout   = 3 * time.Second
	defaultResponseTimeout = 5 * time.Second
)

// Session is one LumenVox session bound to a dispatcher. All of its methods
// must be called from inside the dispatcher's Run. Methods that wait for a
// general response hold the session's exchange lock from send to reply, so
// they may be called from several goroutines at once.
type Session struct {
	dispatcher    *dispatch.Dispatcher
	SessionStream *stream.SessionStream

	SessionId    string
	DeploymentId string
	OperatorId   string
	audioConfig  AudioConfig

	// ResponseTimeout bounds each wait for an interaction or audio response.
	ResponseTimeout time.Duration

	// SessionCancel, when set, is called by Close to release the stream
	// context.
	SessionCancel context.CancelFunc

	exchangeLock sync.Mutex
	closeOnce    sync.Once
}

// Create registers sessionStream with the dispatcher, asks the API for a new
// session and waits for its ID. When audioConfig names an audio format, the
// inbound format is set as well.
func Create(ctx context.Context, dispatcher *dispatch.Dispatcher, sessionStream *stream.SessionStream,
	deploymentId string, operatorId string, audioConfig AudioConfig) (newSession *Session, err error) {

	ctx, span := tracer.Start(ctx, "session create")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if err = dispatcher.RegisterSessionStream(sessionStream); err != nil {
		return nil, fmt.Errorf("registering session stream: %w", err)
	}

	newSession = &Session{
		dispatcher:      dispatcher,
		SessionStream:   sessionStream,
		DeploymentId:    deploymentId,
		OperatorId:      operatorId,
		audioConfig:     audioConfig,
		ResponseTimeout: defaultResponseTimeout,
	}

	err = sessionStream.Send(getSessionCreateRequest("", deploymentId, operatorId))
	if err != nil {
		dispatcher.Unregister(sessionStream)
		return nil, fmt.Errorf("sending session create: %w", err)
	}

	newSession.SessionId, err = dispatcher.WaitSessionId(ctx, sessionStream, sessionIdTimeout)
	if err != nil {
		getLogger().Error("no session ID received",
			"error", err)
		dispatcher.Unregister(sessionStream)
		return nil, fmt.Errorf("waiting for session ID: %w", err)
	}
	span.SetAttributes(attribute.String("session.id", newSession.SessionId))

	if audioConfig.Format != api.AudioFormat_STANDARD_AUDIO_FORMAT_NO_AUDIO_RESOURCE {
		err = sessionStream.Send(getAudioFormatRequest("", audioConfig))
		if err != nil {
			dispatcher.Unregister(sessionStream)
			return nil, fmt.Errorf("sending inbound audio format: %w", err)
		}
	}

	if enableVerboseLogging {
		getLogger().Debug("session created",
			"sessionId", newSession.SessionId)
	}

	return newSession, nil
}

func traceAttributes(sessionId string) trace.SpanStartOption {

	return trace.WithAttributes(attribute.String("session.id", sessionId))
}

// Events returns the notification latches of the session, or nil once the
// session has been closed.
func (session *Session) Events() *dispatch.EventSet {

	return session.dispatcher.Events(session.SessionStream)
}

// Close sends a session close request, waits briefly for the API to confirm,
// then half-closes the stream and unregisters it. Calling Close again is a
// no-op.
func (session *Session) Close(ctx context.Context) (err error) {

	session.closeOnce.Do(func() {
		err = session.close(ctx)
	})

	return err
}

func (session *Session) close(ctx context.Context) (err error) {

	ctx, span := tracer.Start(ctx, "session close",
		traceAttributes(session.SessionId))
	defer span.End()

	logger := getLogger().With("sessionId", session.SessionId)

	_, err = session.exchange(ctx, getSessionCloseRequest(""), closeResponseTimeout,
		func(response *api.SessionResponse) bool {
			return response.GetSessionClose() != nil
		})
	var sendErr *sendError
	switch {
	case errors.As(err, &sendErr):
		logger.Error("sending session close",
			"error", sendErr.err)
		err = fmt.Errorf("sending session close: %w", sendErr.err)
	case err != nil:
		logger.Warn("no session close response",
			"error", err)
		err = fmt.Errorf("waiting for session close: %w", err)
	}

	if closeErr := session.SessionStream.CloseSend(); closeErr != nil && err == nil {
		err = fmt.Errorf("closing session stream: %w", closeErr)
	}

	session.dispatcher.Unregister(session.SessionStream)

	if session.SessionCancel != nil {
		session.SessionCancel()
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

// sendError marks a failure to send the request of an exchange, as opposed
// to a failure to receive its reply.
type sendError struct {
	err error
}

func (sendErr *sendError) Error() string {

	return sendErr.err.Error()
}

func (sendErr *sendError) Unwrap() error {

	return sendErr.err
}

// exchange sends request and waits for the general response that satisfies
// match. Exchanges on one session are serialized so that each reply is
// consumed by the caller that asked for it.
func (session *Session) exchange(ctx context.Context, request *api.SessionRequest, timeout time.Duration,
	match func(response *api.SessionResponse) bool) (*api.SessionResponse, error) {

	session.exchangeLock.Lock()
	defer session.exchangeLock.Unlock()

	if err := session.SessionStream.Send(request); err != nil {
		return nil, &sendError{err: err}
	}

	return session.awaitGeneral(ctx, timeout, match)
}

// awaitGeneral takes general responses until one satisfies match. Responses
// that do not match are unsolicited, since exchanges are serialized, and are
// skipped.
func (session *Session) awaitGeneral(ctx context.Context, timeout time.Duration,
	match func(response *api.SessionResponse) bool) (*api.SessionResponse, error) {

	deadline := time.Now().Add(timeout)

	for {
		if !session.dispatcher.Registered(session.SessionStream) {
			return nil, ErrNoSession
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, ErrResponseTimeout
		}

		response, ok := session.dispatcher.TakeGeneralResponse(ctx, session.SessionStream, remaining)
		if !ok {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		whole, isSessionResponse := response.Payload.(*api.SessionResponse)
		if isSessionResponse && match(whole) {
			return whole, nil
		}

		getLogger().Debug("skipping general response",
			"sessionId", session.SessionId,
			"response", response.Payload)
	}
}
