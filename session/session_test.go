package session

import (
	"github.com/lumenvox/go-stream-sdk/dispatch"
	"github.com/lumenvox/go-stream-sdk/stream"

	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/lumenvox/protos-go/lumenvox/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/prototext"
)

// fakeApi answers session requests the way the API would, using replies
// produced by a per-test handler. Replies are prototext SessionResponses.
type fakeApi struct {
	t       *testing.T
	handler func(request *api.SessionRequest) []string

	mu   sync.Mutex
	sent []*api.SessionRequest

	responses chan *api.SessionResponse
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeApi(t *testing.T, handler func(request *api.SessionRequest) []string) *fakeApi {

	return &fakeApi{
		t:         t,
		handler:   handler,
		responses: make(chan *api.SessionResponse, 64),
		closed:    make(chan struct{}),
	}
}

func (fake *fakeApi) Send(request *api.SessionRequest) error {

	fake.mu.Lock()
	fake.sent = append(fake.sent, request)
	fake.mu.Unlock()

	for _, text := range fake.handler(request) {
		fake.reply(text)
	}

	return nil
}

func (fake *fakeApi) reply(text string) {

	response := &api.SessionResponse{}
	if err := prototext.Unmarshal([]byte(text), response); err != nil {
		fake.t.Errorf("bad fake response %q: %v", text, err)
		return
	}
	fake.responses <- response
}

func (fake *fakeApi) Recv() (*api.SessionResponse, error) {

	select {
	case response := <-fake.responses:
		return response, nil
	case <-fake.closed:
		return nil, io.EOF
	}
}

func (fake *fakeApi) CloseSend() error {

	fake.closeOnce.Do(func() { close(fake.closed) })
	return nil
}

func (fake *fakeApi) isClosed() bool {

	select {
	case <-fake.closed:
		return true
	default:
		return false
	}
}

func (fake *fakeApi) requests() []*api.SessionRequest {

	fake.mu.Lock()
	defer fake.mu.Unlock()

	return append([]*api.SessionRequest(nil), fake.sent...)
}

// standardReplies answers session create and close; other requests get
// nothing unless extra handles them.
func standardReplies(extra func(request *api.SessionRequest) []string) func(*api.SessionRequest) []string {

	return func(request *api.SessionRequest) []string {
		switch {
		case request.GetSessionRequest().GetSessionCreate() != nil:
			return []string{`session_id { value: "session-1" }`}
		case request.GetSessionRequest().GetSessionClose() != nil:
			return []string{`session_close {}`}
		}
		if extra != nil {
			return extra(request)
		}
		return nil
	}
}

// withSession runs fn inside a dispatcher run with a freshly created session.
func withSession(t *testing.T, fake *fakeApi, audioConfig AudioConfig,
	fn func(ctx context.Context, session *Session) error) error {
	t.Helper()

	dispatcher := dispatch.NewDispatcher()

	return dispatcher.Run(context.Background(), func(ctx context.Context) error {
		session, err := Create(ctx, dispatcher, stream.NewSessionStream(fake), "deployment", "operator", audioConfig)
		if err != nil {
			return err
		}
		session.ResponseTimeout = time.Second

		defer session.Close(ctx)
		return fn(ctx, session)
	})
}

var noAudio = AudioConfig{Format: api.AudioFormat_STANDARD_AUDIO_FORMAT_NO_AUDIO_RESOURCE}

func TestCreateAndClose(t *testing.T) {
	fake := newFakeApi(t, standardReplies(nil))
	dispatcher := dispatch.NewDispatcher()
	sessionStream := stream.NewSessionStream(fake)

	err := dispatcher.Run(context.Background(), func(ctx context.Context) error {
		session, err := Create(ctx, dispatcher, sessionStream, "deployment", "operator", AudioConfig{
			Format:     api.AudioFormat_STANDARD_AUDIO_FORMAT_LINEAR16,
			SampleRate: 8000,
		})
		if err != nil {
			return err
		}
		assert.Equal(t, "session-1", session.SessionId)
		assert.NotNil(t, session.Events())

		assert.NoError(t, session.Close(ctx))
		assert.NoError(t, session.Close(ctx))
		assert.False(t, dispatcher.Registered(sessionStream))
		assert.Nil(t, session.Events())
		return nil
	})
	require.NoError(t, err)

	requests := fake.requests()
	require.Len(t, requests, 3)
	create := requests[0].GetSessionRequest().GetSessionCreate()
	assert.Equal(t, "deployment", create.GetDeploymentId())
	assert.Equal(t, "operator", create.GetOperatorId())
	assert.NotEmpty(t, requests[0].GetCorrelationId().GetValue())

	format := requests[1].GetSessionRequest().GetSessionAudioFormat().GetAudioFormat()
	assert.Equal(t, api.AudioFormat_STANDARD_AUDIO_FORMAT_LINEAR16, format.GetStandardAudioFormat())
	assert.Equal(t, int32(8000), format.GetSampleRateHertz().GetValue())

	assert.NotNil(t, requests[2].GetSessionRequest().GetSessionClose())
	assert.True(t, fake.isClosed())
}

func TestCreateFailsWhenStreamEnds(t *testing.T) {
	fake := newFakeApi(t, func(request *api.SessionRequest) []string { return nil })
	_ = fake.CloseSend()

	dispatcher := dispatch.NewDispatcher()
	sessionStream := stream.NewSessionStream(fake)

	err := dispatcher.Run(context.Background(), func(ctx context.Context) error {
		_, err := Create(ctx, dispatcher, sessionStream, "deployment", "operator", noAudio)
		assert.ErrorIs(t, err, dispatch.ErrStreamTerminated)
		assert.False(t, dispatcher.Registered(sessionStream))
		return nil
	})

	require.NoError(t, err)
}

func TestCreateOutsideRunFails(t *testing.T) {
	fake := newFakeApi(t, standardReplies(nil))

	_, err := Create(context.Background(), dispatch.NewDispatcher(), stream.NewSessionStream(fake),
		"deployment", "operator", noAudio)

	assert.ErrorIs(t, err, dispatch.ErrNotRunning)
	assert.Empty(t, fake.requests())
}

func TestNewAsrSkipsUnrelatedGeneralResponses(t *testing.T) {
	fake := newFakeApi(t, standardReplies(func(request *api.SessionRequest) []string {
		if request.GetInteractionRequest().GetInteractionCreateAsr() != nil {
			return []string{
				`interaction_create_tts { interaction_id: "other" }`,
				`interaction_create_asr { interaction_id: "asr-1" }`,
			}
		}
		return nil
	}))

	err := withSession(t, fake, noAudio, func(ctx context.Context, session *Session) error {
		interactionId, err := session.NewAsr(ctx, "en-US", nil, nil, nil, nil, nil, nil)
		if err != nil {
			return err
		}
		assert.Equal(t, "asr-1", interactionId)
		return nil
	})

	require.NoError(t, err)
}

func TestInteractionCreateTimesOut(t *testing.T) {
	fake := newFakeApi(t, standardReplies(nil))

	err := withSession(t, fake, noAudio, func(ctx context.Context, session *Session) error {
		session.ResponseTimeout = 50 * time.Millisecond
		_, err := session.NewNormalizeText(ctx, "en-US", "one two three", nil, nil)
		assert.ErrorIs(t, err, ErrResponseTimeout)
		return nil
	})

	require.NoError(t, err)
}

func TestNormalizeTextFinalResult(t *testing.T) {
	fake := newFakeApi(t, standardReplies(func(request *api.SessionRequest) []string {
		created := request.GetInteractionRequest().GetInteractionCreateNormalizeText()
		if created == nil {
			return nil
		}
		assert.Equal(t, "one two three", created.GetTranscript())
		return []string{
			`interaction_create_normalize_text { interaction_id: "norm-1" }`,
			`final_result { interaction_id: "norm-1" }`,
		}
	}))

	err := withSession(t, fake, noAudio, func(ctx context.Context, session *Session) error {
		interactionId, err := session.NewNormalizeText(ctx, "en-US", "one two three", nil, nil)
		if err != nil {
			return err
		}

		// no audio is pushed for text normalization
		session.Events().AudioComplete.Set()

		finalResult, err := session.WaitFinalResult(ctx, time.Second)
		if err != nil {
			return err
		}
		assert.Equal(t, interactionId, finalResult.GetInteractionId())
		assert.True(t, session.Events().ResultReady.IsSet())
		return nil
	})

	require.NoError(t, err)
}

func TestWaitFinalResultTimesOutAfterAudioComplete(t *testing.T) {
	fake := newFakeApi(t, standardReplies(nil))

	err := withSession(t, fake, noAudio, func(ctx context.Context, session *Session) error {
		session.Events().AudioComplete.Set()

		start := time.Now()
		_, err := session.WaitFinalResult(ctx, 50*time.Millisecond)
		assert.ErrorIs(t, err, ErrResponseTimeout)
		assert.Less(t, time.Since(start), time.Second)
		return nil
	})

	require.NoError(t, err)
}

func TestWaitFinalResultWhileAudioIsPushed(t *testing.T) {
	var pushes int
	var mu sync.Mutex
	fake := newFakeApi(t, standardReplies(func(request *api.SessionRequest) []string {
		if request.GetAudioRequest().GetAudioPush() == nil {
			return nil
		}
		mu.Lock()
		defer mu.Unlock()
		pushes++
		if pushes == 2 {
			// the API may finish before all audio has been sent
			return []string{`final_result { interaction_id: "asr-1" }`}
		}
		return nil
	}))

	audioConfig := AudioConfig{
		Format:            api.AudioFormat_STANDARD_AUDIO_FORMAT_ULAW,
		SampleRate:        8000,
		IsBatch:           true,
		BatchChunkSize:    100,
		BatchChunkDelayMs: 10,
	}

	err := withSession(t, fake, audioConfig, func(ctx context.Context, session *Session) error {
		pushDone := make(chan error, 1)
		go func() {
			pushDone <- session.PushAudio(ctx, make([]byte, 1000))
		}()

		finalResult, err := session.WaitFinalResult(ctx, 20*time.Millisecond)
		if err != nil {
			return err
		}
		assert.Equal(t, "asr-1", finalResult.GetInteractionId())

		return <-pushDone
	})

	require.NoError(t, err)
}

func TestPushAudioChunksAndSetsAudioComplete(t *testing.T) {
	fake := newFakeApi(t, standardReplies(nil))
	audioConfig := AudioConfig{
		Format:            api.AudioFormat_STANDARD_AUDIO_FORMAT_LINEAR16,
		SampleRate:        8000,
		IsBatch:           true,
		BatchChunkSize:    4,
		BatchChunkDelayMs: 1,
	}

	err := withSession(t, fake, audioConfig, func(ctx context.Context, session *Session) error {
		assert.False(t, session.Events().AudioComplete.IsSet())
		if err := session.PushAudio(ctx, []byte("0123456789")); err != nil {
			return err
		}
		assert.True(t, session.Events().AudioComplete.IsSet())
		return nil
	})
	require.NoError(t, err)

	var chunks []string
	for _, request := range fake.requests() {
		if push := request.GetAudioRequest().GetAudioPush(); push != nil {
			chunks = append(chunks, string(push.GetAudioData()))
		}
	}
	assert.Equal(t, []string{"0123", "4567", "89"}, chunks)
}

func TestPushAudioStopsWhenContextEnds(t *testing.T) {
	fake := newFakeApi(t, standardReplies(nil))
	audioConfig := AudioConfig{
		Format:            api.AudioFormat_STANDARD_AUDIO_FORMAT_ULAW,
		IsBatch:           true,
		BatchChunkSize:    1,
		BatchChunkDelayMs: 50,
	}

	err := withSession(t, fake, audioConfig, func(ctx context.Context, session *Session) error {
		pushCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		err := session.PushAudio(pushCtx, make([]byte, 100))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.True(t, session.Events().AudioComplete.IsSet())
		return nil
	})

	require.NoError(t, err)
}

func TestPullAllAudio(t *testing.T) {
	var pulls int
	fake := newFakeApi(t, standardReplies(func(request *api.SessionRequest) []string {
		pull := request.GetAudioRequest().GetAudioPull()
		if pull == nil {
			return nil
		}
		assert.Equal(t, "tts-1", pull.GetAudioId())
		pulls++
		if pulls < 3 {
			return []string{`audio_pull { audio_data: "ab" final_data_chunk: false }`}
		}
		return []string{`audio_pull { audio_data: "cd" final_data_chunk: true }`}
	}))

	err := withSession(t, fake, noAudio, func(ctx context.Context, session *Session) error {
		audioData, err := session.PullAllAudio(ctx, "tts-1", AudioPullOptions{})
		if err != nil {
			return err
		}
		assert.Equal(t, []byte("ababcd"), audioData)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, pulls)
}

func TestNextPartialResultAndVadEvent(t *testing.T) {
	fake := newFakeApi(t, standardReplies(func(request *api.SessionRequest) []string {
		if request.GetInteractionRequest().GetInteractionCreateTranscription() != nil {
			return []string{
				`interaction_create_transcription { interaction_id: "tr-1" }`,
				`vad_event {}`,
				`partial_result { interaction_id: "tr-1" }`,
			}
		}
		return nil
	}))

	err := withSession(t, fake, noAudio, func(ctx context.Context, session *Session) error {
		interactionId, err := session.NewTranscription(ctx, "en-US", nil, nil, nil, nil,
			TranscriptionOptions{LanguageModelName: "default"})
		if err != nil {
			return err
		}

		vadEvent, err := session.NextVadEvent(ctx, time.Second)
		if err != nil {
			return err
		}
		assert.NotNil(t, vadEvent)

		partialResult, err := session.NextPartialResult(ctx, time.Second)
		if err != nil {
			return err
		}
		assert.Equal(t, interactionId, partialResult.GetInteractionId())

		_, err = session.NextPartialResult(ctx, 10*time.Millisecond)
		assert.ErrorIs(t, err, ErrResponseTimeout)
		return nil
	})

	require.NoError(t, err)
}

func TestSessionEventFaultEndsRun(t *testing.T) {
	fake := newFakeApi(t, standardReplies(func(request *api.SessionRequest) []string {
		if request.GetInteractionRequest().GetInteractionCreateAsr() != nil {
			return []string{`session_event { status_message { code: 3 message: "grammar failed to load" } }`}
		}
		return nil
	}))

	err := withSession(t, fake, noAudio, func(ctx context.Context, session *Session) error {
		_, err := session.NewAsr(ctx, "en-US", nil, nil, nil, nil, nil, nil)
		return err
	})

	var fault *dispatch.ProtocolFault
	require.True(t, errors.As(err, &fault), "got %v", err)
	assert.Equal(t, int32(3), fault.Code)
	assert.Equal(t, "grammar failed to load", fault.Message)
}

func TestFinalizeAndCloseInteraction(t *testing.T) {
	fake := newFakeApi(t, standardReplies(nil))

	err := withSession(t, fake, noAudio, func(ctx context.Context, session *Session) error {
		if err := session.BeginProcessing("asr-1"); err != nil {
			return err
		}
		if err := session.Finalize("asr-1"); err != nil {
			return err
		}
		return session.CloseInteraction("asr-1")
	})
	require.NoError(t, err)

	var begun, finalized, closed string
	for _, request := range fake.requests() {
		interaction := request.GetInteractionRequest()
		if begin := interaction.GetInteractionBeginProcessing(); begin != nil {
			begun = begin.GetInteractionId()
		}
		if finalize := interaction.GetInteractionFinalizeProcessing(); finalize != nil {
			finalized = finalize.GetInteractionId()
		}
		if interactionClose := interaction.GetInteractionClose(); interactionClose != nil {
			closed = interactionClose.GetInteractionId()
		}
	}
	assert.Equal(t, "asr-1", begun)
	assert.Equal(t, "asr-1", finalized)
	assert.Equal(t, "asr-1", closed)
}

func audioPushes(fake *fakeApi) []string {

	var chunks []string
	for _, request := range fake.requests() {
		if push := request.GetAudioRequest().GetAudioPush(); push != nil {
			chunks = append(chunks, string(push.GetAudioData()))
		}
	}
	return chunks
}

func TestAudioAddedInPiecesKeepsWaiterPolling(t *testing.T) {
	fake := newFakeApi(t, standardReplies(func(request *api.SessionRequest) []string {
		if string(request.GetAudioRequest().GetAudioPush().GetAudioData()) == "last" {
			return []string{`final_result { interaction_id: "asr-1" }`}
		}
		return nil
	}))

	audioConfig := AudioConfig{
		Format:            api.AudioFormat_STANDARD_AUDIO_FORMAT_ULAW,
		SampleRate:        8000,
		IsBatch:           true,
		BatchChunkSize:    100,
		BatchChunkDelayMs: 1,
	}

	err := withSession(t, fake, audioConfig, func(ctx context.Context, session *Session) error {
		producerDone := make(chan error, 1)
		go func() {
			if err := session.AddAudio(ctx, []byte("first")); err != nil {
				producerDone <- err
				return
			}
			assert.False(t, session.Events().AudioComplete.IsSet())

			// the waiter keeps polling through the gap between pieces
			time.Sleep(150 * time.Millisecond)

			err := session.AddAudio(ctx, []byte("last"))
			session.FinishAudio()
			producerDone <- err
		}()

		finalResult, err := session.WaitFinalResult(ctx, 20*time.Millisecond)
		if err != nil {
			return err
		}
		assert.Equal(t, "asr-1", finalResult.GetInteractionId())

		if err = <-producerDone; err != nil {
			return err
		}
		assert.True(t, session.Events().AudioComplete.IsSet())
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "last"}, audioPushes(fake))
}

func TestNewAudioInteractionClearsAudioComplete(t *testing.T) {
	fake := newFakeApi(t, standardReplies(func(request *api.SessionRequest) []string {
		if request.GetInteractionRequest().GetInteractionCreateAsr() != nil {
			return []string{`interaction_create_asr { interaction_id: "asr-2" }`}
		}
		return nil
	}))

	audioConfig := AudioConfig{
		Format:     api.AudioFormat_STANDARD_AUDIO_FORMAT_ULAW,
		SampleRate: 8000,
		IsBatch:    true,
	}

	err := withSession(t, fake, audioConfig, func(ctx context.Context, session *Session) error {
		if err := session.PushAudio(ctx, []byte("audio of the first interaction")); err != nil {
			return err
		}
		require.True(t, session.Events().AudioComplete.IsSet())

		if _, err := session.NewAsr(ctx, "en-US", nil, nil, nil, nil, nil, nil); err != nil {
			return err
		}
		assert.False(t, session.Events().AudioComplete.IsSet())
		return nil
	})

	require.NoError(t, err)
}

func TestConcurrentHelpersGetTheirOwnResponses(t *testing.T) {
	fake := newFakeApi(t, standardReplies(func(request *api.SessionRequest) []string {
		switch {
		case request.GetAudioRequest().GetAudioPull() != nil:
			return []string{`audio_pull { audio_data: "pcm" final_data_chunk: true }`}
		case request.GetInteractionRequest().GetInteractionCreateAsr() != nil:
			return []string{`interaction_create_asr { interaction_id: "asr-1" }`}
		}
		return nil
	}))

	err := withSession(t, fake, noAudio, func(ctx context.Context, session *Session) error {
		const rounds = 20
		var wg sync.WaitGroup
		errs := make(chan error, 2*rounds)

		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				audioData, err := session.PullAllAudio(ctx, "tts-1", AudioPullOptions{})
				if err != nil {
					errs <- err
					continue
				}
				assert.Equal(t, []byte("pcm"), audioData)
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				interactionId, err := session.NewAsr(ctx, "en-US", nil, nil, nil, nil, nil, nil)
				if err != nil {
					errs <- err
					continue
				}
				assert.Equal(t, "asr-1", interactionId)
			}
		}()
		wg.Wait()
		close(errs)

		if err, failed := <-errs; failed {
			return err
		}
		return nil
	})

	require.NoError(t, err)
}

func TestGrammarParseInteraction(t *testing.T) {
	fake := newFakeApi(t, standardReplies(func(request *api.SessionRequest) []string {
		created := request.GetInteractionRequest().GetInteractionCreateGrammarParse()
		if created == nil {
			return nil
		}
		assert.Equal(t, "ONE TWO THREE FOUR", created.GetInputText())
		assert.Equal(t, "en-US", created.GetLanguage())
		assert.Equal(t, int32(5000), created.GetParseTimeoutMs().GetValue())
		return []string{
			`interaction_create_grammar_parse { interaction_id: "parse-1" }`,
			`final_result { interaction_id: "parse-1" }`,
		}
	}))

	err := withSession(t, fake, noAudio, func(ctx context.Context, session *Session) error {
		interactionId, err := session.NewGrammarParse(ctx, "en-US", "ONE TWO THREE FOUR", nil, nil,
			&api.OptionalInt32{Value: 5000}, nil)
		if err != nil {
			return err
		}
		assert.Equal(t, "parse-1", interactionId)

		session.FinishAudio()
		finalResult, err := session.WaitFinalResult(ctx, time.Second)
		if err != nil {
			return err
		}
		assert.Equal(t, "parse-1", finalResult.GetInteractionId())
		return nil
	})

	require.NoError(t, err)
}

func TestDiarizationAndLanguageIdInteractions(t *testing.T) {
	fake := newFakeApi(t, standardReplies(func(request *api.SessionRequest) []string {
		interaction := request.GetInteractionRequest()
		switch {
		case interaction.GetInteractionCreateDiarization() != nil:
			return []string{`interaction_create_diarization { interaction_id: "diarization-1" }`}
		case interaction.GetInteractionCreateLanguageId() != nil:
			return []string{`interaction_create_language_id { interaction_id: "lid-1" }`}
		}
		return nil
	}))

	err := withSession(t, fake, noAudio, func(ctx context.Context, session *Session) error {
		session.FinishAudio()

		diarizationId, err := session.NewDiarization(ctx, &api.InteractionCreateDiarizationRequest{})
		if err != nil {
			return err
		}
		assert.Equal(t, "diarization-1", diarizationId)
		assert.False(t, session.Events().AudioComplete.IsSet())

		languageId, err := session.NewLanguageId(ctx, &api.InteractionCreateLanguageIdRequest{})
		if err != nil {
			return err
		}
		assert.Equal(t, "lid-1", languageId)
		return nil
	})

	require.NoError(t, err)
}

func TestLoadSessionGrammar(t *testing.T) {
	fake := newFakeApi(t, standardReplies(func(request *api.SessionRequest) []string {
		if request.GetSessionRequest().GetSessionLoadGrammar() != nil {
			return []string{`session_grammar {}`}
		}
		return nil
	}))

	err := withSession(t, fake, noAudio, func(ctx context.Context, session *Session) error {
		response, err := session.LoadSessionGrammar(ctx, &api.SessionLoadGrammarRequest{})
		if err != nil {
			return err
		}
		assert.NotNil(t, response)
		return nil
	})

	require.NoError(t, err)
}

func TestLoadSessionGrammarTimesOut(t *testing.T) {
	fake := newFakeApi(t, standardReplies(nil))

	err := withSession(t, fake, noAudio, func(ctx context.Context, session *Session) error {
		session.ResponseTimeout = 50 * time.Millisecond
		_, err := session.LoadSessionGrammar(ctx, &api.SessionLoadGrammarRequest{})
		assert.ErrorIs(t, err, ErrResponseTimeout)
		return nil
	})

	require.NoError(t, err)
}

func TestRequestResultsAndCancelInteraction(t *testing.T) {
	fake := newFakeApi(t, standardReplies(func(request *api.SessionRequest) []string {
		if request.GetInteractionRequest().GetInteractionRequestResults() != nil {
			return []string{`final_result { interaction_id: "asr-1" }`}
		}
		return nil
	}))

	err := withSession(t, fake, noAudio, func(ctx context.Context, session *Session) error {
		if err := session.RequestResults("asr-1"); err != nil {
			return err
		}
		session.FinishAudio()
		finalResult, err := session.WaitFinalResult(ctx, time.Second)
		if err != nil {
			return err
		}
		assert.Equal(t, "asr-1", finalResult.GetInteractionId())

		return session.CancelInteraction("asr-1")
	})
	require.NoError(t, err)

	var requested, closed string
	for _, request := range fake.requests() {
		interaction := request.GetInteractionRequest()
		if results := interaction.GetInteractionRequestResults(); results != nil {
			requested = results.GetInteractionId()
		}
		if interactionClose := interaction.GetInteractionClose(); interactionClose != nil {
			closed = interactionClose.GetInteractionId()
		}
	}
	assert.Equal(t, "asr-1", requested)
	assert.Equal(t, "asr-1", closed)
}
