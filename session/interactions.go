package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lumenvox/protos-go/lumenvox/api"
)

// createdId extracts the interaction ID from the matching create response.
type createdId func(response *api.SessionResponse) (interactionId string, ok bool)

// createInteraction sends an interaction create request and waits for the
// API to answer with the new interaction ID.
func (session *Session) createInteraction(ctx context.Context, interactionType string,
	request *api.SessionRequest, extract createdId) (interactionId string, err error) {

	ctx, span := tracer.Start(ctx, "interaction create "+interactionType,
		traceAttributes(session.SessionId))
	defer span.End()

	logger := getLogger().With(
		"sessionId", session.SessionId,
		"interactionType", interactionType)

	response, err := session.exchange(ctx, request, session.ResponseTimeout, func(response *api.SessionResponse) bool {
		_, ok := extract(response)
		return ok
	})
	var sendErr *sendError
	if errors.As(err, &sendErr) {
		logger.Error("sending interaction create",
			"error", sendErr.err)
		return "", fmt.Errorf("sending %s interaction create: %w", interactionType, sendErr.err)
	}
	if err != nil {
		logger.Error("no interaction create response",
			"error", err)
		return "", fmt.Errorf("waiting for %s interaction: %w", interactionType, err)
	}

	interactionId, _ = extract(response)
	if enableVerboseLogging {
		logger.Debug("created interaction",
			"interactionId", interactionId)
	}

	return interactionId, nil
}

// createAudioInteraction is createInteraction for interactions that consume
// pushed audio. AudioComplete is cleared first so that a new audio cycle
// starts with the interaction.
func (session *Session) createAudioInteraction(ctx context.Context, interactionType string,
	request *api.SessionRequest, extract createdId) (interactionId string, err error) {

	if events := session.Events(); events != nil {
		events.AudioComplete.Clear()
	}

	return session.createInteraction(ctx, interactionType, request, extract)
}

// NewAsr creates an ASR interaction and returns its ID.
func (session *Session) NewAsr(ctx context.Context,
	language string,
	grammars []*api.Grammar,
	grammarSettings *api.GrammarSettings,
	recognitionSettings *api.RecognitionSettings,
	vadSettings *api.VadSettings,
	audioConsumeSettings *api.AudioConsumeSettings,
	generalInteractionSettings *api.GeneralInteractionSettings) (interactionId string, err error) {

	request := getAsrRequest("", language, grammars, grammarSettings, recognitionSettings, vadSettings,
		audioConsumeSettings, generalInteractionSettings)

	return session.createAudioInteraction(ctx, "asr", request, func(response *api.SessionResponse) (string, bool) {
		created := response.GetInteractionCreateAsr()
		return created.GetInteractionId(), created != nil
	})
}

// NewTranscription creates a transcription interaction and returns its ID.
func (session *Session) NewTranscription(ctx context.Context,
	language string,
	vadSettings *api.VadSettings,
	audioConsumeSettings *api.AudioConsumeSettings,
	normalizationSettings *api.NormalizationSettings,
	recognitionSettings *api.RecognitionSettings,
	options TranscriptionOptions) (interactionId string, err error) {

	request := getTranscriptionRequest("", language, vadSettings, audioConsumeSettings, normalizationSettings,
		recognitionSettings, options)

	return session.createAudioInteraction(ctx, "transcription", request, func(response *api.SessionResponse) (string, bool) {
		created := response.GetInteractionCreateTranscription()
		return created.GetInteractionId(), created != nil
	})
}

// NewNormalizeText creates a text normalization interaction. No audio is
// involved; the final result arrives on its own.
func (session *Session) NewNormalizeText(ctx context.Context,
	language string,
	textToNormalize string,
	normalizationSettings *api.NormalizationSettings,
	generalInteractionSettings *api.GeneralInteractionSettings) (interactionId string, err error) {

	request := getNormalizationRequest("", language, textToNormalize, normalizationSettings,
		generalInteractionSettings)

	return session.createInteraction(ctx, "normalize_text", request, func(response *api.SessionResponse) (string, bool) {
		created := response.GetInteractionCreateNormalizeText()
		return created.GetInteractionId(), created != nil
	})
}

func (session *Session) NewAmd(ctx context.Context,
	amdSettings *api.AmdSettings,
	audioConsumeSettings *api.AudioConsumeSettings,
	vadSettings *api.VadSettings,
	generalInteractionSettings *api.GeneralInteractionSettings) (interactionId string, err error) {

	request := getAmdRequest("", amdSettings, audioConsumeSettings, vadSettings, generalInteractionSettings)

	return session.createAudioInteraction(ctx, "amd", request, func(response *api.SessionResponse) (string, bool) {
		created := response.GetInteractionCreateAmd()
		return created.GetInteractionId(), created != nil
	})
}

func (session *Session) NewCpa(ctx context.Context,
	cpaSettings *api.CpaSettings,
	audioConsumeSettings *api.AudioConsumeSettings,
	vadSettings *api.VadSettings,
	generalInteractionSettings *api.GeneralInteractionSettings) (interactionId string, err error) {

	request := getCpaRequest("", cpaSettings, audioConsumeSettings, vadSettings, generalInteractionSettings)

	return session.createAudioInteraction(ctx, "cpa", request, func(response *api.SessionResponse) (string, bool) {
		created := response.GetInteractionCreateCpa()
		return created.GetInteractionId(), created != nil
	})
}

func (session *Session) NewNlu(ctx context.Context,
	language string,
	inputText string,
	nluSettings *api.NluSettings,
	generalInteractionSettings *api.GeneralInteractionSettings) (interactionId string, err error) {

	request := getNluRequest("", language, inputText, nluSettings, generalInteractionSettings)

	return session.createInteraction(ctx, "nlu", request, func(response *api.SessionResponse) (string, bool) {
		created := response.GetInteractionCreateNlu()
		return created.GetInteractionId(), created != nil
	})
}

// NewInlineTts creates a TTS interaction from inline text. The synthesized
// audio can be fetched with PullAllAudio using the interaction ID.
func (session *Session) NewInlineTts(ctx context.Context,
	language string,
	textToSynthesize string,
	audioFormat *api.AudioFormat,
	synthesisTimeoutMs *api.OptionalInt32,
	inlineSynthesisSettings *api.TtsInlineSynthesisSettings,
	generalInteractionSettings *api.GeneralInteractionSettings) (interactionId string, err error) {

	request := getInlineTtsRequest("", language, textToSynthesize, audioFormat, synthesisTimeoutMs,
		inlineSynthesisSettings, generalInteractionSettings)

	return session.createInteraction(ctx, "tts", request, ttsCreated)
}

// NewUrlTts creates a TTS interaction from an SSML document at ssmlUrl.
func (session *Session) NewUrlTts(ctx context.Context,
	language string,
	ssmlUrl string,
	audioFormat *api.AudioFormat,
	synthesisTimeoutMs *api.OptionalInt32,
	sslVerifyPeer *api.OptionalBool,
	generalInteractionSettings *api.GeneralInteractionSettings) (interactionId string, err error) {

	request := getUrlTtsRequest("", language, ssmlUrl, audioFormat, synthesisTimeoutMs, sslVerifyPeer,
		generalInteractionSettings)

	return session.createInteraction(ctx, "tts", request, ttsCreated)
}

func ttsCreated(response *api.SessionResponse) (string, bool) {

	created := response.GetInteractionCreateTts()
	return created.GetInteractionId(), created != nil
}

// NewGrammarParse creates an interaction that parses inputText against the
// given grammars. The parse arrives as a final result.
func (session *Session) NewGrammarParse(ctx context.Context,
	language string,
	inputText string,
	grammars []*api.Grammar,
	grammarSettings *api.GrammarSettings,
	parseTimeoutMs *api.OptionalInt32,
	generalInteractionSettings *api.GeneralInteractionSettings) (interactionId string, err error) {

	request := getGrammarParseRequest("", language, inputText, grammars, grammarSettings, parseTimeoutMs,
		generalInteractionSettings)

	return session.createInteraction(ctx, "grammar_parse", request, func(response *api.SessionResponse) (string, bool) {
		created := response.GetInteractionCreateGrammarParse()
		return created.GetInteractionId(), created != nil
	})
}

// NewDiarization creates a diarization interaction over the pushed audio.
func (session *Session) NewDiarization(ctx context.Context,
	diarization *api.InteractionCreateDiarizationRequest) (interactionId string, err error) {

	return session.createAudioInteraction(ctx, "diarization", getDiarizationRequest("", diarization),
		func(response *api.SessionResponse) (string, bool) {
			created := response.GetInteractionCreateDiarization()
			return created.GetInteractionId(), created != nil
		})
}

// NewLanguageId creates a language identification interaction over the
// pushed audio.
func (session *Session) NewLanguageId(ctx context.Context,
	languageId *api.InteractionCreateLanguageIdRequest) (interactionId string, err error) {

	return session.createAudioInteraction(ctx, "language_id", getLanguageIdRequest("", languageId),
		func(response *api.SessionResponse) (string, bool) {
			created := response.GetInteractionCreateLanguageId()
			return created.GetInteractionId(), created != nil
		})
}

// LoadSessionGrammar loads a grammar that later interactions of this session
// can reference by its label, and returns the API's answer.
func (session *Session) LoadSessionGrammar(ctx context.Context,
	loadGrammar *api.SessionLoadGrammarRequest) (*api.SessionLoadGrammarResponse, error) {

	ctx, span := tracer.Start(ctx, "session load grammar",
		traceAttributes(session.SessionId))
	defer span.End()

	response, err := session.exchange(ctx, getSessionLoadGrammarRequest("", loadGrammar), session.ResponseTimeout,
		func(response *api.SessionResponse) bool {
			return response.GetSessionGrammar() != nil
		})
	var sendErr *sendError
	if errors.As(err, &sendErr) {
		return nil, fmt.Errorf("sending session load grammar: %w", sendErr.err)
	}
	if err != nil {
		getLogger().Error("no session load grammar response",
			"sessionId", session.SessionId,
			"error", err)
		return nil, fmt.Errorf("waiting for session grammar: %w", err)
	}

	return response.GetSessionGrammar(), nil
}

// BeginProcessing starts processing on an interaction that was created with
// deferred processing.
func (session *Session) BeginProcessing(interactionId string) error {

	if err := session.SessionStream.Send(getInteractionBeginProcessingRequest("", interactionId)); err != nil {
		return fmt.Errorf("sending begin processing: %w", err)
	}

	return nil
}

// Finalize asks the API to stop waiting for audio and produce the final
// result of an interaction.
func (session *Session) Finalize(interactionId string) error {

	if err := session.SessionStream.Send(getInteractionFinalizeRequest("", interactionId)); err != nil {
		return fmt.Errorf("sending finalize processing: %w", err)
	}

	return nil
}

// RequestResults asks the API to send the current results of an interaction
// again. They arrive as a final result.
func (session *Session) RequestResults(interactionId string) error {

	if err := session.SessionStream.Send(getInteractionRequestResultsRequest("", interactionId)); err != nil {
		return fmt.Errorf("sending request results: %w", err)
	}

	return nil
}

// CancelInteraction abandons an interaction before its final result. The
// session API has no cancel message, so the interaction is closed; a final
// result that is already queued stays queued.
func (session *Session) CancelInteraction(interactionId string) error {

	if enableVerboseLogging {
		getLogger().Debug("cancelling interaction",
			"sessionId", session.SessionId,
			"interactionId", interactionId)
	}

	return session.CloseInteraction(interactionId)
}

func (session *Session) CloseInteraction(interactionId string) error {

	if err := session.SessionStream.Send(getInteractionCloseRequest("", interactionId)); err != nil {
		return fmt.Errorf("sending interaction close: %w", err)
	}

	return nil
}

// PullAllAudio repeats audio pull requests for audioId until the API marks a
// chunk as the last one, and returns the concatenated audio. For TTS the
// audio ID is the interaction ID.
func (session *Session) PullAllAudio(ctx context.Context, audioId string, options AudioPullOptions) (
	audioData []byte, err error) {

	ctx, span := tracer.Start(ctx, "audio pull",
		traceAttributes(session.SessionId))
	defer span.End()

	for {
		response, err := session.exchange(ctx, getAudioPullRequest("", audioId, options), session.ResponseTimeout,
			func(response *api.SessionResponse) bool {
				return response.GetAudioPull() != nil
			})
		var sendErr *sendError
		if errors.As(err, &sendErr) {
			return nil, fmt.Errorf("sending audio pull: %w", sendErr.err)
		}
		if err != nil {
			return nil, fmt.Errorf("waiting for audio pull: %w", err)
		}

		audioData = append(audioData, response.GetAudioPull().GetAudioData()...)
		if response.GetAudioPull().GetFinalDataChunk() {
			break
		}
	}

	if enableVerboseLogging {
		getLogger().Debug("pulled audio",
			"sessionId", session.SessionId,
			"audioId", audioId,
			"bytes", len(audioData))
	}

	return audioData, nil
}

// WaitFinalResult polls for the final result while audio is still being
// pushed (AudioComplete not set), each poll waiting up to wait. Once audio is
// complete one last poll is made. It returns ErrResponseTimeout when no
// final result arrived. A non-positive wait uses ResponseTimeout.
func (session *Session) WaitFinalResult(ctx context.Context, wait time.Duration) (*api.FinalResult, error) {

	if wait <= 0 {
		wait = session.ResponseTimeout
	}

	events := session.Events()
	if events == nil {
		return nil, ErrNoSession
	}

	for !events.AudioComplete.IsSet() {
		if finalResult, ok := session.takeFinalResult(ctx, wait); ok {
			return finalResult, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !session.dispatcher.Registered(session.SessionStream) {
			return nil, ErrNoSession
		}
	}

	if finalResult, ok := session.takeFinalResult(ctx, wait); ok {
		return finalResult, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return nil, ErrResponseTimeout
}

func (session *Session) takeFinalResult(ctx context.Context, wait time.Duration) (*api.FinalResult, bool) {

	response, ok := session.dispatcher.TakeFinalResult(ctx, session.SessionStream, wait)
	if !ok {
		return nil, false
	}

	finalResult, ok := response.Payload.(*api.FinalResult)

	return finalResult, ok
}

// NextPartialResult waits up to wait for the next partial result.
func (session *Session) NextPartialResult(ctx context.Context, wait time.Duration) (*api.PartialResult, error) {

	response, ok := session.dispatcher.TakePartialResult(ctx, session.SessionStream, wait)
	if !ok {
		return nil, errOrTimeout(ctx)
	}

	partialResult, ok := response.Payload.(*api.PartialResult)
	if !ok {
		return nil, errors.New("partial result queue held an unexpected payload")
	}

	return partialResult, nil
}

// NextVadEvent waits up to wait for the next VAD event.
func (session *Session) NextVadEvent(ctx context.Context, wait time.Duration) (*api.VadEvent, error) {

	response, ok := session.dispatcher.TakeVadEvent(ctx, session.SessionStream, wait)
	if !ok {
		return nil, errOrTimeout(ctx)
	}

	vadEvent, ok := response.Payload.(*api.VadEvent)
	if !ok {
		return nil, errors.New("vad event queue held an unexpected payload")
	}

	return vadEvent, nil
}

func errOrTimeout(ctx context.Context) error {

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return ErrResponseTimeout
}
