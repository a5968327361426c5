package session

import (
	"github.com/lumenvox/protos-go/lumenvox/api"

	"github.com/google/uuid"
)

// Every builder takes an optional correlationId; an empty one is replaced
// with a fresh UUID.

func correlationIdOrNew(correlationId string) *api.OptionalString {

	if correlationId == "" {
		correlationId = uuid.NewString()
	}

	return &api.OptionalString{Value: correlationId}
}

func sessionMessage(correlationId string, message *api.SessionRequestMessage) *api.SessionRequest {

	return &api.SessionRequest{
		CorrelationId: correlationIdOrNew(correlationId),
		RequestType: &api.SessionRequest_SessionRequest{
			SessionRequest: message,
		},
	}
}

func interactionMessage(correlationId string, message *api.InteractionRequestMessage) *api.SessionRequest {

	return &api.SessionRequest{
		CorrelationId: correlationIdOrNew(correlationId),
		RequestType: &api.SessionRequest_InteractionRequest{
			InteractionRequest: message,
		},
	}
}

func audioMessage(correlationId string, message *api.AudioRequestMessage) *api.SessionRequest {

	return &api.SessionRequest{
		CorrelationId: correlationIdOrNew(correlationId),
		RequestType: &api.SessionRequest_AudioRequest{
			AudioRequest: message,
		},
	}
}

func getSessionCreateRequest(correlationId string, deploymentId string, operatorId string) *api.SessionRequest {

	return sessionMessage(correlationId, &api.SessionRequestMessage{
		Name: &api.SessionRequestMessage_SessionCreate{
			SessionCreate: &api.SessionCreateRequest{
				DeploymentId: deploymentId,
				OperatorId:   operatorId,
			},
		},
	})
}

func getAudioFormatRequest(correlationId string, audioConfig AudioConfig) *api.SessionRequest {

	return sessionMessage(correlationId, &api.SessionRequestMessage{
		Name: &api.SessionRequestMessage_SessionAudioFormat{
			SessionAudioFormat: &api.SessionInboundAudioFormatRequest{
				AudioFormat: &api.AudioFormat{
					StandardAudioFormat: audioConfig.Format,
					SampleRateHertz:     &api.OptionalInt32{Value: int32(audioConfig.SampleRate)},
				},
			},
		},
	})
}

func getSessionCloseRequest(correlationId string) *api.SessionRequest {

	return sessionMessage(correlationId, &api.SessionRequestMessage{
		Name: &api.SessionRequestMessage_SessionClose{
			SessionClose: &api.SessionCloseRequest{},
		},
	})
}

func getAsrRequest(
	correlationId string,
	language string,
	grammars []*api.Grammar,
	grammarSettings *api.GrammarSettings,
	recognitionSettings *api.RecognitionSettings,
	vadSettings *api.VadSettings,
	audioConsumeSettings *api.AudioConsumeSettings,
	generalInteractionSettings *api.GeneralInteractionSettings) *api.SessionRequest {

	return interactionMessage(correlationId, &api.InteractionRequestMessage{
		InteractionRequest: &api.InteractionRequestMessage_InteractionCreateAsr{
			InteractionCreateAsr: &api.InteractionCreateAsrRequest{
				Language:                   language,
				Grammars:                   grammars,
				GrammarSettings:            grammarSettings,
				RecognitionSettings:        recognitionSettings,
				VadSettings:                vadSettings,
				AudioConsumeSettings:       audioConsumeSettings,
				GeneralInteractionSettings: generalInteractionSettings,
			},
		},
	})
}

// TranscriptionOptions carries the optional model selection of a
// transcription interaction. Empty strings leave the API defaults in place.
type TranscriptionOptions struct {
	LanguageModelName    string
	AcousticModelName    string
	EnablePostProcessing string
}

func getTranscriptionRequest(
	correlationId string,
	language string,
	vadSettings *api.VadSettings,
	audioConsumeSettings *api.AudioConsumeSettings,
	normalizationSettings *api.NormalizationSettings,
	recognitionSettings *api.RecognitionSettings,
	options TranscriptionOptions) *api.SessionRequest {

	transcription := &api.InteractionCreateTranscriptionRequest{
		Language:              language,
		VadSettings:           vadSettings,
		AudioConsumeSettings:  audioConsumeSettings,
		NormalizationSettings: normalizationSettings,
		RecognitionSettings:   recognitionSettings,
	}

	if options.LanguageModelName != "" {
		transcription.LanguageModelName = &api.OptionalString{Value: options.LanguageModelName}
	}
	if options.AcousticModelName != "" {
		transcription.AcousticModelName = &api.OptionalString{Value: options.AcousticModelName}
	}
	if options.EnablePostProcessing != "" {
		transcription.EnablePostprocessing = &api.OptionalString{Value: options.EnablePostProcessing}
	}

	return interactionMessage(correlationId, &api.InteractionRequestMessage{
		InteractionRequest: &api.InteractionRequestMessage_InteractionCreateTranscription{
			InteractionCreateTranscription: transcription,
		},
	})
}

func getNormalizationRequest(
	correlationId string,
	language string,
	textToNormalize string,
	normalizationSettings *api.NormalizationSettings,
	generalInteractionSettings *api.GeneralInteractionSettings) *api.SessionRequest {

	return interactionMessage(correlationId, &api.InteractionRequestMessage{
		InteractionRequest: &api.InteractionRequestMessage_InteractionCreateNormalizeText{
			InteractionCreateNormalizeText: &api.InteractionCreateNormalizeTextRequest{
				Language:                   language,
				Transcript:                 textToNormalize,
				NormalizationSettings:      normalizationSettings,
				GeneralInteractionSettings: generalInteractionSettings,
			},
		},
	})
}

func getAmdRequest(
	correlationId string,
	amdSettings *api.AmdSettings,
	audioConsumeSettings *api.AudioConsumeSettings,
	vadSettings *api.VadSettings,
	generalInteractionSettings *api.GeneralInteractionSettings) *api.SessionRequest {

	return interactionMessage(correlationId, &api.InteractionRequestMessage{
		InteractionRequest: &api.InteractionRequestMessage_InteractionCreateAmd{
			InteractionCreateAmd: &api.InteractionCreateAmdRequest{
				AmdSettings:                amdSettings,
				AudioConsumeSettings:       audioConsumeSettings,
				VadSettings:                vadSettings,
				GeneralInteractionSettings: generalInteractionSettings,
			},
		},
	})
}

func getCpaRequest(
	correlationId string,
	cpaSettings *api.CpaSettings,
	audioConsumeSettings *api.AudioConsumeSettings,
	vadSettings *api.VadSettings,
	generalInteractionSettings *api.GeneralInteractionSettings) *api.SessionRequest {

	return interactionMessage(correlationId, &api.InteractionRequestMessage{
		InteractionRequest: &api.InteractionRequestMessage_InteractionCreateCpa{
			InteractionCreateCpa: &api.InteractionCreateCpaRequest{
				CpaSettings:                cpaSettings,
				AudioConsumeSettings:       audioConsumeSettings,
				VadSettings:                vadSettings,
				GeneralInteractionSettings: generalInteractionSettings,
			},
		},
	})
}

func getNluRequest(
	correlationId string,
	language string,
	inputText string,
	nluSettings *api.NluSettings,
	generalInteractionSettings *api.GeneralInteractionSettings) *api.SessionRequest {

	return interactionMessage(correlationId, &api.InteractionRequestMessage{
		InteractionRequest: &api.InteractionRequestMessage_InteractionCreateNlu{
			InteractionCreateNlu: &api.InteractionCreateNluRequest{
				Language:                   language,
				InputText:                  inputText,
				NluSettings:                nluSettings,
				GeneralInteractionSettings: generalInteractionSettings,
			},
		},
	})
}

func getInlineTtsRequest(
	correlationId string,
	language string,
	textToSynthesize string,
	audioFormat *api.AudioFormat,
	synthesisTimeoutMs *api.OptionalInt32,
	inlineSynthesisSettings *api.TtsInlineSynthesisSettings,
	generalInteractionSettings *api.GeneralInteractionSettings) *api.SessionRequest {

	return interactionMessage(correlationId, &api.InteractionRequestMessage{
		InteractionRequest: &api.InteractionRequestMessage_InteractionCreateTts{
			InteractionCreateTts: &api.InteractionCreateTtsRequest{
				Language:                   language,
				AudioFormat:                audioFormat,
				SynthesisTimeoutMs:         synthesisTimeoutMs,
				GeneralInteractionSettings: generalInteractionSettings,
				TtsRequest: &api.InteractionCreateTtsRequest_InlineRequest{
					InlineRequest: &api.InteractionCreateTtsRequest_InlineTtsRequest{
						Text:                       textToSynthesize,
						TtsInlineSynthesisSettings: inlineSynthesisSettings,
					},
				},
			},
		},
	})
}

func getUrlTtsRequest(
	correlationId string,
	language string,
	ssmlUrl string,
	audioFormat *api.AudioFormat,
	synthesisTimeoutMs *api.OptionalInt32,
	sslVerifyPeer *api.OptionalBool,
	generalInteractionSettings *api.GeneralInteractionSettings) *api.SessionRequest {

	return interactionMessage(correlationId, &api.InteractionRequestMessage{
		InteractionRequest: &api.InteractionRequestMessage_InteractionCreateTts{
			InteractionCreateTts: &api.InteractionCreateTtsRequest{
				Language:                   language,
				AudioFormat:                audioFormat,
				SynthesisTimeoutMs:         synthesisTimeoutMs,
				GeneralInteractionSettings: generalInteractionSettings,
				TtsRequest: &api.InteractionCreateTtsRequest_SsmlRequest{
					SsmlRequest: &api.InteractionCreateTtsRequest_SsmlUrlRequest{
						SsmlUrl:       ssmlUrl,
						SslVerifyPeer: sslVerifyPeer,
					},
				},
			},
		},
	})
}

func getGrammarParseRequest(
	correlationId string,
	language string,
	inputText string,
	grammars []*api.Grammar,
	grammarSettings *api.GrammarSettings,
	parseTimeoutMs *api.OptionalInt32,
	generalInteractionSettings *api.GeneralInteractionSettings) *api.SessionRequest {

	return interactionMessage(correlationId, &api.InteractionRequestMessage{
		InteractionRequest: &api.InteractionRequestMessage_InteractionCreateGrammarParse{
			InteractionCreateGrammarParse: &api.InteractionCreateGrammarParseRequest{
				Language:                   language,
				Grammars:                   grammars,
				GrammarSettings:            grammarSettings,
				InputText:                  inputText,
				ParseTimeoutMs:             parseTimeoutMs,
				GeneralInteractionSettings: generalInteractionSettings,
			},
		},
	})
}

func getDiarizationRequest(correlationId string,
	request *api.InteractionCreateDiarizationRequest) *api.SessionRequest {

	return interactionMessage(correlationId, &api.InteractionRequestMessage{
		InteractionRequest: &api.InteractionRequestMessage_InteractionCreateDiarization{
			InteractionCreateDiarization: request,
		},
	})
}

func getLanguageIdRequest(correlationId string,
	request *api.InteractionCreateLanguageIdRequest) *api.SessionRequest {

	return interactionMessage(correlationId, &api.InteractionRequestMessage{
		InteractionRequest: &api.InteractionRequestMessage_InteractionCreateLanguageId{
			InteractionCreateLanguageId: request,
		},
	})
}

func getSessionLoadGrammarRequest(correlationId string, request *api.SessionLoadGrammarRequest) *api.SessionRequest {

	return sessionMessage(correlationId, &api.SessionRequestMessage{
		Name: &api.SessionRequestMessage_SessionLoadGrammar{
			SessionLoadGrammar: request,
		},
	})
}

func getInteractionRequestResultsRequest(correlationId string, interactionId string) *api.SessionRequest {

	return interactionMessage(correlationId, &api.InteractionRequestMessage{
		InteractionRequest: &api.InteractionRequestMessage_InteractionRequestResults{
			InteractionRequestResults: &api.InteractionRequestResultsRequest{
				InteractionId: interactionId,
			},
		},
	})
}

func getInteractionBeginProcessingRequest(correlationId string, interactionId string) *api.SessionRequest {

	return interactionMessage(correlationId, &api.InteractionRequestMessage{
		InteractionRequest: &api.InteractionRequestMessage_InteractionBeginProcessing{
			InteractionBeginProcessing: &api.InteractionBeginProcessingRequest{
				InteractionId: interactionId,
			},
		},
	})
}

func getInteractionFinalizeRequest(correlationId string, interactionId string) *api.SessionRequest {

	return interactionMessage(correlationId, &api.InteractionRequestMessage{
		InteractionRequest: &api.InteractionRequestMessage_InteractionFinalizeProcessing{
			InteractionFinalizeProcessing: &api.InteractionFinalizeProcessingRequest{
				InteractionId: interactionId,
			},
		},
	})
}

func getInteractionCloseRequest(correlationId string, interactionId string) *api.SessionRequest {

	return interactionMessage(correlationId, &api.InteractionRequestMessage{
		InteractionRequest: &api.InteractionRequestMessage_InteractionClose{
			InteractionClose: &api.InteractionCloseRequest{
				InteractionId: interactionId,
			},
		},
	})
}

func getAudioPushRequest(correlationId string, audioChunk []byte) *api.SessionRequest {

	return audioMessage(correlationId, &api.AudioRequestMessage{
		AudioRequest: &api.AudioRequestMessage_AudioPush{
			AudioPush: &api.AudioPushRequest{
				AudioData: audioChunk,
			},
		},
	})
}

// AudioPullOptions narrows an audio pull. Zero values mean channel 0, from
// the start, all available audio.
type AudioPullOptions struct {
	AudioChannel  int32
	AudioStartMs  int32
	AudioLengthMs int32
}

func getAudioPullRequest(correlationId string, audioId string, options AudioPullOptions) *api.SessionRequest {

	pull := &api.AudioPullRequest{
		AudioId: audioId,
	}

	if options.AudioChannel != 0 {
		pull.AudioChannel = &api.OptionalInt32{Value: options.AudioChannel}
	}
	if options.AudioStartMs != 0 {
		pull.AudioStart = &api.OptionalInt32{Value: options.AudioStartMs}
	}
	if options.AudioLengthMs != 0 {
		pull.AudioLength = &api.OptionalInt32{Value: options.AudioLengthMs}
	}

	return audioMessage(correlationId, &api.AudioRequestMessage{
		AudioRequest: &api.AudioRequestMessage_AudioPull{
			AudioPull: pull,
		},
	})
}
