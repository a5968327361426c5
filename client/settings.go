package client

import (
	"errors"

	"github.com/lumenvox/protos-go/lumenvox/api"
)

// optionalBool returns nil for false, so that the API default applies.
func optionalBool(enabled bool) *api.OptionalBool {

	if !enabled {
		return nil
	}

	return &api.OptionalBool{Value: true}
}

// GetAudioConsumeSettings returns an api.AudioConsumeSettings object, populated
// with the specified parameters.
func (client *SdkClient) GetAudioConsumeSettings(audioChannel int32,
	audioConsumeMode api.AudioConsumeSettings_AudioConsumeMode,
	streamStartLocation api.AudioConsumeSettings_StreamStartLocation,
	startOffsetMs *api.OptionalInt32,
	audioConsumeMaxMs *api.OptionalInt32) (audioConsumeSettings *api.AudioConsumeSettings, err error) {

	if audioChannel < 0 {
		return nil, errors.New("audioChannel value must be valid")
	}

	audioConsumeSettings = &api.AudioConsumeSettings{
		AudioChannel:        &api.OptionalInt32{Value: audioChannel},
		AudioConsumeMode:    audioConsumeMode,
		StreamStartLocation: streamStartLocation,
		StartOffsetMs:       startOffsetMs,
		AudioConsumeMaxMs:   audioConsumeMaxMs,
	}

	return audioConsumeSettings, nil
}

// GetNormalizationSettings returns an api.NormalizationSettings object.
// Disabled options are left unset.
func (client *SdkClient) GetNormalizationSettings(enableInverseText bool, enablePunctuationCapitalization bool,
	enableRedaction bool, requestTimeoutMs *api.OptionalInt32) (normalizationSettings *api.NormalizationSettings) {

	return &api.NormalizationSettings{
		EnableInverseText:               optionalBool(enableInverseText),
		EnablePunctuationCapitalization: optionalBool(enablePunctuationCapitalization),
		EnableRedaction:                 optionalBool(enableRedaction),
		RequestTimeoutMs:                requestTimeoutMs,
	}
}

// GetVadSettings returns an api.VadSettings object, populated with the
// specified parameters.
func (client *SdkClient) GetVadSettings(useVad bool, bargeInTimeout int32, eosDelay int32,
	endOfSpeechTimeoutMs *api.OptionalInt32,
	noiseReductionMode api.VadSettings_NoiseReductionMode,
	bargeInThreshold *api.OptionalInt32,
	snrSensitivity *api.OptionalInt32,
	streamInitDelay *api.OptionalInt32,
	volumeSensitivity *api.OptionalInt32,
	windBackMs *api.OptionalInt32,
) (vadSettings *api.VadSettings) {

	vadSettings = &api.VadSettings{
		UseVad:               &api.OptionalBool{Value: useVad},
		BargeInTimeoutMs:     &api.OptionalInt32{Value: bargeInTimeout},
		EndOfSpeechTimeoutMs: endOfSpeechTimeoutMs,
		NoiseReductionMode:   noiseReductionMode,
		BargeinThreshold:     bargeInThreshold,
		EosDelayMs:           &api.OptionalInt32{Value: eosDelay},
		SnrSensitivity:       snrSensitivity,
		StreamInitDelay:      streamInitDelay,
		VolumeSensitivity:    volumeSensitivity,
		WindBackMs:           windBackMs,
	}

	return vadSettings
}

// GetRecognitionSettings returns an api.RecognitionSettings object, populated
// with the specified parameters.
func (client *SdkClient) GetRecognitionSettings(decodeTimeout int32, enablePartialResults bool,
	maxAlternatives *api.OptionalInt32,
	trimSilence *api.OptionalInt32,
	confidenceThreshold *api.OptionalInt32,
) (recognitionSettings *api.RecognitionSettings) {

	recognitionSettings = &api.RecognitionSettings{
		MaxAlternatives:      maxAlternatives,
		TrimSilenceValue:     trimSilence,
		EnablePartialResults: &api.OptionalBool{Value: enablePartialResults},
		ConfidenceThreshold:  confidenceThreshold,
		DecodeTimeout:        &api.OptionalInt32{Value: decodeTimeout},
	}

	return recognitionSettings
}

// GetTtsInlineSynthesisSettings returns an api.TtsInlineSynthesisSettings
// object. Empty strings leave the corresponding setting unset. The voice
// gender is only used when no voice name is given.
func (client *SdkClient) GetTtsInlineSynthesisSettings(
	voiceName string,
	voiceGender string,
	voiceEmphasis string,
	voicePitch string,
	voiceRate string,
	voiceVolume string,
) (inlineSettings *api.TtsInlineSynthesisSettings) {

	inlineSettings = &api.TtsInlineSynthesisSettings{
		Voice:              optionalString(voiceName),
		SynthEmphasisLevel: optionalString(voiceEmphasis),
		SynthProsodyPitch:  optionalString(voicePitch),
		SynthProsodyRate:   optionalString(voiceRate),
		SynthProsodyVolume: optionalString(voiceVolume),
	}

	if voiceName == "" {
		switch voiceGender {
		case "", "neutral":
		case "male", "female":
			inlineSettings.SynthVoiceGender = &api.OptionalString{Value: voiceGender}
		default:
			// unsupported values are ignored
			getLogger().Warn("invalid voiceGender, should be neutral, male or female",
				"voiceGender", voiceGender)
		}
	}

	return inlineSettings
}

func optionalString(value string) *api.OptionalString {

	if value == "" {
		return nil
	}

	return &api.OptionalString{Value: value}
}

// GetLinear16AudioFormat returns an api.AudioFormat for 16-bit PCM at the
// given sample rate, as used for synthesized audio.
func (client *SdkClient) GetLinear16AudioFormat(sampleRateHertz int32) *api.AudioFormat {

	return &api.AudioFormat{
		StandardAudioFormat: api.AudioFormat_STANDARD_AUDIO_FORMAT_LINEAR16,
		SampleRateHertz:     &api.OptionalInt32{Value: sampleRateHertz},
	}
}
