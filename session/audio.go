package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lumenvox/protos-go/lumenvox/api"
)

var (
	defaultBatchChunkSize       = 10000
	defaultBatchChunkDelayMs    = 25
	defaultStreamingChunkSizeMs = 20
)

// AudioConfig contains the configuration for audio pushed to the API: the
// audio format, sample rate, and batch or real-time pacing.
type AudioConfig struct {
	Format     api.AudioFormat_StandardAudioFormat
	SampleRate int

	IsBatch bool

	BatchChunkSize    int // chunk size (bytes) for batch audio
	BatchChunkDelayMs int // inter-chunk delay (ms) for batch audio

	// parameters for streaming audio push
	StreamingChunkSizeMs int // chunk size (ms) for streaming audio
}

// chunking returns the chunk size in bytes and the delay between chunks.
// Batch audio uses fixed sizes; streaming audio is paced in real time.
func (audioConfig AudioConfig) chunking() (chunkSize int, chunkDelay time.Duration, err error) {

	if audioConfig.IsBatch {
		chunkSize = audioConfig.BatchChunkSize
		if chunkSize <= 0 {
			chunkSize = defaultBatchChunkSize
		}
		chunkDelayMs := audioConfig.BatchChunkDelayMs
		if chunkDelayMs <= 0 {
			chunkDelayMs = defaultBatchChunkDelayMs
		}
		return chunkSize, time.Duration(chunkDelayMs) * time.Millisecond, nil
	}

	chunkSizeMs := audioConfig.StreamingChunkSizeMs
	if chunkSizeMs <= 0 {
		chunkSizeMs = defaultStreamingChunkSizeMs
	}

	if audioConfig.SampleRate <= 0 {
		return 0, 0, errors.New("invalid sample rate")
	}

	samplesPerChunk := audioConfig.SampleRate * chunkSizeMs / 1000
	switch audioConfig.Format {
	case api.AudioFormat_STANDARD_AUDIO_FORMAT_LINEAR16:
		chunkSize = samplesPerChunk * 2
	case api.AudioFormat_STANDARD_AUDIO_FORMAT_ULAW, api.AudioFormat_STANDARD_AUDIO_FORMAT_ALAW:
		chunkSize = samplesPerChunk
	case api.AudioFormat_STANDARD_AUDIO_FORMAT_NO_AUDIO_RESOURCE:
		return 0, 0, errors.New("invalid format NO_AUDIO_RESOURCE")
	default:
		return 0, 0, fmt.Errorf("unsupported audio format %s", audioConfig.Format)
	}

	if chunkSize == 0 {
		return 0, 0, errors.New("audio chunk size rounds to zero")
	}

	return chunkSize, time.Duration(chunkSizeMs) * time.Millisecond, nil
}

// PushAudio sends all of the audio for the current interaction and then
// marks it complete. The AudioComplete event is set on every exit path so
// result waiters stop polling. Use AddAudio and FinishAudio when the audio
// arrives in pieces.
func (session *Session) PushAudio(ctx context.Context, audioData []byte) error {

	defer session.FinishAudio()

	return session.AddAudio(ctx, audioData)
}

// AddAudio sends audioData into the session in chunks, blocking until all of
// it has been sent or ctx ends. It may be called any number of times per
// interaction; AudioComplete is left untouched.
func (session *Session) AddAudio(ctx context.Context, audioData []byte) (err error) {

	chunkSize, chunkDelay, err := session.audioConfig.chunking()
	if err != nil {
		return err
	}

	ticker := time.NewTicker(chunkDelay)
	defer ticker.Stop()

	chunks := 0
	for offset := 0; offset < len(audioData); offset += chunkSize {
		if offset > 0 {
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		end := min(offset+chunkSize, len(audioData))
		if err = session.SessionStream.Send(getAudioPushRequest("", audioData[offset:end])); err != nil {
			getLogger().Error("sending audio to API",
				"sessionId", session.SessionId,
				"error", err)
			return fmt.Errorf("sending audio push: %w", err)
		}
		chunks++
	}

	if enableVerboseLogging {
		getLogger().Debug("audio added",
			"sessionId", session.SessionId,
			"bytes", len(audioData),
			"chunks", chunks)
	}

	return nil
}

// FinishAudio marks the audio of the current interaction as complete. The
// event is cleared again when the next audio interaction is created.
func (session *Session) FinishAudio() {

	if events := session.Events(); events != nil {
		events.AudioComplete.Set()
	}
}
