package session

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// LoadWavFile reads a 16-bit PCM .wav file and returns its samples as
// little-endian bytes, ready for PushAudio with LINEAR16 format.
func LoadWavFile(wavFilename string) (pcmData []byte, sampleRate int, err error) {

	wavFile, err := os.Open(wavFilename)
	if err != nil {
		return nil, 0, fmt.Errorf("opening .wav file: %w", err)
	}
	defer wavFile.Close()

	decoder := wav.NewDecoder(wavFile)
	if !decoder.IsValidFile() {
		return nil, 0, errors.New("not a valid .wav file: " + wavFilename)
	}
	if decoder.BitDepth != 16 {
		return nil, 0, fmt.Errorf("unsupported bit depth %d, expected 16", decoder.BitDepth)
	}

	buffer, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decoding .wav file: %w", err)
	}

	pcmData = make([]byte, len(buffer.Data)*2)
	for idx, sample := range buffer.Data {
		binary.LittleEndian.PutUint16(pcmData[idx*2:], uint16(int16(sample)))
	}

	return pcmData, int(decoder.SampleRate), nil
}

// SaveWavFile writes 16-bit little-endian mono PCM (as returned by
// PullAllAudio for LINEAR16 synthesis) to a .wav file.
func SaveWavFile(wavFilename string, sampleRate int, pcmData []byte) (err error) {

	if len(pcmData)%2 != 0 {
		return errors.New("16-bit PCM data must have an even length")
	}

	outputWavFile, err := os.Create(wavFilename)
	if err != nil {
		return fmt.Errorf("creating .wav file: %w", err)
	}
	defer func() {
		if closeErr := outputWavFile.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing .wav file: %w", closeErr)
		}
	}()

	buffer := &audio.IntBuffer{
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: 1},
		Data:           twoByteDataToIntSlice(pcmData),
		SourceBitDepth: 16,
	}

	// 1 is the PCM audio format tag
	wavEncoder := wav.NewEncoder(outputWavFile, sampleRate, 16, 1, 1)
	if err = wavEncoder.Write(buffer); err != nil {
		return fmt.Errorf("writing .wav file: %w", err)
	}

	if err = wavEncoder.Close(); err != nil {
		return fmt.Errorf("finishing .wav file: %w", err)
	}

	return nil
}

// twoByteDataToIntSlice converts little-endian 16-bit samples to ints.
func twoByteDataToIntSlice(audioData []byte) (convertedData []int) {

	convertedData = make([]int, len(audioData)/2)
	for i := 0; i+1 < len(audioData); i += 2 {
		convertedData[i/2] = int(int16(binary.LittleEndian.Uint16(audioData[i : i+2])))
	}

	return convertedData
}
