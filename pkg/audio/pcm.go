// Package audio decodes the raw PCM payloads returned by speech synthesis.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
)

const (
	// DefaultSampleRate is the rate of the provider's speech output.
	DefaultSampleRate = 24000
	DefaultChannels   = 1
	bytesPerSample    = 2
	int16Scale        = 32768.0
)

// PCMMIMEType describes the raw speech output at DefaultSampleRate.
const PCMMIMEType = "audio/L16;rate=24000"

// DecodeBase64 decodes a standard base64 audio payload into raw bytes.
func DecodeBase64(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, utils.MarkIfNotNil(model.ErrMalformedAudio, err)
	}
	return data, nil
}

// DecodePCM interprets data as interleaved signed 16-bit little-endian samples
// and returns one normalized slice per channel. Sample i of channel c is read
// from position i*channels+c.
func DecodePCM(data []byte, sampleRate int, channels int) (model.AudioBuffer, error) {
	if channels <= 0 {
		return model.AudioBuffer{}, utils.WrapIfNotNil(fmt.Errorf("%w: channel count must be positive, got %d", model.ErrInvalidInput, channels))
	}
	if sampleRate <= 0 {
		return model.AudioBuffer{}, utils.WrapIfNotNil(fmt.Errorf("%w: sample rate must be positive, got %d", model.ErrInvalidInput, sampleRate))
	}
	if len(data)%bytesPerSample != 0 {
		return model.AudioBuffer{}, utils.WrapIfNotNil(fmt.Errorf("%w: %d bytes is not a whole number of 16-bit samples", model.ErrMalformedAudio, len(data)))
	}

	sampleCount := len(data) / bytesPerSample
	if sampleCount%channels != 0 {
		return model.AudioBuffer{}, utils.WrapIfNotNil(fmt.Errorf("%w: %d samples do not divide into %d channels", model.ErrMalformedAudio, sampleCount, channels))
	}

	frameCount := sampleCount / channels
	channelData := make([][]float32, channels)
	for c := range channelData {
		channelData[c] = make([]float32, frameCount)
	}

	for i := 0; i < frameCount; i++ {
		for c := 0; c < channels; c++ {
			offset := (i*channels + c) * bytesPerSample
			raw := int16(binary.LittleEndian.Uint16(data[offset:]))
			channelData[c][i] = float32(float64(raw) / int16Scale)
		}
	}

	return model.AudioBuffer{
		SampleRate:  sampleRate,
		ChannelData: channelData,
	}, nil
}
