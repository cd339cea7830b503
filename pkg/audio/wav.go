package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
)

const wavHeaderSize = 44

// EncodeWAV wraps raw 16-bit PCM in a RIFF/WAVE container.
func EncodeWAV(w io.Writer, pcm []byte, sampleRate int, channels int) error {
	if channels <= 0 || sampleRate <= 0 {
		return utils.WrapIfNotNil(fmt.Errorf("%w: sample rate %d, channels %d", model.ErrInvalidInput, sampleRate, channels))
	}
	if len(pcm)%(bytesPerSample*channels) != 0 {
		return utils.WrapIfNotNil(fmt.Errorf("%w: %d bytes is not a whole number of frames", model.ErrMalformedAudio, len(pcm)))
	}

	blockAlign := channels * bytesPerSample
	header := struct {
		ChunkID       [4]byte
		ChunkSize     uint32
		Format        [4]byte
		Subchunk1ID   [4]byte
		Subchunk1Size uint32
		AudioFormat   uint16
		NumChannels   uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
		Subchunk2ID   [4]byte
		Subchunk2Size uint32
	}{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(wavHeaderSize - 8 + len(pcm)),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * blockAlign),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(len(pcm)),
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		return utils.WrapIfNotNil(err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return utils.WrapIfNotNil(err)
	}
	if _, err := w.Write(pcm); err != nil {
		return utils.WrapIfNotNil(err)
	}
	return nil
}
