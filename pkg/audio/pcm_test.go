package audio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/compustack/aether/pkg/model"
	"github.com/stretchr/testify/suite"
)

type PCMSuite struct {
	suite.Suite
}

func TestPCMSuite(t *testing.T) {
	suite.Run(t, new(PCMSuite))
}

func (s *PCMSuite) TestDecodeTwoMonoFrames() {
	buf, err := DecodePCM([]byte{0x00, 0x40, 0x00, 0xC0}, 24000, 1)
	s.Require().NoError(err)

	s.Equal(24000, buf.SampleRate)
	s.Require().Equal(1, buf.NumberOfChannels())
	s.Require().Equal(2, buf.Length())
	s.InDelta(0.5, buf.ChannelData[0][0], 1e-9)
	s.InDelta(-0.5, buf.ChannelData[0][1], 1e-9)
}

func (s *PCMSuite) TestDecodeOddByteLengthIsMalformed() {
	_, err := DecodePCM([]byte{0x00, 0x40, 0x00}, 24000, 1)
	s.Require().Error(err)
	s.ErrorIs(err, model.ErrMalformedAudio)
}

func (s *PCMSuite) TestDecodeSamplesNotDivisibleByChannelsIsMalformed() {
	_, err := DecodePCM([]byte{0x00, 0x40, 0x00, 0xC0, 0x00, 0x00}, 24000, 2)
	s.Require().Error(err)
	s.ErrorIs(err, model.ErrMalformedAudio)
}

func (s *PCMSuite) TestDecodeDeinterleavesStereo() {
	// frame 0: L=16384 R=-32768, frame 1: L=0 R=32767
	raw := []byte{0x00, 0x40, 0x00, 0x80, 0x00, 0x00, 0xFF, 0x7F}
	buf, err := DecodePCM(raw, 48000, 2)
	s.Require().NoError(err)

	s.Equal(2, buf.Length())
	s.InDelta(0.5, buf.ChannelData[0][0], 1e-9)
	s.InDelta(0.0, buf.ChannelData[0][1], 1e-9)
	s.InDelta(-1.0, buf.ChannelData[1][0], 1e-9)
	s.InDelta(32767.0/32768.0, buf.ChannelData[1][1], 1e-6)
}

func (s *PCMSuite) TestSampleCountMatchesByteLength() {
	raw := make([]byte, 4800)
	buf, err := DecodePCM(raw, DefaultSampleRate, 2)
	s.Require().NoError(err)
	s.Equal(len(raw)/(2*2), buf.Length())
}

func (s *PCMSuite) TestDecodeEmptyBuffer() {
	buf, err := DecodePCM(nil, DefaultSampleRate, DefaultChannels)
	s.Require().NoError(err)
	s.Equal(0, buf.Length())
}

func (s *PCMSuite) TestDecodeRejectsNonPositiveChannels() {
	_, err := DecodePCM([]byte{0, 0}, 24000, 0)
	s.ErrorIs(err, model.ErrInvalidInput)
}

func (s *PCMSuite) TestDecodeBase64() {
	data, err := DecodeBase64("AEAAwA==")
	s.Require().NoError(err)
	s.Equal([]byte{0x00, 0x40, 0x00, 0xC0}, data)

	_, err = DecodeBase64("not base64!")
	s.ErrorIs(err, model.ErrMalformedAudio)
}

func (s *PCMSuite) TestEncodeWAVHeader() {
	pcm := []byte{0x00, 0x40, 0x00, 0xC0}
	var out bytes.Buffer
	s.Require().NoError(EncodeWAV(&out, pcm, 24000, 1))

	b := out.Bytes()
	s.Require().Len(b, wavHeaderSize+len(pcm))
	s.Equal("RIFF", string(b[0:4]))
	s.Equal("WAVE", string(b[8:12]))
	s.Equal(uint32(36+len(pcm)), binary.LittleEndian.Uint32(b[4:8]))
	s.Equal(uint16(1), binary.LittleEndian.Uint16(b[22:24]))
	s.Equal(uint32(24000), binary.LittleEndian.Uint32(b[24:28]))
	s.Equal(uint32(48000), binary.LittleEndian.Uint32(b[28:32]))
	s.Equal("data", string(b[36:40]))
	s.Equal(pcm, b[wavHeaderSize:])
}

func (s *PCMSuite) TestEncodeWAVRejectsPartialFrame() {
	var out bytes.Buffer
	err := EncodeWAV(&out, []byte{0x00, 0x40, 0x00}, 24000, 1)
	s.ErrorIs(err, model.ErrMalformedAudio)
	s.Zero(out.Len())
}
