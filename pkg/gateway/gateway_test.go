package gateway

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/compustack/aether/pkg/artifact"
	"github.com/compustack/aether/pkg/logging"
	"github.com/compustack/aether/pkg/model"
	"github.com/stretchr/testify/suite"
)

type GatewaySuite struct {
	suite.Suite
	provider *fakeProvider
	gallery  *artifact.Gallery
	gw       *Gateway
}

func TestGatewaySuite(t *testing.T) {
	suite.Run(t, new(GatewaySuite))
}

func (s *GatewaySuite) SetupTest() {
	s.provider = &fakeProvider{}
	s.gallery = artifact.NewGallery()
	s.gw = New(s.provider,
		WithGallery(s.gallery),
		WithVideoPollInterval(time.Millisecond),
		WithStatusInterval(time.Millisecond),
	)
}

func (s *GatewaySuite) TestGenerateImageReturnsDataURI() {
	s.provider.imageResp = inlineResponse("QUJD")

	uri, err := s.gw.GenerateImage(context.Background(), "draw a cat", model.GenerationConfig{})
	s.Require().NoError(err)

	s.Equal("data:image/png;base64,QUJD", uri)
	s.Equal("1:1", s.provider.lastRequest().Config.AspectRatio)

	items := s.gallery.List(model.CapabilityImage)
	s.Require().Len(items, 1)
	s.Equal("draw a cat", items[0].SourcePrompt)
	s.Equal(uri, items[0].Payload.URI)
}

func (s *GatewaySuite) TestGenerateImageWithoutData() {
	s.provider.imageResp = &model.ContentResponse{Text: "I can't draw that"}

	_, err := s.gw.GenerateImage(context.Background(), "draw a cat", model.GenerationConfig{})
	failure, ok := AsFailure(err)
	s.Require().True(ok)

	s.Equal(ImageFailureMessage, failure.Message)
	s.True(errors.Is(err, model.ErrNoImageData))
	s.Zero(s.gallery.Len())
}

func (s *GatewaySuite) TestInvalidInputIsNotAFailure() {
	_, err := s.gw.GenerateImage(context.Background(), "", model.GenerationConfig{})
	_, ok := AsFailure(err)
	s.False(ok)
	s.True(errors.Is(err, model.ErrInvalidInput))
	s.Empty(s.provider.requests)
}

func (s *GatewaySuite) TestAskFallsBackOnEmptyText() {
	s.provider.textResp = &model.ContentResponse{}

	text, err := s.gw.Ask(context.Background(), "summarize", model.GenerationConfig{SystemInstruction: "consultant"})
	s.Require().NoError(err)
	s.Equal(TextFallback, text)
	s.Equal("consultant", s.provider.lastRequest().Config.SystemInstruction)
}

func (s *GatewaySuite) TestAskTransportFailure() {
	s.provider.callErr = errors.New("dial tcp: timeout")

	_, err := s.gw.Ask(context.Background(), "summarize", model.GenerationConfig{})
	failure, ok := AsFailure(err)
	s.Require().True(ok)
	s.Equal(TextFailureMessage, failure.Message)
	s.False(failure.ReselectCredential)
	s.True(errors.Is(err, model.ErrTransport))
}

func (s *GatewaySuite) TestChatPublishesCumulativeText() {
	s.provider.stream = []streamStep{{text: "Hel"}, {text: "lo"}}
	var published []string

	text, err := s.gw.Chat(context.Background(), "hi", model.GenerationConfig{}, func(t string) {
		published = append(published, t)
	})
	s.Require().NoError(err)
	s.Equal("Hello", text)
	s.Equal([]string{"Hel", "Hello"}, published)
}

func (s *GatewaySuite) TestChatFailure() {
	s.provider.stream = []streamStep{{err: errors.New("reset")}}
	var published []string

	_, err := s.gw.Chat(context.Background(), "hi", model.GenerationConfig{}, func(t string) {
		published = append(published, t)
	})
	failure, ok := AsFailure(err)
	s.Require().True(ok)
	s.Equal(model.CapabilityText, failure.Capability)
	s.Equal([]string{FailedResponseMessage}, published)
}

func (s *GatewaySuite) TestChatFailureLogsOneError() {
	var buf bytes.Buffer
	s.Require().NoError(logging.Configure("debug", "json", &buf))
	defer func() {
		s.Require().NoError(logging.Configure("info", "text", os.Stderr))
	}()
	s.provider.stream = []streamStep{{text: "Hel"}, {err: errors.New("reset")}}

	_, err := s.gw.Chat(context.Background(), "hi", model.GenerationConfig{}, func(string) {})
	s.Require().Error(err)

	s.Equal(1, strings.Count(buf.String(), `"level":"error"`))
	s.Contains(buf.String(), `"capability":"text"`)
}

func (s *GatewaySuite) TestGenerateSpeechDecodesPCM() {
	s.provider.speechResp = inlineResponse("AEAAwA==")

	speech, err := s.gw.GenerateSpeech(context.Background(), "hello", "")
	s.Require().NoError(err)

	s.Equal("Say clearly: hello", s.provider.lastRequest().Prompt)
	s.Equal(model.VoiceKore, s.provider.lastRequest().Config.Voice)
	s.Equal([]byte{0x00, 0x40, 0x00, 0xC0}, speech.PCM)
	s.Equal(24000, speech.Audio.SampleRate)
	s.Equal([][]float32{{0.5, -0.5}}, speech.Audio.ChannelData)

	items := s.gallery.List(model.CapabilitySpeech)
	s.Require().Len(items, 1)
	s.Equal("hello", items[0].SourcePrompt)
}

func (s *GatewaySuite) TestGenerateSpeechMalformedAudio() {
	s.provider.speechResp = inlineResponse("AEAA")

	_, err := s.gw.GenerateSpeech(context.Background(), "hello", model.VoicePuck)
	failure, ok := AsFailure(err)
	s.Require().True(ok)
	s.Equal(SpeechFailureMessage, failure.Message)
	s.True(errors.Is(err, model.ErrMalformedAudio))
}

func (s *GatewaySuite) TestGenerateSpeechNoAudio() {
	s.provider.speechResp = &model.ContentResponse{}

	_, err := s.gw.GenerateSpeech(context.Background(), "hello", model.VoicePuck)
	s.True(errors.Is(err, model.ErrNoAudioData))
}

func (s *GatewaySuite) TestGenerateVideoEndToEnd() {
	s.provider.startOp = &model.Operation{Name: "operations/7"}
	s.provider.pollOps = []model.Operation{
		{Name: "operations/7"},
		{Name: "operations/7", Done: true, ResultURI: "https://files/v7"},
	}
	s.provider.blob = &model.Blob{MIMEType: "video/mp4", Data: []byte("mp4")}

	var mu sync.Mutex
	var statuses []string
	blob, err := s.gw.GenerateVideo(context.Background(), "a wave", model.GenerationConfig{}, func(status string) {
		mu.Lock()
		statuses = append(statuses, status)
		mu.Unlock()
	})
	s.Require().NoError(err)

	s.Equal([]byte("mp4"), blob.Data)
	s.Equal(2, s.provider.polls())
	s.Equal([]string{"https://files/v7"}, s.provider.downloaded)

	mu.Lock()
	s.Require().NotEmpty(statuses)
	s.Equal(VideoStatuses[0], statuses[0])
	count := len(statuses)
	mu.Unlock()

	time.Sleep(5 * time.Millisecond)
	mu.Lock()
	s.Equal(count, len(statuses))
	mu.Unlock()

	items := s.gallery.List(model.CapabilityVideo)
	s.Require().Len(items, 1)
	s.Equal("https://files/v7", items[0].Payload.URI)
}

func (s *GatewaySuite) TestGenerateVideoEntityNotFound() {
	s.provider.startErr = errors.New("googleapi: Error 404: Requested entity was not found.")

	_, err := s.gw.GenerateVideo(context.Background(), "a wave", model.GenerationConfig{}, nil)
	failure, ok := AsFailure(err)
	s.Require().True(ok)

	s.True(failure.ReselectCredential)
	s.Equal(CredentialFailureMessage, failure.Message)
	s.Equal(model.CapabilityVideo, failure.Capability)
}

func (s *GatewaySuite) TestGenerateVideoMissingAsset() {
	s.provider.startOp = &model.Operation{Name: "operations/8", Done: true}

	_, err := s.gw.GenerateVideo(context.Background(), "a wave", model.GenerationConfig{}, nil)
	failure, ok := AsFailure(err)
	s.Require().True(ok)
	s.Equal(VideoFailureMessage, failure.Message)
	s.True(errors.Is(err, model.ErrMissingAsset))
	s.Empty(s.provider.downloaded)
}

func (s *GatewaySuite) TestGenerateVideoCancelled() {
	s.provider.startOp = &model.Operation{Name: "operations/9"}
	gw := New(s.provider, WithVideoPollInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(5*time.Millisecond, cancel)

	_, err := gw.GenerateVideo(ctx, "a wave", model.GenerationConfig{}, func(string) {})
	s.True(errors.Is(err, context.Canceled))
	s.Zero(s.provider.polls())
}
