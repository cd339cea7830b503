package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/compustack/aether/pkg/model"
	openai "github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestNewRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := New()
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestBuildChatParamsOrdersMessages(t *testing.T) {
	params := buildChatParams("gpt-test", model.ProviderRequest{
		Prompt: "third",
		Config: model.GenerationConfig{
			SystemInstruction: "be brief",
			History: []model.Turn{
				{Role: model.TurnRoleUser, Text: "first"},
				{Role: model.TurnRoleModel, Text: "second"},
			},
		},
	})

	require.Len(t, params.Messages, 4)
	assert.NotNil(t, params.Messages[0].OfSystem)
	assert.NotNil(t, params.Messages[1].OfUser)
	assert.NotNil(t, params.Messages[2].OfAssistant)
	assert.NotNil(t, params.Messages[3].OfUser)
	assert.Equal(t, openai.ChatModel("gpt-test"), params.Model)
}

func TestImageSize(t *testing.T) {
	assert.Equal(t, openai.ImageGenerateParamsSize1024x1024, imageSize("1:1"))
	assert.Equal(t, openai.ImageGenerateParamsSize1536x1024, imageSize("16:9"))
	assert.Equal(t, openai.ImageGenerateParamsSize1024x1536, imageSize("9:16"))
	assert.Equal(t, openai.ImageGenerateParamsSize1024x1024, imageSize(""))
}

type ProviderSuite struct {
	suite.Suite
	server   *httptest.Server
	provider *Provider
}

func TestProviderSuite(t *testing.T) {
	suite.Run(t, new(ProviderSuite))
}

func (s *ProviderSuite) SetupTest() {
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	provider, err := New(model.WithAuthToken("test-key"), model.WithURL(s.server.URL+"/"))
	s.Require().NoError(err)
	s.provider = provider
}

func (s *ProviderSuite) TearDownTest() {
	s.server.Close()
}

func (s *ProviderSuite) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	switch r.URL.Path {
	case "/chat/completions":
		if strings.Contains(string(body), `"stream":true`) {
			w.Header().Set("Content-Type", "text/event-stream")
			for _, chunk := range []string{"Hel", "lo"} {
				_, _ = fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"gpt-5-mini\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", chunk)
			}
			_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-5-mini","choices":[{"index":0,"message":{"role":"assistant","content":"Revenue is growing."},"finish_reason":"stop"}],"usage":{"prompt_tokens":4,"completion_tokens":3,"total_tokens":7}}`))
	case "/images/generations":
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created":1,"data":[{"b64_json":"QUJD"}]}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *ProviderSuite) TestGenerateText() {
	resp, err := s.provider.GenerateText(context.Background(), model.ProviderRequest{Prompt: "How is revenue?"})
	s.Require().NoError(err)

	s.Equal("Revenue is growing.", resp.Text)
	s.Equal("7", resp.Metadata[model.MetadataKeyTotalTokens])
	s.Equal("stop", resp.Metadata[model.MetadataKeyResponseStatus])
	s.Equal("openai", resp.Metadata[model.MetadataKeyProvider])
}

func (s *ProviderSuite) TestStreamText() {
	var fragments []string
	for fragment, err := range s.provider.StreamText(context.Background(), model.ProviderRequest{Prompt: "hi"}) {
		s.Require().NoError(err)
		fragments = append(fragments, fragment)
	}
	s.Equal([]string{"Hel", "lo"}, fragments)
}

func (s *ProviderSuite) TestGenerateImage() {
	resp, err := s.provider.GenerateImage(context.Background(), model.ProviderRequest{
		Prompt: "draw a cat",
		Config: model.GenerationConfig{AspectRatio: "1:1"},
	})
	s.Require().NoError(err)
	s.Require().Len(resp.Parts, 1)
	s.Equal("QUJD", resp.Parts[0].InlineData.Data)
}

func (s *ProviderSuite) TestUnsupportedCapabilities() {
	_, err := s.provider.GenerateSpeech(context.Background(), model.ProviderRequest{})
	s.True(errors.Is(err, model.ErrUnsupportedCapability))

	_, err = s.provider.StartVideoJob(context.Background(), model.ProviderRequest{})
	s.True(errors.Is(err, model.ErrUnsupportedCapability))

	_, err = s.provider.PollVideoJob(context.Background(), model.Operation{})
	s.True(errors.Is(err, model.ErrUnsupportedCapability))
}
