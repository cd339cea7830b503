package bedrock

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	bedrocktypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/compustack/aether/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func setAWSEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_ACCESS_KEY_ID", "test-access-key")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test-secret-key")
	t.Setenv("AWS_SESSION_TOKEN", "")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
}

func TestNewRequiresCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	t.Setenv("AWS_PROFILE", "")

	_, err := New(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestNewRejectsPartialKeys(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "only-the-id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	t.Setenv("AWS_PROFILE", "")

	_, err := New(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
	assert.Contains(t, err.Error(), "AWS_SECRET_ACCESS_KEY")
}

func TestBuildMessagesOrdersTurns(t *testing.T) {
	system, messages := buildMessages(model.ProviderRequest{
		Prompt: "third",
		Config: model.GenerationConfig{
			SystemInstruction: "be brief",
			History: []model.Turn{
				{Role: model.TurnRoleUser, Text: "first"},
				{Role: model.TurnRoleModel, Text: "  "},
				{Role: model.TurnRoleModel, Text: "second"},
			},
		},
	})

	require.Len(t, system, 1)
	assert.Equal(t, "be brief", system[0].(*bedrocktypes.SystemContentBlockMemberText).Value)

	require.Len(t, messages, 3)
	assert.Equal(t, bedrocktypes.ConversationRoleUser, messages[0].Role)
	assert.Equal(t, bedrocktypes.ConversationRoleAssistant, messages[1].Role)
	assert.Equal(t, bedrocktypes.ConversationRoleUser, messages[2].Role)
	assert.Equal(t, "second", extractText(messages[1]))
	assert.Equal(t, "third", extractText(messages[2]))
}

func TestBuildMessagesWithoutInstruction(t *testing.T) {
	system, messages := buildMessages(model.ProviderRequest{Prompt: "hi"})
	assert.Empty(t, system)
	require.Len(t, messages, 1)
}

func TestTextDelta(t *testing.T) {
	text, ok := textDelta(&bedrocktypes.ConverseStreamOutputMemberContentBlockDelta{
		Value: bedrocktypes.ContentBlockDeltaEvent{
			Delta: &bedrocktypes.ContentBlockDeltaMemberText{Value: "Hel"},
		},
	})
	assert.True(t, ok)
	assert.Equal(t, "Hel", text)

	_, ok = textDelta(&bedrocktypes.ConverseStreamOutputMemberMessageStop{})
	assert.False(t, ok)
}

func TestImageDimensions(t *testing.T) {
	cases := map[string][2]int{
		"1:1":  {1024, 1024},
		"16:9": {1280, 720},
		"9:16": {720, 1280},
		"":     {1024, 1024},
	}
	for ratio, want := range cases {
		width, height := imageDimensions(ratio)
		assert.Equal(t, want, [2]int{width, height}, ratio)
	}
}

type ProviderSuite struct {
	suite.Suite
	server   *httptest.Server
	provider *Provider
	paths    []string
	bodies   []string
}

func TestProviderSuite(t *testing.T) {
	suite.Run(t, new(ProviderSuite))
}

func (s *ProviderSuite) SetupTest() {
	setAWSEnv(s.T())
	s.paths = nil
	s.bodies = nil
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))

	provider, err := New(context.Background(), model.WithURL(s.server.URL))
	s.Require().NoError(err)
	s.provider = provider
}

func (s *ProviderSuite) TearDownTest() {
	s.server.Close()
}

func (s *ProviderSuite) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.paths = append(s.paths, r.URL.Path)
	s.bodies = append(s.bodies, string(body))
	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.HasSuffix(r.URL.Path, "/converse"):
		_, _ = io.WriteString(w, `{
			"output":{"message":{"role":"assistant","content":[{"text":"Hello from Bedrock"}]}},
			"stopReason":"end_turn",
			"usage":{"inputTokens":3,"outputTokens":4,"totalTokens":7},
			"metrics":{"latencyMs":12}
		}`)
	case strings.HasSuffix(r.URL.Path, "/invoke"):
		_, _ = io.WriteString(w, `{"images":["iVBORw0KGgo="]}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"not found"}`)
	}
}

func (s *ProviderSuite) TestGenerateText() {
	out, err := s.provider.GenerateText(context.Background(), model.ProviderRequest{
		Capability:   model.CapabilityText,
		Prompt:       "Say hello",
		SourcePrompt: "Say hello",
		Config:       model.GenerationConfig{SystemInstruction: "be brief"},
	})
	s.Require().NoError(err)

	s.Equal("Hello from Bedrock", out.Text)
	s.Equal("bedrock", out.Metadata[model.MetadataKeyProvider])
	s.Equal(DefaultTextModel, out.Metadata[model.MetadataKeyModel])
	s.Equal("3", out.Metadata[model.MetadataKeyInputTokens])
	s.Equal("7", out.Metadata[model.MetadataKeyTotalTokens])
	s.Equal("12", out.Metadata[model.MetadataKeyLatencyMs])
	s.Equal("end_turn", out.Metadata[model.MetadataKeyResponseStatus])

	s.Require().Len(s.bodies, 1)
	s.Contains(s.bodies[0], "Say hello")
	s.Contains(s.bodies[0], "be brief")
}

func (s *ProviderSuite) TestGenerateTextUsesConfiguredModel() {
	setAWSEnv(s.T())
	provider, err := New(context.Background(),
		model.WithURL(s.server.URL),
		model.WithModel(model.CapabilityText, "amazon.nova-lite-v1:0"),
	)
	s.Require().NoError(err)

	out, err := provider.GenerateText(context.Background(), model.ProviderRequest{Prompt: "hi"})
	s.Require().NoError(err)
	s.Equal("amazon.nova-lite-v1:0", out.Metadata[model.MetadataKeyModel])
	s.Require().NotEmpty(s.paths)
	s.Contains(s.paths[len(s.paths)-1], "amazon.nova-lite-v1:0")
}

func (s *ProviderSuite) TestGenerateImage() {
	out, err := s.provider.GenerateImage(context.Background(), model.ProviderRequest{
		Capability: model.CapabilityImage,
		Prompt:     "a lighthouse",
		Config:     model.GenerationConfig{AspectRatio: "16:9"},
	})
	s.Require().NoError(err)

	s.Require().Len(out.Parts, 1)
	s.Equal("image/png", out.Parts[0].InlineData.MIMEType)
	s.Equal("iVBORw0KGgo=", out.Parts[0].InlineData.Data)

	s.Require().Len(s.bodies, 1)
	s.Contains(s.bodies[0], `"taskType":"TEXT_IMAGE"`)
	s.Contains(s.bodies[0], `"width":1280`)
	s.Contains(s.bodies[0], `"height":720`)
}

func (s *ProviderSuite) TestUnsupportedCapabilities() {
	_, err := s.provider.GenerateSpeech(context.Background(), model.ProviderRequest{})
	s.True(errors.Is(err, model.ErrUnsupportedCapability))

	_, err = s.provider.StartVideoJob(context.Background(), model.ProviderRequest{})
	s.True(errors.Is(err, model.ErrUnsupportedCapability))

	_, err = s.provider.PollVideoJob(context.Background(), model.Operation{})
	s.True(errors.Is(err, model.ErrUnsupportedCapability))

	_, err = s.provider.DownloadAsset(context.Background(), "https://files/v")
	s.True(errors.Is(err, model.ErrUnsupportedCapability))
	s.Empty(s.paths)
}
