package gemini

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
	"google.golang.org/genai"
)

const (
	providerName = "gemini"

	DefaultTextModel   = "gemini-3-flash-preview"
	DefaultImageModel  = "gemini-2.5-flash-image"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultVideoModel  = "veo-3.1-fast-generate-preview"
)

var defaultModels = map[model.Capability]string{
	model.CapabilityText:   DefaultTextModel,
	model.CapabilityImage:  DefaultImageModel,
	model.CapabilitySpeech: DefaultSpeechModel,
	model.CapabilityVideo:  DefaultVideoModel,
}

// Provider implements model.Provider on the Gemini API.
type Provider struct {
	client     *genai.Client
	cfg        model.GeneratorConfig
	apiKey     string
	httpClient *http.Client
}

var _ model.Provider = (*Provider)(nil)

func New(ctx context.Context, opts ...model.GeneratorOption) (*Provider, error) {
	cfg := model.ResolveGeneratorOpts(opts...)
	apiKey := resolveAPIKey(cfg)

	client, err := newAPIClient(ctx, cfg, apiKey)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Provider{
		client:     client,
		cfg:        cfg,
		apiKey:     apiKey,
		httpClient: httpClient,
	}, nil
}

func (p *Provider) Name() string {
	return providerName
}

func resolveAPIKey(cfg model.GeneratorConfig) string {
	token := strings.TrimSpace(cfg.AuthToken)
	if token == "" {
		token = strings.TrimSpace(os.Getenv("GEMINI_KEY"))
	}
	if token == "" {
		token = strings.TrimSpace(os.Getenv("API_KEY"))
	}
	return token
}

func newAPIClient(ctx context.Context, cfg model.GeneratorConfig, apiKey string) (*genai.Client, error) {
	clientCfg := &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
	}
	if apiKey != "" {
		clientCfg.APIKey = apiKey
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}

	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{
			BaseURL: baseURL,
		}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	return client, nil
}

func (p *Provider) modelName(capability model.Capability) string {
	return p.cfg.ModelFor(capability, defaultModels[capability])
}

func initMetadata(modelName string) model.GenerationMetadata {
	if strings.TrimSpace(modelName) == "" {
		modelName = "unknown"
	}

	return model.GenerationMetadata{
		model.MetadataKeyProvider: providerName,
		model.MetadataKeyModel:    modelName,
	}
}

func setLatencyMetadata(meta model.GenerationMetadata, start time.Time) {
	if meta == nil {
		return
	}
	meta[model.MetadataKeyLatencyMs] = strconv.FormatInt(time.Since(start).Milliseconds(), 10)
}

func applyGenerateMetadata(meta model.GenerationMetadata, response *genai.GenerateContentResponse) {
	if meta == nil || response == nil {
		return
	}

	if usage := response.UsageMetadata; usage != nil {
		meta[model.MetadataKeyInputTokens] = strconv.FormatInt(int64(usage.PromptTokenCount), 10)
		meta[model.MetadataKeyOutputTokens] = strconv.FormatInt(int64(usage.CandidatesTokenCount), 10)
		meta[model.MetadataKeyTotalTokens] = strconv.FormatInt(int64(usage.TotalTokenCount), 10)
		meta[model.MetadataKeyCachedInputTokens] = strconv.FormatInt(int64(usage.CachedContentTokenCount), 10)
		meta[model.MetadataKeyReasoningTokens] = strconv.FormatInt(int64(usage.ThoughtsTokenCount), 10)
	}
	if strings.TrimSpace(response.ResponseID) != "" {
		meta[model.MetadataKeyResponseID] = response.ResponseID
	}
	if len(response.Candidates) > 0 && response.Candidates[0] != nil {
		meta[model.MetadataKeyResponseStatus] = string(response.Candidates[0].FinishReason)
	}
}
