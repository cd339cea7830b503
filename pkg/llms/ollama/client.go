// Package ollama adapts a local Ollama server to model.Provider. Only text
// and chat are served.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
)

const (
	providerName     = "ollama"
	defaultBaseURL   = "http://localhost:11434"
	requestTimeout   = 180 * time.Second
	DefaultTextModel = "llama3.1"
)

type Provider struct {
	baseURL    string
	httpClient *http.Client
	cfg        model.GeneratorConfig
}

var _ model.Provider = (*Provider)(nil)

// New resolves the server from the configured URL, then OLLAMA_BASE_URL,
// then the local default.
func New(opts ...model.GeneratorOption) (*Provider, error) {
	cfg := model.ResolveGeneratorOpts(opts...)

	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		baseURL = strings.TrimSpace(os.Getenv("OLLAMA_BASE_URL"))
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	return &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		cfg:        cfg,
	}, nil
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) GenerateImage(context.Context, model.ProviderRequest) (*model.ContentResponse, error) {
	return nil, unsupported(model.CapabilityImage)
}

func (p *Provider) GenerateSpeech(context.Context, model.ProviderRequest) (*model.ContentResponse, error) {
	return nil, unsupported(model.CapabilitySpeech)
}

func (p *Provider) StartVideoJob(context.Context, model.ProviderRequest) (*model.Operation, error) {
	return nil, unsupported(model.CapabilityVideo)
}

func (p *Provider) PollVideoJob(context.Context, model.Operation) (*model.Operation, error) {
	return nil, unsupported(model.CapabilityVideo)
}

func (p *Provider) DownloadAsset(context.Context, string) (*model.Blob, error) {
	return nil, unsupported(model.CapabilityVideo)
}

func unsupported(capability model.Capability) error {
	return utils.WrapIfNotNil(fmt.Errorf("%w: %s on %s", model.ErrUnsupportedCapability, capability, providerName))
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

func applyUsageMetadata(meta model.GenerationMetadata, response *chatResponse) {
	if meta == nil || response == nil {
		return
	}

	meta[model.MetadataKeyInputTokens] = strconv.FormatInt(response.PromptEvalCount, 10)
	meta[model.MetadataKeyOutputTokens] = strconv.FormatInt(response.EvalCount, 10)
	meta[model.MetadataKeyTotalTokens] = strconv.FormatInt(response.PromptEvalCount+response.EvalCount, 10)
	if reason := strings.TrimSpace(response.DoneReason); reason != "" {
		meta[model.MetadataKeyResponseStatus] = reason
	}
}
