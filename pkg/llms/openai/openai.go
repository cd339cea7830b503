package openai

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/compustack/aether/pkg/logging"
	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	providerName = "openai"

	DefaultTextModel  = "gpt-5-mini"
	DefaultImageModel = "gpt-image-1"
)

// Provider implements the text and image capabilities on the OpenAI API.
// Speech and video return model.ErrUnsupportedCapability.
type Provider struct {
	apiClient openai.Client
	cfg       model.GeneratorConfig
}

var _ model.Provider = (*Provider)(nil)

func New(opts ...model.GeneratorOption) (*Provider, error) {
	cfg := model.ResolveGeneratorOpts(opts...)

	requestOpts := make([]option.RequestOption, 0, 3)
	if cfg.URL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(cfg.URL))
	}
	token := strings.TrimSpace(cfg.AuthToken)
	if token == "" {
		token = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	if token == "" {
		return nil, utils.WrapIfNotNil(fmt.Errorf("%w: openai api key is required", model.ErrInvalidInput))
	}
	requestOpts = append(requestOpts, option.WithAPIKey(token))
	if cfg.HTTPClient != nil {
		requestOpts = append(requestOpts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Provider{
		apiClient: openai.NewClient(requestOpts...),
		cfg:       cfg,
	}, nil
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) GenerateText(ctx context.Context, req model.ProviderRequest) (*model.ContentResponse, error) {
	start := time.Now()
	modelName := p.cfg.ModelFor(model.CapabilityText, DefaultTextModel)
	meta := initMetadata(modelName)
	defer setLatencyMetadata(meta, start)

	log := logging.NewLogger(ctx)
	log.Infof("prompt=%q history=%d model=%q", req.SourcePrompt, len(req.Config.History), modelName)

	completion, err := p.apiClient.Chat.Completions.New(ctx, buildChatParams(modelName, req))
	if err != nil {
		log.Errorf("error: %v", err)
		return nil, utils.WrapIfNotNil(err)
	}
	if completion == nil {
		return nil, utils.WrapIfNotNil(errors.New("chat completions API returned nil response"))
	}
	applyCompletionMetadata(meta, completion)

	out := &model.ContentResponse{Metadata: meta}
	if len(completion.Choices) > 0 {
		out.Text = strings.TrimSpace(completion.Choices[0].Message.Content)
	}
	return out, nil
}

func (p *Provider) StreamText(ctx context.Context, req model.ProviderRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		modelName := p.cfg.ModelFor(model.CapabilityText, DefaultTextModel)
		log := logging.NewLogger(ctx)
		log.Infof("stream prompt=%q history=%d model=%q", req.SourcePrompt, len(req.Config.History), modelName)

		stream := p.apiClient.Chat.Completions.NewStreaming(ctx, buildChatParams(modelName, req))
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			if !yield(chunk.Choices[0].Delta.Content, nil) {
				return
			}
		}
		if err := stream.Err(); err != nil {
			log.Errorf("error: %v", err)
			yield("", utils.WrapIfNotNil(err))
		}
	}
}

// GenerateImage returns the first image as base64 inline data.
func (p *Provider) GenerateImage(ctx context.Context, req model.ProviderRequest) (*model.ContentResponse, error) {
	start := time.Now()
	modelName := p.cfg.ModelFor(model.CapabilityImage, DefaultImageModel)
	meta := initMetadata(modelName)
	defer setLatencyMetadata(meta, start)

	log := logging.NewLogger(ctx)
	log.Infof("image prompt=%q aspect_ratio=%q model=%q", req.Prompt, req.Config.AspectRatio, modelName)

	response, err := p.apiClient.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: req.Prompt,
		Model:  openai.ImageModel(modelName),
		N:      openai.Int(1),
		Size:   imageSize(req.Config.AspectRatio),
	})
	if err != nil {
		log.Errorf("error: %v", err)
		return nil, utils.WrapIfNotNil(err)
	}

	out := &model.ContentResponse{Metadata: meta}
	if response == nil {
		return out, nil
	}
	for _, image := range response.Data {
		if image.B64JSON == "" {
			continue
		}
		out.Parts = append(out.Parts, model.Part{
			Text:       image.RevisedPrompt,
			InlineData: &model.InlineData{MIMEType: "image/png", Data: image.B64JSON},
		})
	}
	return out, nil
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

func buildChatParams(modelName string, req model.ProviderRequest) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Config.History)+2)
	if instruction := strings.TrimSpace(req.Config.SystemInstruction); instruction != "" {
		messages = append(messages, openai.SystemMessage(instruction))
	}
	for _, turn := range req.Config.History {
		text := strings.TrimSpace(turn.Text)
		if text == "" {
			continue
		}
		if turn.Role == model.TurnRoleModel {
			messages = append(messages, openai.AssistantMessage(text))
		} else {
			messages = append(messages, openai.UserMessage(text))
		}
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	return openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(modelName),
		Messages: messages,
	}
}

func imageSize(aspectRatio string) openai.ImageGenerateParamsSize {
	switch aspectRatio {
	case "16:9", "4:3", "3:2":
		return openai.ImageGenerateParamsSize1536x1024
	case "9:16", "3:4", "2:3":
		return openai.ImageGenerateParamsSize1024x1536
	default:
		return openai.ImageGenerateParamsSize1024x1024
	}
}

func initMetadata(modelName string) model.GenerationMetadata {
	return model.GenerationMetadata{
		model.MetadataKeyProvider: providerName,
		model.MetadataKeyModel:    modelName,
	}
}

func setLatencyMetadata(meta model.GenerationMetadata, start time.Time) {
	meta[model.MetadataKeyLatencyMs] = strconv.FormatInt(time.Since(start).Milliseconds(), 10)
}

func applyCompletionMetadata(meta model.GenerationMetadata, completion *openai.ChatCompletion) {
	meta[model.MetadataKeyInputTokens] = strconv.FormatInt(completion.Usage.PromptTokens, 10)
	meta[model.MetadataKeyOutputTokens] = strconv.FormatInt(completion.Usage.CompletionTokens, 10)
	meta[model.MetadataKeyTotalTokens] = strconv.FormatInt(completion.Usage.TotalTokens, 10)
	meta[model.MetadataKeyCachedInputTokens] = strconv.FormatInt(completion.Usage.PromptTokensDetails.CachedTokens, 10)
	meta[model.MetadataKeyReasoningTokens] = strconv.FormatInt(completion.Usage.CompletionTokensDetails.ReasoningTokens, 10)
	if completion.ID != "" {
		meta[model.MetadataKeyResponseID] = completion.ID
	}
	if len(completion.Choices) > 0 {
		meta[model.MetadataKeyResponseStatus] = completion.Choices[0].FinishReason
	}
}
