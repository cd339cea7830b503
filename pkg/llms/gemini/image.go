package gemini

import (
	"context"
	"time"

	"github.com/compustack/aether/pkg/logging"
	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
	"google.golang.org/genai"
)

func (p *Provider) GenerateImage(ctx context.Context, req model.ProviderRequest) (*model.ContentResponse, error) {
	start := time.Now()
	modelName := p.modelName(model.CapabilityImage)
	meta := initMetadata(modelName)
	defer setLatencyMetadata(meta, start)

	log := logging.NewLogger(ctx)
	log.Infof("image prompt=%q aspect_ratio=%q model=%q", req.Prompt, req.Config.AspectRatio, modelName)

	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}
	response, err := p.client.Models.GenerateContent(ctx, modelName, contents, buildImageConfig(req))
	if err != nil {
		log.Errorf("error: %v", err)
		return nil, utils.WrapIfNotNil(err)
	}
	applyGenerateMetadata(meta, response)
	return mapContentResponse(response, meta), nil
}

func buildImageConfig(req model.ProviderRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityText), string(genai.ModalityImage)},
	}
	if req.Config.AspectRatio != "" {
		config.ImageConfig = &genai.ImageConfig{AspectRatio: req.Config.AspectRatio}
	}
	return config
}
