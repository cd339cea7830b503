package gemini

import (
	"context"
	"time"

	"github.com/compustack/aether/pkg/logging"
	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
	"google.golang.org/genai"
)

func (p *Provider) GenerateSpeech(ctx context.Context, req model.ProviderRequest) (*model.ContentResponse, error) {
	start := time.Now()
	modelName := p.modelName(model.CapabilitySpeech)
	meta := initMetadata(modelName)
	defer setLatencyMetadata(meta, start)

	log := logging.NewLogger(ctx)
	log.Infof("speech voice=%q chars=%d model=%q", req.Config.Voice, len(req.SourcePrompt), modelName)

	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}
	response, err := p.client.Models.GenerateContent(ctx, modelName, contents, buildSpeechConfig(req))
	if err != nil {
		log.Errorf("error: %v", err)
		return nil, utils.WrapIfNotNil(err)
	}
	applyGenerateMetadata(meta, response)
	return mapContentResponse(response, meta), nil
}

// buildSpeechConfig asks for audio only, spoken by one prebuilt voice.
func buildSpeechConfig(req model.ProviderRequest) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: string(req.Config.Voice),
				},
			},
		},
	}
}
