package gateway

import (
	"fmt"
	"strings"

	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
)

const (
	speechInstructionPrefix = "Say clearly: "

	DefaultImageAspectRatio = "1:1"
	DefaultVideoAspectRatio = "16:9"
	DefaultVideoResolution  = "720p"
	DefaultNumberOfVideos   = 1
	DefaultVoice            = model.VoiceKore
)

// Encode builds the request for one capability. It only validates the prompt
// and fills capability defaults; it never talks to the provider.
func Encode(prompt string, capability model.Capability, cfg model.GenerationConfig) (model.ProviderRequest, error) {
	if strings.TrimSpace(prompt) == "" {
		return model.ProviderRequest{}, utils.WrapIfNotNil(fmt.Errorf("%w: prompt is required", model.ErrInvalidInput))
	}

	req := model.ProviderRequest{
		Capability:   capability,
		Prompt:       prompt,
		SourcePrompt: prompt,
	}

	switch capability {
	case model.CapabilityText:
		req.Config = model.GenerationConfig{
			SystemInstruction: cfg.SystemInstruction,
			History:           append([]model.Turn(nil), cfg.History...),
		}
	case model.CapabilityImage:
		req.Config = model.GenerationConfig{
			AspectRatio: valueOr(cfg.AspectRatio, DefaultImageAspectRatio),
		}
	case model.CapabilitySpeech:
		voice := cfg.Voice
		if voice == "" {
			voice = DefaultVoice
		}
		req.Prompt = speechInstructionPrefix + prompt
		req.Config = model.GenerationConfig{Voice: voice}
	case model.CapabilityVideo:
		count := cfg.NumberOfVideos
		if count <= 0 {
			count = DefaultNumberOfVideos
		}
		req.Config = model.GenerationConfig{
			AspectRatio:    valueOr(cfg.AspectRatio, DefaultVideoAspectRatio),
			Resolution:     valueOr(cfg.Resolution, DefaultVideoResolution),
			NumberOfVideos: count,
		}
	default:
		return model.ProviderRequest{}, utils.WrapIfNotNil(fmt.Errorf("%w: unknown capability %q", model.ErrInvalidInput, capability))
	}

	return req, nil
}

func valueOr(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
