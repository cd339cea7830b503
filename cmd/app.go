package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/compustack/aether/pkg/artifact"
	"github.com/compustack/aether/pkg/config"
	"github.com/compustack/aether/pkg/crm"
	"github.com/compustack/aether/pkg/gateway"
	"github.com/compustack/aether/pkg/llms/bedrock"
	"github.com/compustack/aether/pkg/llms/gemini"
	"github.com/compustack/aether/pkg/llms/ollama"
	"github.com/compustack/aether/pkg/llms/openai"
	"github.com/compustack/aether/pkg/model"
)

func newProvider(ctx context.Context, cfg config.Config) (model.Provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openai.New(cfg.GeneratorOptions()...)
	case config.ProviderBedrock:
		return bedrock.New(ctx, cfg.GeneratorOptions()...)
	case config.ProviderOllama:
		return ollama.New(cfg.GeneratorOptions()...)
	default:
		return gemini.New(ctx, cfg.GeneratorOptions()...)
	}
}

func newGateway(ctx context.Context) (*gateway.Gateway, error) {
	provider, err := newProvider(ctx, appConfig)
	if err != nil {
		return nil, err
	}
	return gateway.New(provider, gateway.WithGallery(artifact.NewGallery())), nil
}

func newWorkspace() *crm.Workspace {
	return crm.NewWorkspace(crm.Credentials{
		Username: appConfig.CRMUsername,
		Password: appConfig.CRMPassword,
	}, crm.WithSampleData())
}

// userError prints generation failures the way the user should see them.
func userError(err error) error {
	if failure, ok := gateway.AsFailure(err); ok {
		if errors.Is(err, model.ErrUnsupportedCapability) {
			return fmt.Errorf("%s (%s does not support %s)", failure.Message, appConfig.Provider, failure.Capability)
		}
		return errors.New(failure.Message)
	}
	return err
}
