// Package bedrock adapts Amazon Bedrock to model.Provider: text and chat
// through the Converse API and images through a Nova Canvas model.
package bedrock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
)

const (
	providerName  = "bedrock"
	defaultRegion = "us-east-1"

	DefaultTextModel  = "us.anthropic.claude-3-5-sonnet-20241022-v2:0"
	DefaultImageModel = "amazon.nova-canvas-v1:0"
)

// Provider serves text, chat and image requests. Speech and video return
// model.ErrUnsupportedCapability.
type Provider struct {
	apiClient *bedrockruntime.Client
	cfg       model.GeneratorConfig
}

var _ model.Provider = (*Provider)(nil)

// New loads AWS credentials from the environment. The configured URL, when
// set, replaces the regional runtime endpoint.
func New(ctx context.Context, opts ...model.GeneratorOption) (*Provider, error) {
	cfg := model.ResolveGeneratorOpts(opts...)

	awsCfg, err := loadAWSConfig(ctx)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	client := bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
		if url := strings.TrimSpace(cfg.URL); url != "" {
			o.BaseEndpoint = aws.String(url)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	})
	return &Provider{apiClient: client, cfg: cfg}, nil
}

func (p *Provider) Name() string {
	return providerName
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	region := strings.TrimSpace(os.Getenv("AWS_REGION"))
	if region == "" {
		region = defaultRegion
	}

	accessKeyID := strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID"))
	secretAccessKey := strings.TrimSpace(os.Getenv("AWS_SECRET_ACCESS_KEY"))
	profile := strings.TrimSpace(os.Getenv("AWS_PROFILE"))

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}

	switch {
	case accessKeyID != "" || secretAccessKey != "":
		if accessKeyID == "" || secretAccessKey == "" {
			return aws.Config{}, utils.WrapIfNotNil(fmt.Errorf(
				"%w: both AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are required when using key-based auth",
				model.ErrInvalidInput,
			))
		}

		sessionToken := strings.TrimSpace(os.Getenv("AWS_SESSION_TOKEN"))
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, sessionToken),
		))
	case profile != "":
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(profile))
	default:
		return aws.Config{}, utils.WrapIfNotNil(fmt.Errorf(
			"%w: missing AWS credentials: set AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY or AWS_PROFILE",
			model.ErrInvalidInput,
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, utils.WrapIfNotNil(err)
	}
	return cfg, nil
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
	if _, ok := meta[model.MetadataKeyLatencyMs]; ok {
		return
	}
	meta[model.MetadataKeyLatencyMs] = strconv.FormatInt(time.Since(start).Milliseconds(), 10)
}

var errEmptyOutput = errors.New("response output is empty")
