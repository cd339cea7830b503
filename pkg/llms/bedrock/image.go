package bedrock

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/compustack/aether/pkg/logging"
	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
)

const jsonContentType = "application/json"

type canvasRequest struct {
	TaskType          string            `json:"taskType"`
	TextToImageParams canvasTextParams  `json:"textToImageParams"`
	GenerationConfig  canvasImageConfig `json:"imageGenerationConfig"`
}

type canvasTextParams struct {
	Text string `json:"text"`
}

type canvasImageConfig struct {
	NumberOfImages int `json:"numberOfImages"`
	Width          int `json:"width"`
	Height         int `json:"height"`
}

type canvasResponse struct {
	Images []string `json:"images"`
	Error  string   `json:"error,omitempty"`
}

// GenerateImage invokes a Nova Canvas text-to-image task and returns each
// image as base64 PNG inline data.
func (p *Provider) GenerateImage(ctx context.Context, req model.ProviderRequest) (*model.ContentResponse, error) {
	start := time.Now()
	modelName := p.cfg.ModelFor(model.CapabilityImage, DefaultImageModel)
	meta := initMetadata(modelName)
	defer setLatencyMetadata(meta, start)

	log := logging.NewLogger(ctx)
	log.Infof("image prompt=%q aspect_ratio=%q model=%q", req.Prompt, req.Config.AspectRatio, modelName)

	width, height := imageDimensions(req.Config.AspectRatio)
	body, err := json.Marshal(canvasRequest{
		TaskType:          "TEXT_IMAGE",
		TextToImageParams: canvasTextParams{Text: req.Prompt},
		GenerationConfig:  canvasImageConfig{NumberOfImages: 1, Width: width, Height: height},
	})
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	output, err := p.apiClient.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelName),
		Body:        body,
		ContentType: aws.String(jsonContentType),
		Accept:      aws.String(jsonContentType),
	})
	if err != nil {
		log.Errorf("error: %v", err)
		return nil, utils.WrapIfNotNil(err)
	}
	if output == nil || len(output.Body) == 0 {
		log.Errorf("error: %v", errEmptyOutput)
		return nil, utils.WrapIfNotNil(errEmptyOutput)
	}

	var decoded canvasResponse
	if err := json.Unmarshal(output.Body, &decoded); err != nil {
		log.Errorf("error: %v", err)
		return nil, utils.WrapIfNotNil(err)
	}

	out := &model.ContentResponse{Metadata: meta}
	for _, image := range decoded.Images {
		if image == "" {
			continue
		}
		out.Parts = append(out.Parts, model.Part{
			InlineData: &model.InlineData{MIMEType: "image/png", Data: image},
		})
	}
	return out, nil
}

// imageDimensions maps an aspect ratio onto a size Nova Canvas accepts.
func imageDimensions(aspectRatio string) (int, int) {
	switch aspectRatio {
	case "16:9":
		return 1280, 720
	case "9:16":
		return 720, 1280
	case "4:3":
		return 1152, 864
	case "3:4":
		return 864, 1152
	default:
		return 1024, 1024
	}
}
