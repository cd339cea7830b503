package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/compustack/aether/pkg/logging"
	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
	"google.golang.org/genai"
)

const defaultVideoMIMEType = "video/mp4"

func (p *Provider) StartVideoJob(ctx context.Context, req model.ProviderRequest) (*model.Operation, error) {
	modelName := p.modelName(model.CapabilityVideo)
	log := logging.NewLogger(ctx)
	log.Infof("video prompt=%q resolution=%q aspect_ratio=%q model=%q",
		req.Prompt, req.Config.Resolution, req.Config.AspectRatio, modelName)

	op, err := p.client.Models.GenerateVideos(ctx, modelName, req.Prompt, nil, buildVideosConfig(req))
	if err != nil {
		log.Errorf("error: %v", err)
		return nil, utils.WrapIfNotNil(err)
	}
	return mapOperation(op)
}

func (p *Provider) PollVideoJob(ctx context.Context, op model.Operation) (*model.Operation, error) {
	if strings.TrimSpace(op.Name) == "" {
		return nil, utils.WrapIfNotNil(fmt.Errorf("%w: operation name is required", model.ErrInvalidInput))
	}

	next, err := p.client.Operations.GetVideosOperation(ctx, &genai.GenerateVideosOperation{Name: op.Name}, nil)
	if err != nil {
		logging.NewLogger(ctx).Errorf("error: %v", err)
		return nil, utils.WrapIfNotNil(err)
	}
	return mapOperation(next)
}

// DownloadAsset fetches a generated file. The API key travels as a query
// parameter, which is how the file service authenticates downloads.
func (p *Provider) DownloadAsset(ctx context.Context, uri string) (*model.Blob, error) {
	log := logging.NewLogger(ctx)

	target, err := downloadURL(uri, p.apiKey)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		log.Errorf("error: %v", err)
		return nil, utils.WrapIfNotNil(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = fmt.Errorf("asset download failed with status %d", resp.StatusCode)
		log.Errorf("error: %v", err)
		return nil, utils.WrapIfNotNil(err)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = defaultVideoMIMEType
	}
	log.Debugf("downloaded asset bytes=%d mime=%q", len(data), mimeType)
	return &model.Blob{URI: uri, MIMEType: mimeType, Data: data}, nil
}

func buildVideosConfig(req model.ProviderRequest) *genai.GenerateVideosConfig {
	return &genai.GenerateVideosConfig{
		NumberOfVideos: int32(req.Config.NumberOfVideos),
		Resolution:     req.Config.Resolution,
		AspectRatio:    req.Config.AspectRatio,
	}
}

// mapOperation reduces a videos operation to its name, state and the URI of
// the first generated video. A failed operation becomes an error.
func mapOperation(op *genai.GenerateVideosOperation) (*model.Operation, error) {
	if op == nil {
		return nil, utils.WrapIfNotNil(errors.New("empty videos operation"))
	}
	if len(op.Error) > 0 {
		return nil, utils.WrapIfNotNil(fmt.Errorf("video operation %s failed: %v", op.Name, op.Error["message"]))
	}

	out := &model.Operation{Name: op.Name, Done: op.Done}
	if op.Response != nil {
		for _, generated := range op.Response.GeneratedVideos {
			if generated != nil && generated.Video != nil && generated.Video.URI != "" {
				out.ResultURI = generated.Video.URI
				break
			}
		}
	}
	return out, nil
}

func downloadURL(uri string, apiKey string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return "", utils.WrapIfNotNil(err)
	}
	if apiKey != "" {
		query := parsed.Query()
		query.Set("key", apiKey)
		parsed.RawQuery = query.Encode()
	}
	return parsed.String(), nil
}
