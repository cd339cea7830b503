// Package gateway turns prompts into provider calls and provider responses
// into displayable results for the text, image, speech and video capabilities.
package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/compustack/aether/pkg/artifact"
	"github.com/compustack/aether/pkg/audio"
	"github.com/compustack/aether/pkg/logging"
	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
)

type Gateway struct {
	provider       model.Provider
	gallery        *artifact.Gallery
	pollInterval   time.Duration
	statusInterval time.Duration
	statuses       []string
}

type Option func(*Gateway)

// WithGallery records every successful result into g.
func WithGallery(g *artifact.Gallery) Option {
	return func(gw *Gateway) {
		gw.gallery = g
	}
}

func WithVideoPollInterval(d time.Duration) Option {
	return func(gw *Gateway) {
		if d > 0 {
			gw.pollInterval = d
		}
	}
}

func WithStatusInterval(d time.Duration) Option {
	return func(gw *Gateway) {
		if d > 0 {
			gw.statusInterval = d
		}
	}
}

func New(provider model.Provider, opts ...Option) *Gateway {
	gw := &Gateway{
		provider:       provider,
		pollInterval:   DefaultPollInterval,
		statusInterval: DefaultStatusInterval,
		statuses:       VideoStatuses,
	}
	for _, opt := range opts {
		opt(gw)
	}
	return gw
}

func (g *Gateway) Gallery() *artifact.Gallery {
	return g.gallery
}

func (g *Gateway) ProviderName() string {
	return g.provider.Name()
}

// Ask sends a single text prompt and returns the whole answer.
func (g *Gateway) Ask(ctx context.Context, prompt string, cfg model.GenerationConfig) (string, error) {
	log := logging.NewLogger(ctx)

	req, err := Encode(prompt, model.CapabilityText, cfg)
	if err != nil {
		return "", err
	}

	resp, err := g.provider.GenerateText(ctx, req)
	if err != nil {
		return "", fail(ctx, model.CapabilityText, utils.MarkIfNotNil(model.ErrTransport, err))
	}
	logMetadata(log, resp)
	return DecodeText(resp), nil
}

// Chat streams one reply. subscriber sees the cumulative text after each
// fragment and FailedResponseMessage if the stream breaks.
func (g *Gateway) Chat(ctx context.Context, prompt string, cfg model.GenerationConfig, subscriber Subscriber) (string, error) {
	req, err := Encode(prompt, model.CapabilityText, cfg)
	if err != nil {
		return "", err
	}

	text, err := NewSession(g.provider, req, subscriber).Run(ctx)
	if err != nil {
		return "", fail(ctx, model.CapabilityText, err)
	}
	return text, nil
}

// GenerateImage returns the image as a data:image/png;base64 URI.
func (g *Gateway) GenerateImage(ctx context.Context, prompt string, cfg model.GenerationConfig) (string, error) {
	log := logging.NewLogger(ctx)

	req, err := Encode(prompt, model.CapabilityImage, cfg)
	if err != nil {
		return "", err
	}

	resp, err := g.provider.GenerateImage(ctx, req)
	if err != nil {
		return "", fail(ctx, model.CapabilityImage, utils.MarkIfNotNil(model.ErrTransport, err))
	}
	logMetadata(log, resp)

	uri, err := DecodeImage(resp)
	if err != nil {
		return "", fail(ctx, model.CapabilityImage, err)
	}
	g.record(model.CapabilityImage, req.SourcePrompt, artifact.Payload{URI: uri})
	return uri, nil
}

// Speech is a synthesized utterance in its transport and decoded forms.
type Speech struct {
	Base64 string
	PCM    []byte
	Audio  model.AudioBuffer
}

func (g *Gateway) GenerateSpeech(ctx context.Context, prompt string, voice model.Voice) (*Speech, error) {
	log := logging.NewLogger(ctx)

	req, err := Encode(prompt, model.CapabilitySpeech, model.GenerationConfig{Voice: voice})
	if err != nil {
		return nil, err
	}

	resp, err := g.provider.GenerateSpeech(ctx, req)
	if err != nil {
		return nil, fail(ctx, model.CapabilitySpeech, utils.MarkIfNotNil(model.ErrTransport, err))
	}
	logMetadata(log, resp)

	payload, err := DecodeSpeech(resp)
	if err != nil {
		return nil, fail(ctx, model.CapabilitySpeech, err)
	}
	pcm, err := audio.DecodeBase64(payload)
	if err != nil {
		return nil, fail(ctx, model.CapabilitySpeech, err)
	}
	buf, err := audio.DecodePCM(pcm, audio.DefaultSampleRate, audio.DefaultChannels)
	if err != nil {
		return nil, fail(ctx, model.CapabilitySpeech, err)
	}

	g.record(model.CapabilitySpeech, req.SourcePrompt, artifact.Payload{
		Audio: &buf,
		Blob:  &model.Blob{MIMEType: audio.PCMMIMEType, Data: pcm},
	})
	return &Speech{Base64: payload, PCM: pcm, Audio: buf}, nil
}

// GenerateVideo starts a video job, waits for it and downloads the result.
// onStatus receives the rotating progress text while the job runs; it stops
// before GenerateVideo returns.
func (g *Gateway) GenerateVideo(ctx context.Context, prompt string, cfg model.GenerationConfig, onStatus func(status string)) (*model.Blob, error) {
	log := logging.NewLogger(ctx)
	poller := NewPoller(g.provider, WithPollInterval(g.pollInterval))

	op, err := poller.Start(ctx, prompt, cfg)
	if err != nil {
		return nil, fail(ctx, model.CapabilityVideo, err)
	}
	log.Infof("video operation %q started", op.Name)

	statusCtx, stopStatus := context.WithCancel(ctx)
	var wg sync.WaitGroup
	if onStatus != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			NewStatusRotator(g.statuses, g.statusInterval).Run(statusCtx, onStatus)
		}()
	}

	uri, err := poller.AwaitCompletion(ctx, op)
	stopStatus()
	wg.Wait()
	if err != nil {
		return nil, fail(ctx, model.CapabilityVideo, err)
	}

	blob, err := DecodeVideo(ctx, g.provider, uri)
	if err != nil {
		return nil, fail(ctx, model.CapabilityVideo, err)
	}

	g.record(model.CapabilityVideo, prompt, artifact.Payload{URI: uri, Blob: blob})
	return blob, nil
}

func (g *Gateway) record(capability model.Capability, prompt string, payload artifact.Payload) {
	if g.gallery != nil {
		g.gallery.Add(capability, prompt, payload)
	}
}

func logMetadata(log logging.Logger, resp *model.ContentResponse) {
	if resp == nil || len(resp.Metadata) == 0 {
		return
	}
	log.Debugf("generation metadata provider=%s model=%s latency_ms=%s total_tokens=%s",
		resp.Metadata[model.MetadataKeyProvider],
		resp.Metadata[model.MetadataKeyModel],
		resp.Metadata[model.MetadataKeyLatencyMs],
		resp.Metadata[model.MetadataKeyTotalTokens])
}
