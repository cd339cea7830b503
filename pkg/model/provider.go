package model

import (
	"context"
	"iter"
)

// Provider is the capability-oriented port over a generative AI vendor.
// Adapters live under pkg/llms.
type Provider interface {
	Name() string
	GenerateText(ctx context.Context, req ProviderRequest) (*ContentResponse, error)
	// StreamText yields text fragments (deltas) in arrival order.
	StreamText(ctx context.Context, req ProviderRequest) iter.Seq2[string, error]
	GenerateImage(ctx context.Context, req ProviderRequest) (*ContentResponse, error)
	GenerateSpeech(ctx context.Context, req ProviderRequest) (*ContentResponse, error)
	StartVideoJob(ctx context.Context, req ProviderRequest) (*Operation, error)
	PollVideoJob(ctx context.Context, op Operation) (*Operation, error)
	DownloadAsset(ctx context.Context, uri string) (*Blob, error)
}
