package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/compustack/aether/pkg/logging"
	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
)

// DefaultPollInterval is the fixed wait between video job polls.
const DefaultPollInterval = 5 * time.Second

var errEmptyOperation = errors.New("provider returned no operation")

type VideoJobs interface {
	StartVideoJob(ctx context.Context, req model.ProviderRequest) (*model.Operation, error)
	PollVideoJob(ctx context.Context, op model.Operation) (*model.Operation, error)
}

// Poller waits for a video job at a fixed interval. There is no backoff,
// attempt limit or timeout; only ctx stops it early.
type Poller struct {
	jobs     VideoJobs
	interval time.Duration
}

type PollerOption func(*Poller)

func WithPollInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

func NewPoller(jobs VideoJobs, opts ...PollerOption) *Poller {
	p := &Poller{jobs: jobs, interval: DefaultPollInterval}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Poller) Start(ctx context.Context, prompt string, cfg model.GenerationConfig) (model.Operation, error) {
	req, err := Encode(prompt, model.CapabilityVideo, cfg)
	if err != nil {
		return model.Operation{}, utils.WrapIfNotNil(err)
	}

	op, err := p.jobs.StartVideoJob(ctx, req)
	if err != nil {
		return model.Operation{}, utils.MarkIfNotNil(model.ErrTransport, err)
	}
	if op == nil {
		return model.Operation{}, utils.MarkIfNotNil(model.ErrTransport, errEmptyOperation)
	}
	return *op, nil
}

// AwaitCompletion polls until op is done and returns its asset URI.
func (p *Poller) AwaitCompletion(ctx context.Context, op model.Operation) (string, error) {
	log := logging.NewLogger(ctx)
	current := op
	attempt := 0

	for !current.Done {
		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", utils.WrapIfNotNil(ctx.Err())
		case <-timer.C:
		}

		attempt++
		next, err := p.jobs.PollVideoJob(ctx, current)
		if err != nil {
			return "", utils.MarkIfNotNil(model.ErrTransport, err)
		}
		if next == nil {
			return "", utils.MarkIfNotNil(model.ErrTransport, errEmptyOperation)
		}
		current = advance(current, *next)
		log.Debugf("video operation %q poll=%d done=%t", current.Name, attempt, current.Done)
	}

	if strings.TrimSpace(current.ResultURI) == "" {
		return "", utils.WrapIfNotNil(model.ErrMissingAsset)
	}
	return current.ResultURI, nil
}

// advance applies a poll result. Done never goes back to false and the
// operation keeps its name when the provider omits it.
func advance(prev model.Operation, next model.Operation) model.Operation {
	if next.Name == "" {
		next.Name = prev.Name
	}
	if prev.Done {
		next.Done = true
		if next.ResultURI == "" {
			next.ResultURI = prev.ResultURI
		}
	}
	return next
}
