package gateway

import (
	"context"
	"time"
)

// DefaultStatusInterval is how often the cosmetic video status advances.
const DefaultStatusInterval = 12 * time.Second

// VideoStatuses are informational only; they do not track poll progress.
var VideoStatuses = []string{
	"Analyzing creative parameters...",
	"Sampling cinematic textures...",
	"Generating temporal frames...",
	"Optimizing motion vectors...",
	"Finalizing high-fidelity output...",
}

type StatusRotator struct {
	statuses []string
	interval time.Duration
}

func NewStatusRotator(statuses []string, interval time.Duration) *StatusRotator {
	if interval <= 0 {
		interval = DefaultStatusInterval
	}
	return &StatusRotator{
		statuses: append([]string(nil), statuses...),
		interval: interval,
	}
}

// Run publishes the first status at once, then the next one on every tick,
// wrapping around, until ctx is cancelled.
func (r *StatusRotator) Run(ctx context.Context, publish func(status string)) {
	if len(r.statuses) == 0 || publish == nil {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	idx := 0
	publish(r.statuses[idx])
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			idx = (idx + 1) % len(r.statuses)
			publish(r.statuses[idx])
		}
	}
}
