// Package artifact keeps the media generated during one session in memory.
// Nothing here is persisted; dropping the Gallery discards its artifacts.
package artifact

import (
	"sync"
	"time"

	"github.com/compustack/aether/pkg/model"
	"github.com/google/uuid"
)

// Payload carries the URI of images and videos, the decoded Audio of
// speech, and the raw Blob of speech and video.
type Payload struct {
	URI   string
	Audio *model.AudioBuffer
	Blob  *model.Blob
}

type GeneratedArtifact struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	Capability   model.Capability
	SourcePrompt string
	Payload      Payload
}

type Gallery struct {
	mu        sync.RWMutex
	artifacts []GeneratedArtifact
	now       func() time.Time
}

func NewGallery() *Gallery {
	return &Gallery{now: time.Now}
}

// Add records a new artifact ahead of the existing ones and returns it.
func (g *Gallery) Add(capability model.Capability, prompt string, payload Payload) GeneratedArtifact {
	g.mu.Lock()
	defer g.mu.Unlock()

	a := GeneratedArtifact{
		ID:           uuid.New(),
		CreatedAt:    g.now(),
		Capability:   capability,
		SourcePrompt: prompt,
		Payload:      payload,
	}
	g.artifacts = append([]GeneratedArtifact{a}, g.artifacts...)
	return a
}

// List returns the artifacts newest first, optionally limited to one capability.
func (g *Gallery) List(capability model.Capability) []GeneratedArtifact {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]GeneratedArtifact, 0, len(g.artifacts))
	for _, a := range g.artifacts {
		if capability == "" || a.Capability == capability {
			out = append(out, a)
		}
	}
	return out
}

func (g *Gallery) Get(id uuid.UUID) (GeneratedArtifact, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, a := range g.artifacts {
		if a.ID == id {
			return a, true
		}
	}
	return GeneratedArtifact{}, false
}

func (g *Gallery) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.artifacts)
}

func (g *Gallery) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.artifacts = nil
}
