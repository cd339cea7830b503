package mcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/compustack/aether/pkg/artifact"
	"github.com/compustack/aether/pkg/audio"
	"github.com/compustack/aether/pkg/model"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

type artifactSummary struct {
	ID           string           `json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	Capability   model.Capability `json:"capability"`
	SourcePrompt string           `json:"source_prompt"`
	MIMEType     string           `json:"mime_type,omitempty"`
	Bytes        int              `json:"bytes,omitempty"`
}

func summarize(a artifact.GeneratedArtifact) artifactSummary {
	out := artifactSummary{
		ID:           a.ID.String(),
		CreatedAt:    a.CreatedAt,
		Capability:   a.Capability,
		SourcePrompt: a.SourcePrompt,
	}
	switch {
	case a.Payload.Blob != nil:
		out.MIMEType = a.Payload.Blob.MIMEType
		out.Bytes = len(a.Payload.Blob.Data)
	case strings.HasPrefix(a.Payload.URI, imageDataURIPrefix):
		out.MIMEType = "image/png"
		out.Bytes = base64.StdEncoding.DecodedLen(len(a.Payload.URI) - len(imageDataURIPrefix))
	}
	return out
}

func (s *Server) handleListArtifacts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listArtifactsArgs
	if err := request.BindArguments(&args); err != nil {
		return toolError(ctx, err), nil
	}
	capability := model.Capability(args.Capability)
	if capability != "" && !capability.Valid() {
		return toolError(ctx, fmt.Errorf("%w: unknown capability %q", model.ErrInvalidInput, args.Capability)), nil
	}

	out := make([]artifactSummary, 0)
	if s.gallery != nil {
		for _, a := range s.gallery.List(capability) {
			out = append(out, summarize(a))
		}
	}
	return jsonResult(ctx, out), nil
}

func (s *Server) handleGetArtifact(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args artifactArgs
	if err := request.BindArguments(&args); err != nil {
		return toolError(ctx, err), nil
	}
	id, err := uuid.Parse(strings.TrimSpace(args.ID))
	if err != nil {
		return toolError(ctx, fmt.Errorf("%w: artifact id %q", model.ErrInvalidInput, args.ID)), nil
	}

	var a artifact.GeneratedArtifact
	found := false
	if s.gallery != nil {
		a, found = s.gallery.Get(id)
	}
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("artifact %s not found", id)), nil
	}

	switch {
	case a.Capability == model.CapabilityImage:
		return mcp.NewToolResultImage(a.SourcePrompt, strings.TrimPrefix(a.Payload.URI, imageDataURIPrefix), "image/png"), nil
	case a.Capability == model.CapabilitySpeech && a.Payload.Blob != nil:
		return audioResult(base64.StdEncoding.EncodeToString(a.Payload.Blob.Data)), nil
	case a.Payload.Blob != nil:
		return blobResult(a.SourcePrompt, a.Payload.Blob), nil
	default:
		return jsonResult(ctx, summarize(a)), nil
	}
}

func audioResult(data string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.AudioContent{Type: "audio", Data: data, MIMEType: audio.PCMMIMEType},
		},
	}
}

// blobResult embeds the downloaded bytes as a base64 blob resource.
func blobResult(title string, blob *model.Blob) *mcp.CallToolResult {
	return mcp.NewToolResultResource(
		fmt.Sprintf("%s (%s, %d bytes)", title, blob.MIMEType, len(blob.Data)),
		mcp.BlobResourceContents{
			URI:      blob.URI,
			MIMEType: blob.MIMEType,
			Blob:     base64.StdEncoding.EncodeToString(blob.Data),
		},
	)
}
