package gemini

import (
	"context"
	"encoding/base64"
	"iter"
	"strings"
	"time"

	"github.com/compustack/aether/pkg/logging"
	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
	"google.golang.org/genai"
)

func (p *Provider) GenerateText(ctx context.Context, req model.ProviderRequest) (*model.ContentResponse, error) {
	start := time.Now()
	modelName := p.modelName(model.CapabilityText)
	meta := initMetadata(modelName)
	defer setLatencyMetadata(meta, start)

	log := logging.NewLogger(ctx)
	contents, config := buildTextRequest(req)
	log.Infof("prompt=%q history=%d model=%q", req.SourcePrompt, len(req.Config.History), modelName)

	response, err := p.client.Models.GenerateContent(ctx, modelName, contents, config)
	if err != nil {
		log.Errorf("error: %v", err)
		return nil, utils.WrapIfNotNil(err)
	}
	applyGenerateMetadata(meta, response)
	return mapContentResponse(response, meta), nil
}

// StreamText yields the text of every streamed chunk. The first error ends
// the sequence.
func (p *Provider) StreamText(ctx context.Context, req model.ProviderRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		modelName := p.modelName(model.CapabilityText)
		log := logging.NewLogger(ctx)
		contents, config := buildTextRequest(req)
		log.Infof("stream prompt=%q history=%d model=%q", req.SourcePrompt, len(req.Config.History), modelName)

		chunks := 0
		for response, err := range p.client.Models.GenerateContentStream(ctx, modelName, contents, config) {
			if err != nil {
				log.Errorf("error: %v", err)
				yield("", utils.WrapIfNotNil(err))
				return
			}
			chunks++
			if !yield(responseText(response), nil) {
				return
			}
		}
		log.Debugf("gemini stream finished chunks=%d", chunks)
	}
}

func buildTextRequest(req model.ProviderRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	contents := make([]*genai.Content, 0, len(req.Config.History)+1)
	for _, turn := range req.Config.History {
		text := strings.TrimSpace(turn.Text)
		if text == "" {
			continue
		}
		role := genai.Role(genai.RoleUser)
		if turn.Role == model.TurnRoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(text, role))
	}
	contents = append(contents, genai.NewContentFromText(req.Prompt, genai.RoleUser))

	config := &genai.GenerateContentConfig{}
	if instruction := strings.TrimSpace(req.Config.SystemInstruction); instruction != "" {
		config.SystemInstruction = genai.NewContentFromText(instruction, genai.RoleUser)
	}
	return contents, config
}

// mapContentResponse keeps the first candidate's parts. Inline bytes are
// re-encoded as standard base64, the form the API delivers them in.
func mapContentResponse(response *genai.GenerateContentResponse, meta model.GenerationMetadata) *model.ContentResponse {
	out := &model.ContentResponse{Metadata: meta}
	if response == nil {
		return out
	}
	out.Text = strings.TrimSpace(responseText(response))

	if len(response.Candidates) == 0 || response.Candidates[0] == nil || response.Candidates[0].Content == nil {
		return out
	}
	for _, part := range response.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		mapped := model.Part{Text: part.Text}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			mapped.InlineData = &model.InlineData{
				MIMEType: part.InlineData.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(part.InlineData.Data),
			}
		}
		out.Parts = append(out.Parts, mapped)
	}
	return out
}

// responseText concatenates the text parts of the first candidate, leaving
// out thought parts.
func responseText(response *genai.GenerateContentResponse) string {
	if response == nil || len(response.Candidates) == 0 || response.Candidates[0] == nil || response.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
