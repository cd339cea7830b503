package bedrock

import (
	"context"
	"errors"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	bedrocktypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/compustack/aether/pkg/logging"
	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
)

func (p *Provider) GenerateText(ctx context.Context, req model.ProviderRequest) (*model.ContentResponse, error) {
	start := time.Now()
	modelName := p.cfg.ModelFor(model.CapabilityText, DefaultTextModel)
	meta := initMetadata(modelName)
	defer setLatencyMetadata(meta, start)

	log := logging.NewLogger(ctx)
	log.Infof("prompt=%q history=%d model=%q", req.SourcePrompt, len(req.Config.History), modelName)

	system, messages := buildMessages(req)
	output, err := p.apiClient.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId:  aws.String(modelName),
		Messages: messages,
		System:   system,
	})
	if err != nil {
		log.Errorf("error: %v", err)
		return nil, utils.WrapIfNotNil(err)
	}
	applyConverseMetadata(meta, output)

	message, ok := output.Output.(*bedrocktypes.ConverseOutputMemberMessage)
	if !ok || message == nil {
		err = errors.New("converse output is not a message")
		log.Errorf("error: %v", err)
		return nil, utils.WrapIfNotNil(err)
	}
	return &model.ContentResponse{Text: extractText(message.Value), Metadata: meta}, nil
}

func (p *Provider) StreamText(ctx context.Context, req model.ProviderRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		modelName := p.cfg.ModelFor(model.CapabilityText, DefaultTextModel)
		log := logging.NewLogger(ctx)
		log.Infof("stream prompt=%q history=%d model=%q", req.SourcePrompt, len(req.Config.History), modelName)

		system, messages := buildMessages(req)
		output, err := p.apiClient.ConverseStream(ctx, &bedrockruntime.ConverseStreamInput{
			ModelId:  aws.String(modelName),
			Messages: messages,
			System:   system,
		})
		if err != nil {
			log.Errorf("error: %v", err)
			yield("", utils.WrapIfNotNil(err))
			return
		}

		stream := output.GetStream()
		defer stream.Close()

		for event := range stream.Events() {
			text, ok := textDelta(event)
			if !ok {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
		if err := stream.Err(); err != nil {
			log.Errorf("error: %v", err)
			yield("", utils.WrapIfNotNil(err))
		}
	}
}

// buildMessages maps the system instruction and chat history onto Converse
// blocks. Blank turns are dropped and the prompt is the last user message.
func buildMessages(req model.ProviderRequest) ([]bedrocktypes.SystemContentBlock, []bedrocktypes.Message) {
	var system []bedrocktypes.SystemContentBlock
	if instruction := strings.TrimSpace(req.Config.SystemInstruction); instruction != "" {
		system = append(system, &bedrocktypes.SystemContentBlockMemberText{Value: instruction})
	}

	messages := make([]bedrocktypes.Message, 0, len(req.Config.History)+1)
	for _, turn := range req.Config.History {
		text := strings.TrimSpace(turn.Text)
		if text == "" {
			continue
		}
		role := bedrocktypes.ConversationRoleUser
		if turn.Role == model.TurnRoleModel {
			role = bedrocktypes.ConversationRoleAssistant
		}
		messages = append(messages, textMessage(role, text))
	}
	messages = append(messages, textMessage(bedrocktypes.ConversationRoleUser, req.Prompt))
	return system, messages
}

func textMessage(role bedrocktypes.ConversationRole, text string) bedrocktypes.Message {
	return bedrocktypes.Message{
		Role: role,
		Content: []bedrocktypes.ContentBlock{
			&bedrocktypes.ContentBlockMemberText{Value: text},
		},
	}
}

func extractText(message bedrocktypes.Message) string {
	parts := make([]string, 0, len(message.Content))
	for _, block := range message.Content {
		textBlock, ok := block.(*bedrocktypes.ContentBlockMemberText)
		if !ok || textBlock == nil {
			continue
		}
		if value := strings.TrimSpace(textBlock.Value); value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, "\n")
}

// textDelta returns the text carried by a content block delta event.
func textDelta(event bedrocktypes.ConverseStreamOutput) (string, bool) {
	delta, ok := event.(*bedrocktypes.ConverseStreamOutputMemberContentBlockDelta)
	if !ok || delta == nil {
		return "", false
	}
	text, ok := delta.Value.Delta.(*bedrocktypes.ContentBlockDeltaMemberText)
	if !ok || text == nil {
		return "", false
	}
	return text.Value, true
}

func applyConverseMetadata(meta model.GenerationMetadata, output *bedrockruntime.ConverseOutput) {
	if meta == nil || output == nil {
		return
	}

	if output.Usage != nil {
		meta[model.MetadataKeyInputTokens] = strconv.FormatInt(int64(aws.ToInt32(output.Usage.InputTokens)), 10)
		meta[model.MetadataKeyOutputTokens] = strconv.FormatInt(int64(aws.ToInt32(output.Usage.OutputTokens)), 10)
		meta[model.MetadataKeyTotalTokens] = strconv.FormatInt(int64(aws.ToInt32(output.Usage.TotalTokens)), 10)
		meta[model.MetadataKeyCachedInputTokens] = strconv.FormatInt(int64(aws.ToInt32(output.Usage.CacheReadInputTokens)), 10)
	}
	if output.Metrics != nil && aws.ToInt64(output.Metrics.LatencyMs) > 0 {
		meta[model.MetadataKeyLatencyMs] = strconv.FormatInt(aws.ToInt64(output.Metrics.LatencyMs), 10)
	}
	if stopReason := strings.TrimSpace(string(output.StopReason)); stopReason != "" {
		meta[model.MetadataKeyResponseStatus] = stopReason
	}
}
