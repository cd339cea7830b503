package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"time"

	"github.com/compustack/aether/pkg/logging"
	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
	ollamasdk "github.com/rozoomcool/go-ollama-sdk"
)

const maxStreamLineBytes = 1 << 20

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model           string      `json:"model"`
	Message         chatMessage `json:"message"`
	Done            bool        `json:"done"`
	DoneReason      string      `json:"done_reason,omitempty"`
	PromptEvalCount int64       `json:"prompt_eval_count,omitempty"`
	EvalCount       int64       `json:"eval_count,omitempty"`
	Error           string      `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (p *Provider) GenerateText(ctx context.Context, req model.ProviderRequest) (*model.ContentResponse, error) {
	start := time.Now()
	modelName := p.cfg.ModelFor(model.CapabilityText, DefaultTextModel)
	meta := initMetadata(modelName)
	defer setLatencyMetadata(meta, start)

	log := logging.NewLogger(ctx)
	log.Infof("prompt=%q history=%d model=%q base_url=%q", req.SourcePrompt, len(req.Config.History), modelName, p.baseURL)

	body, err := p.post(ctx, chatRequest{Model: modelName, Messages: toWire(buildMessages(req)), Stream: false})
	if err != nil {
		log.Errorf("error: %v", err)
		return nil, utils.WrapIfNotNil(err)
	}
	defer body.Close()

	var response chatResponse
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		log.Errorf("error: %v", err)
		return nil, utils.WrapIfNotNil(err)
	}
	if message := strings.TrimSpace(response.Error); message != "" {
		err = errors.New(message)
		log.Errorf("error: %v", err)
		return nil, utils.WrapIfNotNil(err)
	}
	applyUsageMetadata(meta, &response)

	return &model.ContentResponse{Text: strings.TrimSpace(response.Message.Content), Metadata: meta}, nil
}

// StreamText reads the newline-delimited chat stream until the final chunk
// reports done.
func (p *Provider) StreamText(ctx context.Context, req model.ProviderRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		modelName := p.cfg.ModelFor(model.CapabilityText, DefaultTextModel)
		log := logging.NewLogger(ctx)
		log.Infof("stream prompt=%q history=%d model=%q base_url=%q", req.SourcePrompt, len(req.Config.History), modelName, p.baseURL)

		body, err := p.post(ctx, chatRequest{Model: modelName, Messages: toWire(buildMessages(req)), Stream: true})
		if err != nil {
			log.Errorf("error: %v", err)
			yield("", utils.WrapIfNotNil(err))
			return
		}
		defer body.Close()

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), maxStreamLineBytes)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			var chunk chatResponse
			if err := json.Unmarshal(line, &chunk); err != nil {
				log.Errorf("error: %v", err)
				yield("", utils.WrapIfNotNil(err))
				return
			}
			if message := strings.TrimSpace(chunk.Error); message != "" {
				err = errors.New(message)
				log.Errorf("error: %v", err)
				yield("", utils.WrapIfNotNil(err))
				return
			}
			if chunk.Message.Content != "" {
				if !yield(chunk.Message.Content, nil) {
					return
				}
			}
			if chunk.Done {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			log.Errorf("error: %v", err)
			yield("", utils.WrapIfNotNil(err))
			return
		}
		yield("", utils.WrapIfNotNil(io.ErrUnexpectedEOF))
	}
}

func (p *Provider) post(ctx context.Context, request chatRequest) (io.ReadCloser, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	if request.Stream {
		httpRequest.Header.Set("Accept", "application/x-ndjson")
	} else {
		httpRequest.Header.Set("Accept", "application/json")
	}

	httpResponse, err := p.httpClient.Do(httpRequest)
	if err != nil {
		return nil, utils.WrapIfNotNil(fmt.Errorf("%w: %w", model.ErrTransport, err))
	}

	if httpResponse.StatusCode < http.StatusOK || httpResponse.StatusCode >= http.StatusMultipleChoices {
		defer httpResponse.Body.Close()
		rawBody, _ := io.ReadAll(httpResponse.Body)

		var apiError errorResponse
		if unmarshalErr := json.Unmarshal(rawBody, &apiError); unmarshalErr == nil && strings.TrimSpace(apiError.Error) != "" {
			return nil, utils.WrapIfNotNil(
				fmt.Errorf("ollama chat request failed with status %d: %s", httpResponse.StatusCode, apiError.Error),
			)
		}
		return nil, utils.WrapIfNotNil(
			fmt.Errorf("ollama chat request failed with status %d: %s", httpResponse.StatusCode, strings.TrimSpace(string(rawBody))),
		)
	}
	return httpResponse.Body, nil
}

func buildMessages(req model.ProviderRequest) []ollamasdk.ChatMessage {
	messages := make([]ollamasdk.ChatMessage, 0, len(req.Config.History)+2)
	if instruction := strings.TrimSpace(req.Config.SystemInstruction); instruction != "" {
		messages = append(messages, ollamasdk.ChatMessage{Role: "system", Content: instruction})
	}
	for _, turn := range req.Config.History {
		text := strings.TrimSpace(turn.Text)
		if text == "" {
			continue
		}
		role := "user"
		if turn.Role == model.TurnRoleModel {
			role = "assistant"
		}
		messages = append(messages, ollamasdk.ChatMessage{Role: role, Content: text})
	}
	return append(messages, ollamasdk.ChatMessage{Role: "user", Content: req.Prompt})
}

func toWire(messages []ollamasdk.ChatMessage) []chatMessage {
	out := make([]chatMessage, 0, len(messages))
	for _, message := range messages {
		out = append(out, chatMessage{Role: message.Role, Content: message.Content})
	}
	return out
}
