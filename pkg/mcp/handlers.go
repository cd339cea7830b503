package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/compustack/aether/pkg/crm"
	"github.com/compustack/aether/pkg/gateway"
	"github.com/compustack/aether/pkg/logging"
	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
	"github.com/mark3labs/mcp-go/mcp"
)

const imageDataURIPrefix = "data:image/png;base64,"

func (s *Server) handleAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args askArgs
	if err := request.BindArguments(&args); err != nil {
		return toolError(ctx, err), nil
	}

	text, err := s.gw.Ask(ctx, args.Prompt, model.GenerationConfig{SystemInstruction: args.SystemInstruction})
	if err != nil {
		return toolError(ctx, err), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleImage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args imageArgs
	if err := request.BindArguments(&args); err != nil {
		return toolError(ctx, err), nil
	}

	uri, err := s.gw.GenerateImage(ctx, args.Prompt, model.GenerationConfig{AspectRatio: args.AspectRatio})
	if err != nil {
		return toolError(ctx, err), nil
	}
	return mcp.NewToolResultImage(args.Prompt, strings.TrimPrefix(uri, imageDataURIPrefix), "image/png"), nil
}

func (s *Server) handleSpeech(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args speechArgs
	if err := request.BindArguments(&args); err != nil {
		return toolError(ctx, err), nil
	}

	var voice model.Voice
	if args.Voice != "" {
		parsed, err := model.ParseVoice(args.Voice)
		if err != nil {
			return toolError(ctx, err), nil
		}
		voice = parsed
	}

	speech, err := s.gw.GenerateSpeech(ctx, args.Text, voice)
	if err != nil {
		return toolError(ctx, err), nil
	}
	return audioResult(speech.Base64), nil
}

func (s *Server) handleVideo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args videoArgs
	if err := request.BindArguments(&args); err != nil {
		return toolError(ctx, err), nil
	}

	log := logging.NewLogger(ctx)
	blob, err := s.gw.GenerateVideo(ctx, args.Prompt, model.GenerationConfig{
		AspectRatio: args.AspectRatio,
		Resolution:  args.Resolution,
	}, func(status string) {
		log.Info(status)
	})
	if err != nil {
		return toolError(ctx, err), nil
	}
	return blobResult(args.Prompt, blob), nil
}

func (s *Server) handleLogin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args loginArgs
	if err := request.BindArguments(&args); err != nil {
		return toolError(ctx, err), nil
	}
	if err := s.ws.Login(args.Username, args.Password); err != nil {
		return toolError(ctx, err), nil
	}
	return mcp.NewToolResultText("logged in"), nil
}

func (s *Server) handleListClients(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args searchArgs
	if err := request.BindArguments(&args); err != nil {
		return toolError(ctx, err), nil
	}
	return jsonResult(ctx, s.ws.SearchClients(args.Search)), nil
}

func (s *Server) handleSaveClient(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args clientArgs
	if err := request.BindArguments(&args); err != nil {
		return toolError(ctx, err), nil
	}

	client, err := s.ws.SaveClient(crm.Client{
		ID:     args.ID,
		Name:   args.Name,
		Email:  args.Email,
		Phone:  args.Phone,
		Status: crm.ClientStatus(args.Status),
	})
	if err != nil {
		return toolError(ctx, err), nil
	}
	return jsonResult(ctx, client), nil
}

func (s *Server) handleDeleteClient(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.deleteByID(ctx, request, s.ws.DeleteClient)
}

func (s *Server) handleListProducts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(ctx, s.ws.Products()), nil
}

func (s *Server) handleSaveProduct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args productArgs
	if err := request.BindArguments(&args); err != nil {
		return toolError(ctx, err), nil
	}

	product, err := s.ws.SaveProduct(crm.Product{
		ID:       args.ID,
		Name:     args.Name,
		Category: args.Category,
		Price:    args.Price,
		Stock:    args.Stock,
	})
	if err != nil {
		return toolError(ctx, err), nil
	}
	return jsonResult(ctx, product), nil
}

func (s *Server) handleDeleteProduct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.deleteByID(ctx, request, s.ws.DeleteProduct)
}

func (s *Server) handleCreateOrder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args orderArgs
	if err := request.BindArguments(&args); err != nil {
		return toolError(ctx, err), nil
	}

	order, err := s.ws.CreateOrder(args.ClientID, args.ProductID, crm.OrderStatus(args.Status))
	if err != nil {
		return toolError(ctx, err), nil
	}
	return jsonResult(ctx, order), nil
}

func (s *Server) handleDeleteOrder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.deleteByID(ctx, request, s.ws.DeleteOrder)
}

func (s *Server) handleDashboard(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(ctx, s.ws.Dashboard()), nil
}

func (s *Server) handleInsights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args insightsArgs
	if err := request.BindArguments(&args); err != nil {
		return toolError(ctx, err), nil
	}

	text, err := s.gw.Ask(ctx, s.ws.InsightsPrompt(args.Focus), model.GenerationConfig{
		SystemInstruction: crm.InsightsInstruction,
	})
	if err != nil {
		return toolError(ctx, err), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) deleteByID(ctx context.Context, request mcp.CallToolRequest, remove func(id string) error) (*mcp.CallToolResult, error) {
	var args idArgs
	if err := request.BindArguments(&args); err != nil {
		return toolError(ctx, err), nil
	}
	if err := remove(args.ID); err != nil {
		return toolError(ctx, err), nil
	}
	return mcp.NewToolResultText("deleted " + args.ID), nil
}

// toolError reports err to the calling model as tool output. Generation
// failures carry their user-facing message.
func toolError(ctx context.Context, err error) *mcp.CallToolResult {
	if failure, ok := gateway.AsFailure(err); ok {
		return mcp.NewToolResultError(failure.Message)
	}

	logging.NewLogger(ctx).Warnf("tool call rejected: %v", err)
	for _, sentinel := range []error{crm.ErrUnauthorized, crm.ErrInvalidCredentials, crm.ErrNotFound, model.ErrInvalidInput} {
		if errors.Is(err, sentinel) {
			return mcp.NewToolResultError(sentinelMessage(err, sentinel))
		}
	}
	return mcp.NewToolResultError(err.Error())
}

// sentinelMessage returns the first message in the chain that starts with
// the sentinel text, skipping the caller prefixes added by utils.WrapIfNotNil.
func sentinelMessage(err error, sentinel error) string {
	for ; err != nil; err = errors.Unwrap(err) {
		if strings.HasPrefix(err.Error(), sentinel.Error()) {
			return err.Error()
		}
	}
	return sentinel.Error()
}

func jsonResult(ctx context.Context, v any) *mcp.CallToolResult {
	raw, err := json.Marshal(v)
	if err != nil {
		return toolError(ctx, utils.WrapIfNotNil(err))
	}
	return mcp.NewToolResultText(string(raw))
}
