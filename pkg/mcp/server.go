// Package mcp exposes the generation gateway and the CRM workspace as MCP tools.
package mcp

import (
	"context"
	"io"

	"github.com/compustack/aether/pkg/artifact"
	"github.com/compustack/aether/pkg/crm"
	"github.com/compustack/aether/pkg/gateway"
	"github.com/compustack/aether/pkg/logging"
	"github.com/compustack/aether/pkg/utils"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "aether"
	serverVersion = "1.0.0"
)

type Server struct {
	gw      *gateway.Gateway
	ws      *crm.Workspace
	gallery *artifact.Gallery
	mcp     *server.MCPServer
}

type toolDef struct {
	name        string
	description string
	args        any
	handler     server.ToolHandlerFunc
}

// NewServer registers the tools over gw and ws. The artifact tools read the
// gallery attached to gw and report no artifacts when it has none.
func NewServer(gw *gateway.Gateway, ws *crm.Workspace) (*Server, error) {
	s := &Server{
		gw:      gw,
		ws:      ws,
		gallery: gw.Gallery(),
		mcp:     server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false)),
	}

	for _, def := range s.toolDefs() {
		schema, err := reflectSchema(def.args)
		if err != nil {
			return nil, utils.WrapIfNotNil(err, def.name)
		}
		s.mcp.AddTool(mcp.NewToolWithRawSchema(def.name, def.description, schema), def.handler)
	}
	return s, nil
}

// MCPServer returns the underlying server, for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves requests on in and out until ctx is cancelled or in closes.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	logging.NewLogger(ctx).Infof("mcp server %s %s listening on stdio", serverName, serverVersion)
	err := server.NewStdioServer(s.mcp).Listen(ctx, in, out)
	if err != nil && ctx.Err() == nil {
		return utils.WrapIfNotNil(err)
	}
	return nil
}

func (s *Server) toolDefs() []toolDef {
	return []toolDef{
		{"ask", "Answer a prompt with the text model.", &askArgs{}, s.handleAsk},
		{"generate_image", "Generate an image from a description.", &imageArgs{}, s.handleImage},
		{"generate_speech", "Synthesize speech from text with a prebuilt voice.", &speechArgs{}, s.handleSpeech},
		{"generate_video", "Generate a short video clip. This can take several minutes.", &videoArgs{}, s.handleVideo},
		{"list_artifacts", "List the images, speech and videos generated in this session, newest first.", &listArtifactsArgs{}, s.handleListArtifacts},
		{"get_artifact", "Return one generated artifact by id.", &artifactArgs{}, s.handleGetArtifact},
		{"crm_login", "Log in to the CRM. Required before any change.", &loginArgs{}, s.handleLogin},
		{"crm_list_clients", "List clients, optionally filtered by name or email.", &searchArgs{}, s.handleListClients},
		{"crm_save_client", "Create a client, or update one when id is set.", &clientArgs{}, s.handleSaveClient},
		{"crm_delete_client", "Delete a client.", &idArgs{}, s.handleDeleteClient},
		{"crm_list_products", "List the product catalogue.", &emptyArgs{}, s.handleListProducts},
		{"crm_save_product", "Create a product, or update one when id is set.", &productArgs{}, s.handleSaveProduct},
		{"crm_delete_product", "Delete a product.", &idArgs{}, s.handleDeleteProduct},
		{"crm_create_order", "Book one product for one client.", &orderArgs{}, s.handleCreateOrder},
		{"crm_delete_order", "Delete an order.", &idArgs{}, s.handleDeleteOrder},
		{"crm_dashboard", "Show order, revenue and client figures.", &emptyArgs{}, s.handleDashboard},
		{"crm_insights", "Ask the text model for business recommendations based on the dashboard.", &insightsArgs{}, s.handleInsights},
	}
}
