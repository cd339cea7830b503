package cmd

import (
	"os"

	"github.com/compustack/aether/pkg/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the generation and CRM tools over MCP on stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		gw, err := newGateway(cmd.Context())
		if err != nil {
			return err
		}
		srv, err := mcp.NewServer(gw, newWorkspace())
		if err != nil {
			return err
		}
		return srv.ServeStdio(cmd.Context(), os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
