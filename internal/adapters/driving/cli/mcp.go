package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forlark/larkfetch/internal/adapters/driving/mcp"
	"github.com/forlark/larkfetch/internal/logger"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve documents to MCP clients",
	Long: `Run an MCP server exposing document fetching as tools. By default
the server speaks over stdio for direct integration with MCP clients;
pass --port to serve over HTTP instead.`,
	RunE: runMCPServe,
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if fetchService == nil {
		return errors.New("fetch service not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Fetch:       fetchService,
		Auth:        authService,
		Credentials: credService,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf("127.0.0.1:%d", mcpPort)
		logger.Info("MCP server listening on %s", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}

func init() {
	mcpServeCmd.Flags().IntVar(&mcpPort, "port", 0, "Serve over HTTP on this port instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
