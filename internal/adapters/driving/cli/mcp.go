package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfrag/internal/adapters/driving/mcp"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

Tools:
  ingest_document  extract, chunk and embed a file by path
  list_chunks      chunk texts of the current document
  search_chunks    nearest chunks for a query

By default, the server communicates over stdio using JSON-RPC.
Use --port to serve streamable HTTP instead.

Examples:
  pdfrag mcp serve
  pdfrag mcp serve --port 8080 --file paper.pdf

Desktop client configuration:
  {
    "mcpServers": {
      "pdfrag": {
        "command": "/path/to/pdfrag",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

var mcpFile string

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringVarP(&mcpFile, "file", "f", "", "ingest this file before serving")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if port == 0 {
		// stdout carries JSON-RPC; keep stderr to errors only.
		logger.SetQuiet(true)
		logger.SetVerbose(false)
	}

	if err := preload(cmd, mcpFile); err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Ingestion: ingestionService,
		Search:    searchService,
		Loader:    documentLoader,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
