package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfrag/internal/adapters/driving/api"
)

var (
	serveAddr string
	serveFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the ingestion and retrieval operations over HTTP.

Routes:
  POST /upload/   multipart field "file"
  GET  /chunks    current chunk texts
  GET  /search    ?q=&k=&mode=vector|keyword
  GET  /status    ingestion state
  GET  /healthz   liveness
  GET  /metrics   Prometheus metrics

Examples:
  pdfrag serve --addr :8000
  curl -F file=@paper.pdf localhost:8000/upload/`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8000", "listen address")
	serveCmd.Flags().StringVarP(&serveFile, "file", "f", "", "ingest this file before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if ingestionService == nil {
		return errNotConfigured("ingestion")
	}
	if searchService == nil {
		return errNotConfigured("search")
	}
	if err := preload(cmd, serveFile); err != nil {
		return err
	}

	server, err := api.NewServer(&api.Ports{
		Ingestion: ingestionService,
		Search:    searchService,
		Metrics:   metricsHandler,
	})
	if err != nil {
		return err
	}

	cmd.Printf("HTTP API listening on %s\n", serveAddr)
	return server.Run(cmd.Context(), serveAddr)
}
