package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Extract, chunk and embed a document",
	Long: `Extracts the text of a PDF, image-only PDF, Markdown or plain text file,
splits it into overlapping word windows and embeds them.

Prints {"status":"success","chunks_created":N} on success and
{"error":"..."} on failure. With --verbose the page statistics are logged.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	report, err := ingestPath(cmd, args[0])
	if err != nil {
		if werr := writeJSON(cmd.OutOrStdout(), ingestResult{Error: err.Error()}); werr != nil {
			return werr
		}
		return err
	}
	n := report.ChunksCreated
	return writeJSON(cmd.OutOrStdout(), ingestResult{Status: "success", ChunksCreated: &n})
}

// ingestPath loads path and replaces the current snapshot with it.
func ingestPath(cmd *cobra.Command, path string) (*domain.IngestionReport, error) {
	if ingestionService == nil {
		return nil, errNotConfigured("ingestion")
	}
	if documentLoader == nil {
		return nil, errNotConfigured("document loader")
	}

	raw, err := documentLoader.Load(cmd.Context(), path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	report, err := ingestionService.Ingest(cmd.Context(), raw)
	if err != nil {
		return nil, err
	}

	logger.Info("ingested %s: %d chunks, %d pages (%d native, %d OCR), %d dimensions in %s",
		report.Name, report.ChunksCreated, report.Pages, report.NativePages, report.OCRPages,
		report.Dimensions, report.Duration)
	if len(report.FailedOCRPages) > 0 {
		logger.Warn("OCR failed on pages %v of %s", report.FailedOCRPages, report.Name)
	}
	return report, nil
}

// preload ingests path when it is set; used by the --file flags.
func preload(cmd *cobra.Command, path string) error {
	if path == "" {
		return nil
	}
	_, err := ingestPath(cmd, path)
	return err
}
