package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfrag/internal/core/services"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-ingest a document whenever it changes",
	Long: `Ingests the file, then re-ingests it in full every time it is written.
Each outcome is printed as one JSON line. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", services.DefaultDebounce, "quiet period before re-ingesting")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errNotConfigured("ingestion")
	}
	if documentLoader == nil {
		return errNotConfigured("document loader")
	}
	if fileWatcher == nil {
		return errNotConfigured("file watcher")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	w := services.NewWatcher(ingestionService, fileWatcher, documentLoader, watchDebounce,
		func(res services.WatchResult) {
			if res.Err != nil {
				logger.Warn("re-ingest failed: %v", res.Err)
				_ = writeJSON(out, ingestResult{Error: res.Err.Error()})
				return
			}
			n := res.Report.ChunksCreated
			_ = writeJSON(out, ingestResult{Status: "success", ChunksCreated: &n})
		})

	logger.Info("watching %s", args[0])
	return w.Start(ctx, args[0])
}
