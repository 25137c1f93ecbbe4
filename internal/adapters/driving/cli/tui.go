package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui"
)

var tuiFile string

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

Ingest a document, page through its chunks and search it with keyboard
navigation.

Controls:
  ↑/k, ↓/j - Navigate
  ←/→      - Previous / next chunk
  Tab      - Toggle vector / keyword search
  Enter    - Submit / Select
  Esc      - Back
  Ctrl+C   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVarP(&tuiFile, "file", "f", "", "ingest this file before starting")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if err := preload(cmd, tuiFile); err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{
		Ingestion: ingestionService,
		Search:    searchService,
		Loader:    documentLoader,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
