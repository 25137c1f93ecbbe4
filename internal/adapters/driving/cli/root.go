// Package cli provides the pdfrag command line interface.
// Commands are cobra commands registered on rootCmd from each file's init.
package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// version is set at build time via -ldflags or SetVersion.
var version = "dev"

// Options are the global flags passed to the service factory.
type Options struct {
	// ConfigDir overrides ~/.pdfrag.
	ConfigDir string

	// DataDir overrides ~/.pdfrag/data.
	DataDir string
}

// Services holds everything the commands drive.
type Services struct {
	Ingestion driving.IngestionService
	Search    driving.SearchService
	History   driving.HistoryService
	Settings  driving.SettingsService

	Loader driven.DocumentLoader
	Files  driven.FileWatcher

	// Metrics serves the Prometheus exposition; may be nil.
	Metrics http.Handler

	// Close releases stores and indexes; may be nil.
	Close func() error
}

// Factory builds the services once flags are parsed.
type Factory func(ctx context.Context, opts Options) (*Services, error)

var (
	ingestionService driving.IngestionService
	searchService    driving.SearchService
	historyService   driving.HistoryService
	settingsService  driving.SettingsService
	documentLoader   driven.DocumentLoader
	fileWatcher      driven.FileWatcher
	metricsHandler   http.Handler
	closeServices    func() error

	factory Factory

	verbose bool
	quiet   bool
	options Options
)

var rootCmd = &cobra.Command{
	Use:   "pdfrag",
	Short: "Chunk, embed and search PDF documents",
	Long: `pdfrag extracts text from a PDF (falling back to OCR for scanned pages),
splits it into overlapping word windows, embeds every window and answers
nearest-neighbour queries over the current document.

One document is held at a time; ingesting another replaces it.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress warnings")
	rootCmd.PersistentFlags().StringVar(&options.ConfigDir, "config", "", "config directory (default ~/.pdfrag)")
	rootCmd.PersistentFlags().StringVar(&options.DataDir, "data", "", "data directory (default ~/.pdfrag/data)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetFactory registers the builder called before any command runs.
func SetFactory(f Factory) {
	factory = f
}

// SetServices installs already built services. Used by tests and embedders.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	ingestionService = s.Ingestion
	searchService = s.Search
	historyService = s.History
	settingsService = s.Settings
	documentLoader = s.Loader
	fileWatcher = s.Files
	metricsHandler = s.Metrics
	closeServices = s.Close
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer func() {
		if err := teardown(); err != nil {
			logger.Warn("closing services: %v", err)
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetQuiet(quiet)

	if factory == nil || ingestionService != nil {
		return nil
	}
	s, err := factory(cmd.Context(), options)
	if err != nil {
		return err
	}
	SetServices(s)
	return nil
}

func teardown() error {
	if closeServices == nil {
		return nil
	}
	fn := closeServices
	closeServices = nil
	return fn()
}

// errNotConfigured is returned when a command runs without its service.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}
