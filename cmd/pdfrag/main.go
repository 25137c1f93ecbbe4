// Command pdfrag chunks, embeds and searches a PDF document.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/pdfrag/internal/adapters/driven/ai"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/config/env"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/index/flat"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/index/keyword"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/metrics"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pdfrag/internal/adapters/driving/cli"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/core/services"
	"github.com/custodia-labs/pdfrag/internal/extractors"
	"github.com/custodia-labs/pdfrag/internal/logger"
	"github.com/custodia-labs/pdfrag/internal/postprocessors"
)

// version is overridden with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetFactory(build)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// build wires the adapters into the core services.
func build(_ context.Context, opts cli.Options) (*cli.Services, error) {
	if err := env.LoadDotEnv(); err != nil {
		logger.Warn("reading .env: %v", err)
	}

	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, env.New(), ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		logger.Warn("%v. Run 'pdfrag settings embedding' to fix", err)
		embedder = ai.Unavailable(err)
	}

	pipeline, err := postprocessors.BuildPipeline(settings.PipelineConfig())
	if err != nil {
		// Ingestion rejects the same chunking settings before using the pipeline.
		logger.Warn("building pipeline: %v", err)
		pipeline, err = postprocessors.BuildPipeline(domain.DefaultSettings().PipelineConfig())
		if err != nil {
			return nil, fmt.Errorf("building default pipeline: %w", err)
		}
	}

	var (
		history driven.IngestionHistoryStore
		closers []func() error
	)
	store, err := sqlite.NewStore(opts.DataDir)
	if err != nil {
		logger.Warn("opening history database, history will not persist: %v", err)
		history = memory.NewHistoryStore()
	} else {
		history = store.HistoryStore()
		closers = append(closers, store.Close)
	}

	observer := metrics.NewObserver()
	ingestion := services.NewIngestionService(
		extractors.NewDefaultRegistry(settings.OCR),
		pipeline,
		embedder,
		flat.Builder{},
		settings.Chunking,
		services.WithKeywordIndex(keyword.Builder{}),
		services.WithHistory(history),
		services.WithObserver(observer),
		services.WithStateListener(observer.ObserveState),
	)
	watcher := filesystem.NewWatcher()
	closers = append(closers, watcher.Close, ingestion.Close, embedder.Close)

	return &cli.Services{
		Ingestion: ingestion,
		Search:    services.NewSearchService(ingestion, observer),
		History:   services.NewHistoryService(history),
		Settings:  settingsService,
		Loader:    filesystem.NewLoader(filesystem.DefaultMaxFileSize),
		Files:     watcher,
		Metrics:   observer.Handler(),
		Close: func() error {
			var errs []error
			for _, c := range closers {
				errs = append(errs, c())
			}
			return errors.Join(errs...)
		},
	}, nil
}
