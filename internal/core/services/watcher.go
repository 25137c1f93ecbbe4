package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// DefaultDebounce is how long a file must be quiet before it is re-ingested.
const DefaultDebounce = 500 * time.Millisecond

// WatchResult is reported after every ingestion the watcher triggers.
type WatchResult struct {
	Report *domain.IngestionReport
	Err    error
}

// Watcher re-ingests a file whenever it changes.
// Every change triggers a full ingestion; the index is never patched.
type Watcher struct {
	ingestion driving.IngestionService
	files     driven.FileWatcher
	loader    driven.DocumentLoader
	debounce  time.Duration
	onResult  func(WatchResult)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewWatcher creates a watcher. onResult may be nil.
func NewWatcher(
	ingestion driving.IngestionService,
	files driven.FileWatcher,
	loader driven.DocumentLoader,
	debounce time.Duration,
	onResult func(WatchResult),
) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		ingestion: ingestion,
		files:     files,
		loader:    loader,
		debounce:  debounce,
		onResult:  onResult,
	}
}

// Start ingests path once and then again after every change.
// It blocks until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context, path string) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		// A Stop followed by a new Start hands the watcher to another run.
		if w.stopCh == stopCh {
			w.running = false
		}
		w.mu.Unlock()
	}()

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes, errs, err := w.files.Watch(watchCtx, path)
	if err != nil {
		return err
	}

	w.ingest(ctx, path)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			// Editors often write a file in several steps; wait for quiet.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watch %s: %v", path, err)
		case <-fire:
			fire = nil
			logger.Info("%s changed, re-ingesting", path)
			w.ingest(ctx, path)
		}
	}
}

// Stop ends a running Start call.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	raw, err := w.loader.Load(ctx, path)
	var report *domain.IngestionReport
	if err == nil {
		report, err = w.ingestion.Ingest(ctx, raw)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("ingest %s: %v", path, err)
	}
	if w.onResult != nil {
		w.onResult(WatchResult{Report: report, Err: err})
	}
}
