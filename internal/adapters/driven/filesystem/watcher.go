package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("watcher is closed")

// Watcher reports changes to single files using fsnotify.
type Watcher struct {
	mu       sync.Mutex
	closed   bool
	watchers []*fsnotify.Watcher
}

// NewWatcher creates a file watcher.
func NewWatcher() *Watcher {
	return &Watcher{}
}

// Watch signals on the returned channel whenever path is written, created
// or renamed into place. Both channels close when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context, path string) (<-chan struct{}, <-chan error, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, nil, ErrClosed
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, nil, fmt.Errorf("watch %s: is a directory", path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	w.watchers = append(w.watchers, fsw)

	changes := make(chan struct{}, 1)
	errs := make(chan error, 1)

	go func() {
		defer close(changes)
		defer close(errs)
		defer fsw.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if !isChange(event, abs) {
					continue
				}
				logger.Debug("fsnotify %s on %s", event.Op, event.Name)
				// A pending signal already covers this event.
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				select {
				case errs <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return changes, errs, nil
}

// isChange reports whether event modifies the watched file.
func isChange(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// Close stops all active watches. It is idempotent.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	for _, fsw := range w.watchers {
		if err := fsw.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	w.watchers = nil
	return errors.Join(errs...)
}
