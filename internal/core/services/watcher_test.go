package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

type fakeFileWatcher struct {
	changes chan struct{}
	errs    chan error
	err     error
}

func newFakeFileWatcher() *fakeFileWatcher {
	return &fakeFileWatcher{
		changes: make(chan struct{}, 8),
		errs:    make(chan error, 1),
	}
}

func (f *fakeFileWatcher) Watch(context.Context, string) (<-chan struct{}, <-chan error, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.changes, f.errs, nil
}

type fakeLoader struct {
	mu      sync.Mutex
	content string
	err     error
}

func (l *fakeLoader) set(content string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.content = content
}

func (l *fakeLoader) Load(_ context.Context, path string) (*domain.RawDocument, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	return doc(path, l.content), nil
}

func collectResults() (func(WatchResult), <-chan WatchResult) {
	ch := make(chan WatchResult, 16)
	return func(r WatchResult) { ch <- r }, ch
}

func waitResult(t *testing.T, ch <-chan WatchResult) WatchResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for ingestion")
		return WatchResult{}
	}
}

func TestWatcher_IngestsOnStartAndChange(t *testing.T) {
	h := newHarness(t, domain.ChunkingSettings{Size: 10, Overlap: 2})
	files := newFakeFileWatcher()
	loader := &fakeLoader{content: "first version"}
	onResult, results := collectResults()

	w := NewWatcher(h.svc, files, loader, 10*time.Millisecond, onResult)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, "notes.txt") }()

	first := waitResult(t, results)
	require.NoError(t, first.Err)
	require.NotNil(t, first.Report)

	// A burst of writes collapses into one ingestion.
	loader.set("second version")
	files.changes <- struct{}{}
	files.changes <- struct{}{}
	files.changes <- struct{}{}

	second := waitResult(t, results)
	require.NoError(t, second.Err)

	listing, err := h.svc.ListChunks(context.Background())
	require.NoError(t, err)
	assert.Contains(t, listing.Chunks[0].Content, "second version")

	select {
	case extra := <-results:
		t.Fatalf("unexpected extra ingestion: %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcher_ReportsFailures(t *testing.T) {
	h := newHarness(t, domain.ChunkingSettings{Size: 10, Overlap: 2})
	files := newFakeFileWatcher()
	loader := &fakeLoader{err: errors.New("permission denied")}
	onResult, results := collectResults()

	w := NewWatcher(h.svc, files, loader, time.Millisecond, onResult)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, "locked.txt") }()

	r := waitResult(t, results)
	assert.EqualError(t, r.Err, "permission denied")
	assert.Nil(t, r.Report)
	assert.Equal(t, domain.StateEmpty, h.svc.State())

	w.Stop()
	assert.NoError(t, <-done)
}

func TestWatcher_WatchError(t *testing.T) {
	h := newHarness(t, domain.ChunkingSettings{Size: 10, Overlap: 2})
	files := newFakeFileWatcher()
	files.err = errors.New("no such directory")

	w := NewWatcher(h.svc, files, &fakeLoader{}, 0, nil)
	err := w.Start(context.Background(), "missing/file.txt")
	assert.EqualError(t, err, "no such directory")
}

func TestWatcher_StopsWhenChangesClose(t *testing.T) {
	h := newHarness(t, domain.ChunkingSettings{Size: 10, Overlap: 2})
	files := newFakeFileWatcher()
	close(files.errs)
	close(files.changes)

	w := NewWatcher(h.svc, files, &fakeLoader{content: "text"}, 0, nil)
	assert.NoError(t, w.Start(context.Background(), "a.txt"))
	assert.Equal(t, domain.StateReady, h.svc.State())
}

func TestWatcher_RestartAfterStop(t *testing.T) {
	h := newHarness(t, domain.ChunkingSettings{Size: 10, Overlap: 2})
	files := newFakeFileWatcher()

	entered := make(chan struct{})
	release := make(chan struct{})
	started := make(chan struct{}, 4)
	var calls int
	var mu sync.Mutex
	onResult := func(WatchResult) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			// Hold the first run inside its initial ingestion.
			close(entered)
			<-release
			return
		}
		started <- struct{}{}
	}

	w := NewWatcher(h.svc, files, &fakeLoader{content: "text"}, 0, onResult)
	ctx := context.Background()

	first := make(chan error, 1)
	go func() { first <- w.Start(ctx, "a.txt") }()
	<-entered

	w.Stop()
	second := make(chan error, 1)
	go func() { second <- w.Start(ctx, "a.txt") }()
	<-started

	// The first run exits only now, after the second one took over.
	close(release)
	require.NoError(t, <-first)

	w.Stop()
	select {
	case err := <-second:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("second run ignored Stop")
	}
}
