package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// snapshot is the published result of one successful ingestion.
// It is never mutated after it is stored.
type snapshot struct {
	doc      *domain.Document
	chunks   []domain.Chunk
	vectors  driven.NearestNeighborIndex
	keywords driven.KeywordIndex
}

// StateListener is notified of every lifecycle transition.
type StateListener func(from, to domain.IngestionState)

// IngestionOption configures optional collaborators.
type IngestionOption func(*IngestionService)

// WithKeywordIndex builds a full-text index alongside the vector index.
func WithKeywordIndex(builder driven.KeywordIndexBuilder) IngestionOption {
	return func(s *IngestionService) {
		s.keywords = builder
	}
}

// WithHistory records every ingestion attempt.
func WithHistory(store driven.IngestionHistoryStore) IngestionOption {
	return func(s *IngestionService) {
		s.history = store
	}
}

// WithObserver reports ingestion measurements.
func WithObserver(observer driven.IngestionObserver) IngestionOption {
	return func(s *IngestionService) {
		s.observer = observer
	}
}

// WithStateListener registers a callback for state transitions.
func WithStateListener(fn StateListener) IngestionOption {
	return func(s *IngestionService) {
		s.listeners = append(s.listeners, fn)
	}
}

// IngestionService runs extract → chunk → embed → index and owns the
// current snapshot. Ingest calls are serialised; readers never block.
type IngestionService struct {
	extractor driven.ExtractorRegistry
	pipeline  driven.PostProcessorPipeline
	embedder  driven.EmbeddingService
	vectors   driven.VectorIndexBuilder
	keywords  driven.KeywordIndexBuilder
	history   driven.IngestionHistoryStore
	observer  driven.IngestionObserver
	chunking  domain.ChunkingSettings
	listeners []StateListener

	writeMu sync.Mutex
	current atomic.Pointer[snapshot]

	stateMu sync.RWMutex
	state   domain.IngestionState
}

// NewIngestionService creates an ingestion service.
// The pipeline must have been built from the same chunking settings;
// they are validated again on every call before any work starts.
func NewIngestionService(
	extractor driven.ExtractorRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	vectors driven.VectorIndexBuilder,
	chunking domain.ChunkingSettings,
	opts ...IngestionOption,
) *IngestionService {
	s := &IngestionService{
		extractor: extractor,
		pipeline:  pipeline,
		embedder:  embedder,
		vectors:   vectors,
		chunking:  chunking,
		state:     domain.StateEmpty,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the lifecycle state.
func (s *IngestionService) State() domain.IngestionState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

func (s *IngestionService) setState(to domain.IngestionState) {
	s.stateMu.Lock()
	from := s.state
	s.state = to
	s.stateMu.Unlock()

	if from == to {
		return
	}
	logger.Debug("Ingestion state %s -> %s", from, to)
	for _, fn := range s.listeners {
		fn(from, to)
	}
}

// Ingest processes one document and publishes it as the current snapshot.
// On any fatal error the previous snapshot stays published.
func (s *IngestionService) Ingest(ctx context.Context, raw *domain.RawDocument) (*domain.IngestionReport, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if err := s.chunking.Validate(); err != nil {
		return nil, err
	}
	if s.extractor == nil || s.pipeline == nil || s.embedder == nil || s.vectors == nil {
		return nil, fmt.Errorf("%w: ingestion service is not fully configured", domain.ErrInvalidConfiguration)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.setState(domain.StateIngesting)
	logger.Section("Ingest " + raw.Name)

	rec := domain.IngestionRecord{
		ID:        uuid.New().String(),
		Name:      raw.Name,
		StartedAt: time.Now(),
	}

	snap, report, err := s.build(ctx, raw, &rec)
	rec.FinishedAt = time.Now()

	if err != nil {
		rec.Status = domain.IngestionFailed
		rec.ChunksCreated = 0
		rec.Error = err.Error()
		s.record(ctx, rec)

		logger.Warn("Ingestion of %s failed: %v", raw.Name, err)
		s.setState(domain.StateFailed)
		if s.current.Load() != nil {
			s.setState(domain.StateReady)
		} else {
			s.setState(domain.StateEmpty)
		}
		return nil, err
	}

	// Replaced keyword indexes are memory-only; readers may still hold them,
	// so they are left to the garbage collector instead of being closed.
	s.current.Store(snap)
	s.setState(domain.StateReady)

	rec.Status = domain.IngestionSucceeded
	s.record(ctx, rec)

	report.Duration = rec.FinishedAt.Sub(rec.StartedAt)
	logger.Info("Ingested %s: %d chunks from %d pages in %s",
		raw.Name, report.ChunksCreated, report.Pages, report.Duration.Round(time.Millisecond))
	return report, nil
}

// build runs the pipeline without touching published state.
func (s *IngestionService) build(
	ctx context.Context,
	raw *domain.RawDocument,
	rec *domain.IngestionRecord,
) (*snapshot, *domain.IngestionReport, error) {
	extraction, err := s.extractor.Extract(ctx, raw)
	if err != nil {
		return nil, nil, fmt.Errorf("extract: %w", err)
	}

	native := extraction.CountByMethod(domain.MethodNative)
	ocr := extraction.CountByMethod(domain.MethodOCR)
	rec.Pages = len(extraction.Pages)
	rec.OCRPages = ocr
	if s.observer != nil {
		s.observer.ObservePages(domain.MethodNative, native)
		s.observer.ObservePages(domain.MethodOCR, ocr)
	}
	logger.Debug("Extracted %d pages (%d native, %d OCR)", rec.Pages, native, ocr)

	doc := &domain.Document{
		ID:         rec.ID,
		Name:       raw.Name,
		Title:      extraction.Title,
		Content:    extraction.Text(),
		Pages:      extraction.Pages,
		Metadata:   raw.Metadata,
		IngestedAt: rec.StartedAt,
	}

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, nil, fmt.Errorf("chunk: %w", err)
	}
	logger.Debug("Created %d chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(texts) {
		return nil, nil, fmt.Errorf("embed chunks: %w: %d vectors for %d chunks",
			domain.ErrEmbeddingBackend, len(embeddings), len(texts))
	}

	vectors, err := s.vectors.Build(embeddings, texts)
	if err != nil {
		return nil, nil, fmt.Errorf("build index: %w", err)
	}

	var keywords driven.KeywordIndex
	if s.keywords != nil {
		keywords, err = s.keywords.Build(ctx, chunks)
		if err != nil {
			return nil, nil, fmt.Errorf("build keyword index: %w", err)
		}
	}

	rec.ChunksCreated = len(chunks)

	report := &domain.IngestionReport{
		DocumentID:     rec.ID,
		Name:           raw.Name,
		ChunksCreated:  len(chunks),
		Pages:          len(extraction.Pages),
		NativePages:    native,
		OCRPages:       ocr,
		FailedOCRPages: extraction.FailedPages(),
		Dimensions:     vectors.Dimensions(),
	}

	return &snapshot{
		doc:      doc,
		chunks:   chunks,
		vectors:  vectors,
		keywords: keywords,
	}, report, nil
}

// record stores the outcome. History failures are logged, never returned.
func (s *IngestionService) record(ctx context.Context, rec domain.IngestionRecord) {
	if s.observer != nil {
		s.observer.ObserveIngestion(rec)
	}
	if s.history == nil {
		return
	}
	// The caller's context may already be cancelled; the outcome is still worth keeping.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.history.Save(saveCtx, rec); err != nil {
		logger.Warn("Failed to record ingestion %s: %v", rec.ID, err)
	}
}

// ListChunks returns the published chunks in document order.
func (s *IngestionService) ListChunks(_ context.Context) (*domain.ChunkListing, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, domain.ErrNotReady
	}
	return &domain.ChunkListing{
		DocumentName: snap.doc.Name,
		Chunks:       slices.Clone(snap.chunks),
	}, nil
}

// published returns the current snapshot or ErrNotReady.
func (s *IngestionService) published() (*snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, domain.ErrNotReady
	}
	return snap, nil
}

// Embedder returns the embedding service used for chunks.
// Queries must be embedded with the same model.
func (s *IngestionService) Embedder() driven.EmbeddingService {
	return s.embedder
}

// Close releases the published keyword index.
func (s *IngestionService) Close() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap := s.current.Swap(nil)
	s.setState(domain.StateEmpty)
	if snap != nil && snap.keywords != nil {
		return snap.keywords.Close()
	}
	return nil
}
