package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService answers queries against the ingestion service's current snapshot.
type SearchService struct {
	ingestion *IngestionService
	observer  driven.IngestionObserver
}

// NewSearchService creates a new search service.
// The observer is optional (can be nil).
func NewSearchService(ingestion *IngestionService, observer driven.IngestionObserver) *SearchService {
	return &SearchService{
		ingestion: ingestion,
		observer:  observer,
	}
}

// Search returns the chunks closest to the query in the current snapshot.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	snap, err := s.ingestion.published()
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	mode := opts.Mode
	if mode == "" {
		mode = domain.SearchModeVector
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown search mode %q", domain.ErrInvalidInput, mode)
	}

	start := time.Now()
	var results []domain.SearchResult
	switch mode {
	case domain.SearchModeKeyword:
		results, err = s.keywordSearch(ctx, snap, query, limit)
	default:
		results, err = s.vectorSearch(ctx, snap, query, limit)
	}
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	logger.Debug("%s search returned %d results in %s", mode, len(results), elapsed)
	if s.observer != nil {
		s.observer.ObserveSearch(mode, len(results), elapsed)
	}
	return results, nil
}

func (s *SearchService) vectorSearch(
	ctx context.Context, snap *snapshot, query string, limit int,
) ([]domain.SearchResult, error) {
	embedding, err := s.ingestion.Embedder().Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := snap.vectors.Search(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Position < 0 || hit.Position >= len(snap.chunks) {
			continue
		}
		results = append(results, domain.SearchResult{
			Chunk:    snap.chunks[hit.Position],
			Distance: hit.Distance,
		})
	}
	return results, nil
}

func (s *SearchService) keywordSearch(
	ctx context.Context, snap *snapshot, query string, limit int,
) ([]domain.SearchResult, error) {
	if snap.keywords == nil {
		return nil, fmt.Errorf("%w: keyword index is not enabled", domain.ErrInvalidConfiguration)
	}

	hits, err := snap.keywords.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Position < 0 || hit.Position >= len(snap.chunks) {
			continue
		}
		results = append(results, domain.SearchResult{
			Chunk: snap.chunks[hit.Position],
			Score: hit.Score,
		})
	}
	return results, nil
}
