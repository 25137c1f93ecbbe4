package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService reads the ingestion history.
type HistoryService struct {
	store driven.IngestionHistoryStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.IngestionHistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// List returns the most recent ingestions first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.IngestionRecord, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidInput)
	}
	records, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

// Get returns a single ingestion record.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.IngestionRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrInvalidInput)
	}
	return s.store.Get(ctx, id)
}
