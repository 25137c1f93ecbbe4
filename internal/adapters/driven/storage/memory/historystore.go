package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.IngestionHistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.IngestionHistoryStore.
type HistoryStore struct {
	mu      sync.RWMutex
	records map[string]domain.IngestionRecord
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		records: make(map[string]domain.IngestionRecord),
	}
}

// Save stores or updates a record.
func (s *HistoryStore) Save(_ context.Context, rec domain.IngestionRecord) error {
	if rec.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return nil
}

// Get retrieves a record by ID.
func (s *HistoryStore) Get(_ context.Context, id string) (*domain.IngestionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// List returns the most recent records first.
func (s *HistoryStore) List(_ context.Context, limit int) ([]domain.IngestionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.IngestionRecord, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].StartedAt.Equal(records[j].StartedAt) {
			return records[i].ID > records[j].ID
		}
		return records[i].StartedAt.After(records[j].StartedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
