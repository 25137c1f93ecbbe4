package driven

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// IngestionHistoryStore records the outcome of every ingestion attempt.
// Only metadata is stored; chunks and vectors stay in memory.
type IngestionHistoryStore interface {
	// Save stores or updates a record.
	Save(ctx context.Context, rec domain.IngestionRecord) error

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*domain.IngestionRecord, error)

	// List returns the most recent records first, at most limit (0 = all).
	List(ctx context.Context, limit int) ([]domain.IngestionRecord, error)
}
