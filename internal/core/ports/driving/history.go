package driving

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// HistoryService exposes past ingestion outcomes.
type HistoryService interface {
	// List returns the most recent ingestions first.
	List(ctx context.Context, limit int) ([]domain.IngestionRecord, error)

	// Get returns a single ingestion record.
	Get(ctx context.Context, id string) (*domain.IngestionRecord, error)
}
