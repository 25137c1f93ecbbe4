package driving

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// IngestionService owns the current document's chunks and index.
type IngestionService interface {
	// Ingest extracts, chunks, embeds and indexes a document, then publishes
	// it as the current snapshot. On failure the previous snapshot is kept.
	Ingest(ctx context.Context, raw *domain.RawDocument) (*domain.IngestionReport, error)

	// ListChunks returns the current chunks in order.
	// Returns domain.ErrNotReady before the first successful ingestion.
	ListChunks(ctx context.Context) (*domain.ChunkListing, error)

	// State returns the lifecycle state.
	State() domain.IngestionState
}
