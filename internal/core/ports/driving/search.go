package driving

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// SearchService answers retrieval queries against the current snapshot.
type SearchService interface {
	// Search returns the chunks closest to the query.
	// Returns domain.ErrNotReady before the first successful ingestion.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
