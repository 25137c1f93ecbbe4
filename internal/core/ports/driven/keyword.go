package driven

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// KeywordIndex provides full-text search over one document's chunks.
type KeywordIndex interface {
	// Search returns up to k hits ordered by descending score.
	Search(ctx context.Context, query string, k int) ([]KeywordHit, error)

	// Size returns the number of indexed chunks.
	Size() int

	// Close releases resources.
	Close() error
}

// KeywordIndexBuilder constructs a KeywordIndex.
type KeywordIndexBuilder interface {
	// Build indexes the chunks by position.
	Build(ctx context.Context, chunks []domain.Chunk) (KeywordIndex, error)
}

// KeywordHit represents a full-text result.
type KeywordHit struct {
	// Position is the chunk's sequence position.
	Position int

	// Score is the relevance score.
	Score float64
}
