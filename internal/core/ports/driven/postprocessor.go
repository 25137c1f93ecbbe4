package driven

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// PostProcessor produces or refines chunks for a document.
// PostProcessors are chained in a pipeline (chunking, page spans).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and returns chunks.
	// A processor that creates chunks (the chunker) receives nil.
	// A processor that annotates chunks receives and returns them in order.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	// Returns the final chunks after all processing.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
