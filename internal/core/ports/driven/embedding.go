package driven

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// EmbeddingService maps text to fixed-dimension vectors (the Embedder).
//
// EmbedBatch is order preserving: result[i] belongs to texts[i]. An empty
// input yields an empty result without contacting the backend. Backend
// failures are returned wrapped in domain.ErrEmbeddingBackend; an
// implementation never substitutes zero vectors for a failed request.
//
// Implementations include:
//   - Ollama (all-minilm, nomic-embed-text)
//   - OpenAI and compatible servers (text-embedding-3-small)
//   - chromem-go embedding functions
//   - Offline feature hashing
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536).
	// It is fixed for the lifetime of the service.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// EmbeddingValidator checks that an embedding configuration can be reached.
type EmbeddingValidator interface {
	// ValidateEmbedding creates the configured service and pings it.
	ValidateEmbedding(settings *domain.EmbeddingSettings) error
}
