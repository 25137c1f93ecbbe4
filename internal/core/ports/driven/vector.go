package driven

import "context"

// NearestNeighborIndex answers k-nearest-neighbour queries over chunk embeddings.
// Implementations are immutable once built: a new document means a new index.
type NearestNeighborIndex interface {
	// Search returns up to k hits ordered by ascending distance.
	// An empty index or k <= 0 yields an empty slice, not an error.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Size returns the number of indexed chunks.
	Size() int

	// Dimensions returns the vector size, 0 for an empty index.
	Dimensions() int
}

// VectorIndexBuilder constructs a NearestNeighborIndex.
type VectorIndexBuilder interface {
	// Build indexes embeddings[i] under texts[i].
	// The slices must have equal length and every vector the same dimension.
	Build(embeddings [][]float32, texts []string) (NearestNeighborIndex, error)
}

// VectorHit represents a nearest-neighbour result.
type VectorHit struct {
	// Position is the chunk's sequence position.
	Position int

	// Content is the indexed chunk text.
	Content string

	// Distance is the squared Euclidean distance to the query.
	Distance float64
}
