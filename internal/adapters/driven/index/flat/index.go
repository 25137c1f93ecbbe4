package flat

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.NearestNeighborIndex = (*Index)(nil)

// Ensure Builder implements the interface.
var _ driven.VectorIndexBuilder = Builder{}

// Index is an immutable exact L2 index.
type Index struct {
	dimension int
	vectors   []float32 // len(texts) * dimension
	texts     []string
}

// New builds an index from embeddings and their chunk texts.
// Both slices must have the same length and all vectors the same dimension.
// Zero embeddings produce a valid empty index.
func New(embeddings [][]float32, texts []string) (*Index, error) {
	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("flat: %w: %d embeddings for %d texts",
			domain.ErrInvalidInput, len(embeddings), len(texts))
	}
	if len(embeddings) == 0 {
		return &Index{}, nil
	}

	dim := len(embeddings[0])
	if dim == 0 {
		return nil, fmt.Errorf("flat: %w: zero-length embedding", domain.ErrInvalidInput)
	}

	vectors := make([]float32, 0, len(embeddings)*dim)
	for i, e := range embeddings {
		if len(e) != dim {
			return nil, fmt.Errorf("flat: %w: embedding %d has dimension %d, expected %d",
				domain.ErrInvalidInput, i, len(e), dim)
		}
		vectors = append(vectors, e...)
	}

	return &Index{
		dimension: dim,
		vectors:   vectors,
		texts:     append([]string(nil), texts...),
	}, nil
}

// Size returns the number of indexed chunks.
func (idx *Index) Size() int {
	return len(idx.texts)
}

// Dimensions returns the vector size, 0 for an empty index.
func (idx *Index) Dimensions() int {
	return idx.dimension
}

// Text returns the chunk text at position i.
func (idx *Index) Text(i int) string {
	return idx.texts[i]
}

// Search returns the k closest chunks ordered by ascending squared L2 distance.
// Equal distances keep position order.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 || idx.Size() == 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("flat: %w: query has dimension %d, index has %d",
			domain.ErrInvalidInput, len(query), idx.dimension)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hits := make([]driven.VectorHit, idx.Size())
	for i := range hits {
		row := idx.vectors[i*idx.dimension : (i+1)*idx.dimension]
		hits[i] = driven.VectorHit{
			Position: i,
			Content:  idx.texts[i],
			Distance: squaredL2(query, row),
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// Builder constructs flat indexes.
type Builder struct{}

// Build implements driven.VectorIndexBuilder.
func (Builder) Build(embeddings [][]float32, texts []string) (driven.NearestNeighborIndex, error) {
	idx, err := New(embeddings, texts)
	if err != nil {
		return nil, err
	}
	return idx, nil
}
