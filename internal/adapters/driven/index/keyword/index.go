// Package keyword provides an in-memory full-text index over chunks.
// It implements the driven.KeywordIndex interface using bleve.
//
// A new index is built for every published document; nothing is written
// to disk.
package keyword

import (
	"context"
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve/v2"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.KeywordIndex = (*Index)(nil)

// Ensure Builder implements the interface.
var _ driven.KeywordIndexBuilder = Builder{}

// chunkDoc is the document shape stored in bleve.
type chunkDoc struct {
	Content   string `json:"content"`
	StartPage int    `json:"start_page"`
}

// Index wraps a memory-only bleve index.
type Index struct {
	index bleve.Index
	size  int
}

// New indexes the chunks under their positions.
func New(ctx context.Context, chunks []domain.Chunk) (*Index, error) {
	mapping := bleve.NewIndexMapping()
	index, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("keyword: create index: %w", err)
	}

	batch := index.NewBatch()
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			index.Close()
			return nil, err
		}
		if err := batch.Index(strconv.Itoa(c.Position), chunkDoc{
			Content:   c.Content,
			StartPage: c.StartPage,
		}); err != nil {
			index.Close()
			return nil, fmt.Errorf("keyword: index chunk %d: %w", c.Position, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("keyword: commit batch: %w", err)
	}

	return &Index{index: index, size: len(chunks)}, nil
}

// Search runs a match query against chunk contents.
func (idx *Index) Search(_ context.Context, query string, k int) ([]driven.KeywordHit, error) {
	if k <= 0 || idx.size == 0 || query == "" {
		return []driven.KeywordHit{}, nil
	}

	match := bleve.NewMatchQuery(query)
	match.SetField("content")
	req := bleve.NewSearchRequest(match)
	req.Size = k

	res, err := idx.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("keyword: search: %w", err)
	}

	hits := make([]driven.KeywordHit, 0, len(res.Hits))
	for _, hit := range res.Hits {
		pos, err := strconv.Atoi(hit.ID)
		if err != nil {
			continue
		}
		hits = append(hits, driven.KeywordHit{Position: pos, Score: hit.Score})
	}
	return hits, nil
}

// Size returns the number of indexed chunks.
func (idx *Index) Size() int {
	return idx.size
}

// Close releases resources.
func (idx *Index) Close() error {
	return idx.index.Close()
}

// Builder constructs keyword indexes.
type Builder struct{}

// Build implements driven.KeywordIndexBuilder.
func (Builder) Build(ctx context.Context, chunks []domain.Chunk) (driven.KeywordIndex, error) {
	idx, err := New(ctx, chunks)
	if err != nil {
		return nil, err
	}
	return idx, nil
}
