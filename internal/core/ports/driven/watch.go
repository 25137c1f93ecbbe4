package driven

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// FileWatcher reports changes to a single file.
type FileWatcher interface {
	// Watch sends a value on the returned channel each time the file is
	// written, created or replaced. Both channels close when ctx ends.
	Watch(ctx context.Context, path string) (<-chan struct{}, <-chan error, error)
}

// DocumentLoader reads a document from a path.
type DocumentLoader interface {
	Load(ctx context.Context, path string) (*domain.RawDocument, error)
}
