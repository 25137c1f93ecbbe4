package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// DefaultMaxFileSize is the largest file the loader reads.
const DefaultMaxFileSize int64 = 256 << 20

// Loader reads documents from local paths.
// The MIME type is left empty so the extractor registry detects it.
type Loader struct {
	maxSize int64
}

// NewLoader creates a loader. A maxSize of zero selects DefaultMaxFileSize.
func NewLoader(maxSize int64) *Loader {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &Loader{maxSize: maxSize}
}

// Load reads the file at path.
func (l *Loader) Load(ctx context.Context, path string) (*domain.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	if info.Size() > l.maxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d",
			domain.ErrInvalidInput, path, info.Size(), l.maxSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return &domain.RawDocument{
		Name:    filepath.Base(path),
		Content: content,
		Metadata: map[string]any{
			"path":     path,
			"size":     info.Size(),
			"modified": info.ModTime(),
		},
	}, nil
}
