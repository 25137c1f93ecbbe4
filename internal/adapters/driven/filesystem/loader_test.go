package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Notes\n\nhello"), 0o644))

	raw, err := NewLoader(0).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "notes.md", raw.Name)
	assert.Empty(t, raw.MIMEType)
	assert.Equal(t, "# Notes\n\nhello", string(raw.Content))
	assert.Equal(t, path, raw.Metadata["path"])
	assert.Equal(t, int64(14), raw.Metadata["size"])
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	big := filepath.Join(dir, "big.txt")
	require.NoError(t, os.WriteFile(big, make([]byte, 64), 0o644))

	loader := NewLoader(32)
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load(ctx, filepath.Join(dir, "nope.pdf"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := loader.Load(ctx, dir)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := loader.Load(ctx, big)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := loader.Load(ctx, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := loader.Load(cctx, big)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
