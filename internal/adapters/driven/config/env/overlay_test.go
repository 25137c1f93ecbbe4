package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

func TestOverlay_Apply(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Embedding.Model = "from-file"

	overlay := NewFromMap(map[string]string{
		"PDFRAG_CHUNK_SIZE":         "300",
		"PDFRAG_CHUNK_OVERLAP":      "30",
		"PDFRAG_OCR_DPI":            "200",
		"PDFRAG_OCR_LANGUAGE":       "fra",
		"PDFRAG_EMBEDDING_PROVIDER": "openai",
		"OPENAI_API_KEY":            "sk-env",
	})
	require.NoError(t, overlay.Apply(&settings))

	assert.Equal(t, 300, settings.Chunking.Size)
	assert.Equal(t, 30, settings.Chunking.Overlap)
	assert.Equal(t, 200, settings.OCR.DPI)
	assert.Equal(t, "fra", settings.OCR.Language)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "sk-env", settings.Embedding.APIKey)
	// Unset variables keep the existing value.
	assert.Equal(t, "from-file", settings.Embedding.Model)
}

func TestOverlay_EmptyEnvironmentChangesNothing(t *testing.T) {
	settings := domain.DefaultSettings()
	want := settings

	require.NoError(t, NewFromMap(map[string]string{}).Apply(&settings))
	assert.Equal(t, want, settings)
}

func TestOverlay_ExplicitKeyWins(t *testing.T) {
	settings := domain.DefaultSettings()

	require.NoError(t, NewFromMap(map[string]string{
		"OPENAI_API_KEY":           "sk-generic",
		"PDFRAG_EMBEDDING_API_KEY": "sk-specific",
	}).Apply(&settings))
	assert.Equal(t, "sk-specific", settings.Embedding.APIKey)
}

func TestOverlay_InvalidNumber(t *testing.T) {
	settings := domain.DefaultSettings()

	err := NewFromMap(map[string]string{"PDFRAG_CHUNK_SIZE": "lots"}).Apply(&settings)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PDFRAG_TEST_DOTENV=loaded\n"), 0600))
	t.Setenv("PDFRAG_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("PDFRAG_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("PDFRAG_TEST_DOTENV"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
