package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Empty key", input: "", expected: "****"},
		{name: "Exactly 8 chars", input: "12345678", expected: "****"},
		{name: "Long key", input: "sk-1234567890abcdef", expected: "sk-1...cdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskAPIKey(tt.input))
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultVal int
		expected   int
	}{
		{name: "Empty input returns default", input: "", defaultVal: 1, expected: 1},
		{name: "Valid choice", input: "3", defaultVal: 1, expected: 3},
		{name: "Maximum value is valid", input: "5", defaultVal: 1, expected: 5},
		{name: "Out of range returns default", input: "6", defaultVal: 2, expected: 2},
		{name: "Zero returns default", input: "0", defaultVal: 1, expected: 1},
		{name: "Not a number returns default", input: "abc", defaultVal: 4, expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseChoice(tt.input, 5, tt.defaultVal))
		})
	}
}

func TestSettingsCmd_Show(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.Embedding = domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		APIKey:   "sk-1234567890abcdef",
	}

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Size: 500 words")
	assert.Contains(t, out, "Overlap: 100 words")
	assert.Contains(t, out, "DPI: 300")
	assert.Contains(t, out, "Provider: OpenAI (cloud)")
	assert.Contains(t, out, "API Key: sk-1...cdef")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsCmd_ShowWarnsOnInvalid(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.validateErr = errors.New("embedding provider not configured")

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: embedding provider not configured")
}

func TestSettingsCmd_Chunking(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "settings", "chunking", "--size", "200", "--overlap", "50")

	require.NoError(t, err)
	assert.Contains(t, out, "Chunking set to 200 words with 50 overlap")
	assert.Equal(t, domain.ChunkingSettings{Size: 200, Overlap: 50}, ts.settings.settings.Chunking)
}

func TestSettingsCmd_ChunkingRejectsOverlap(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "settings", "chunking", "--size", "100", "--overlap", "100")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	assert.Equal(t, domain.DefaultChunkSize, ts.settings.settings.Chunking.Size)
}

func TestSettingsCmd_OCR(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "settings", "ocr", "--dpi", "150", "--language", "deu")

	require.NoError(t, err)
	assert.Contains(t, out, "OCR set to 150 DPI, language deu")
	assert.Equal(t, domain.OCRSettings{DPI: 150, Language: "deu"}, ts.settings.settings.OCR)
}

func TestSettingsCmd_EmbeddingFlags(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "settings", "embedding", "--provider", "ollama", "--model", "nomic-embed-text")

	require.NoError(t, err)
	assert.Contains(t, out, "Validating configuration... OK")
	assert.Equal(t, domain.AIProviderOllama, ts.settings.settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", ts.settings.settings.Embedding.Model)
}

func TestSettingsCmd_EmbeddingUnknownProvider(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "settings", "embedding", "--provider", "bogus")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "bogus"`)
}

func TestSettingsCmd_EmbeddingValidationFails(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.embedErr = errors.New("connection refused")

	out, err := execute(t, "settings", "embedding", "--provider", "ollama")

	require.Error(t, err)
	assert.Contains(t, out, "FAILED: connection refused")
}

func TestSettingsCmd_EmbeddingInteractive(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	rootCmd.SetIn(strings.NewReader("4\n\n"))

	out, err := execute(t, "settings", "embedding")

	require.NoError(t, err)
	assert.Contains(t, out, "Select Embedding Provider")
	assert.Equal(t, domain.AIProviderHashing, ts.settings.settings.Embedding.Provider)
	assert.Equal(t, []string{"embedding"}, ts.settings.calls)
}

func TestSettingsCmd_NotConfigured(t *testing.T) {
	SetServices(nil)

	_, err := execute(t, "settings", "ocr")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}
