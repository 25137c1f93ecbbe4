// Package env overlays settings from environment variables and .env files.
package env

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure Overlay implements the interface.
var _ driven.SettingsOverlay = (*Overlay)(nil)

// variables lists the recognised environment variables.
// Nil means unset; the file or default value is kept.
type variables struct {
	ChunkSize         *int    `env:"PDFRAG_CHUNK_SIZE"`
	ChunkOverlap      *int    `env:"PDFRAG_CHUNK_OVERLAP"`
	OCRDPI            *int    `env:"PDFRAG_OCR_DPI"`
	OCRLanguage       *string `env:"PDFRAG_OCR_LANGUAGE"`
	EmbeddingProvider *string `env:"PDFRAG_EMBEDDING_PROVIDER"`
	EmbeddingModel    *string `env:"PDFRAG_EMBEDDING_MODEL"`
	EmbeddingBaseURL  *string `env:"PDFRAG_EMBEDDING_BASE_URL"`
	EmbeddingDims     *int    `env:"PDFRAG_EMBEDDING_DIMENSIONS"`
	EmbeddingAPIKey   *string `env:"PDFRAG_EMBEDDING_API_KEY"`
	OpenAIAPIKey      *string `env:"OPENAI_API_KEY"`
}

// Overlay reads settings from the process environment.
type Overlay struct {
	environment map[string]string
}

// New creates an overlay over the process environment.
func New() *Overlay {
	return &Overlay{}
}

// NewFromMap creates an overlay over a fixed environment, for tests.
func NewFromMap(environment map[string]string) *Overlay {
	return &Overlay{environment: environment}
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Apply overwrites the settings that are set in the environment.
// PDFRAG_EMBEDDING_API_KEY takes precedence over OPENAI_API_KEY.
func (o *Overlay) Apply(settings *domain.Settings) error {
	var vars variables
	opts := env.Options{}
	if o.environment != nil {
		opts.Environment = o.environment
	}
	if err := env.ParseWithOptions(&vars, opts); err != nil {
		return fmt.Errorf("%w: environment: %v", domain.ErrInvalidConfiguration, err)
	}

	setInt(&settings.Chunking.Size, vars.ChunkSize)
	setInt(&settings.Chunking.Overlap, vars.ChunkOverlap)
	setInt(&settings.OCR.DPI, vars.OCRDPI)
	setString(&settings.OCR.Language, vars.OCRLanguage)
	if vars.EmbeddingProvider != nil {
		settings.Embedding.Provider = domain.AIProvider(*vars.EmbeddingProvider)
	}
	setString(&settings.Embedding.Model, vars.EmbeddingModel)
	setString(&settings.Embedding.BaseURL, vars.EmbeddingBaseURL)
	setInt(&settings.Embedding.Dimensions, vars.EmbeddingDims)
	setString(&settings.Embedding.APIKey, vars.OpenAIAPIKey)
	setString(&settings.Embedding.APIKey, vars.EmbeddingAPIKey)
	return nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
