package driving

import "github.com/custodia-labs/pdfrag/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings (defaults, then file, then environment).
	Get() (*domain.Settings, error)

	// Save persists settings to the config file.
	Save(settings *domain.Settings) error

	// SetChunking updates the word window.
	SetChunking(size, overlap int) error

	// SetOCR updates the raster fallback.
	SetOCR(dpi int, language string) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, baseURL, apiKey string) error

	// Validate checks the current settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// ValidateEmbeddingConfig pings the configured embedding provider.
	ValidateEmbeddingConfig() error
}
