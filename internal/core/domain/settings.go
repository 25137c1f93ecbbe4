package domain

import "fmt"

// Chunking and OCR defaults.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 100
	DefaultOCRDPI       = 300
	DefaultOCRLanguage  = "eng"
)

// AIProvider identifies an embedding backend.
type AIProvider string

// Available embedding providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI embeddings API or a compatible server.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderChromem routes through chromem-go's embedding functions.
	AIProviderChromem AIProvider = "chromem"

	// AIProviderHashing is the offline feature-hashing embedder.
	AIProviderHashing AIProvider = "hashing"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderChromem, AIProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs without a network service.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderHashing
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local server)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderChromem:
		return "chromem-go embedding functions"
	case AIProviderHashing:
		return "Feature hashing (offline)"
	default:
		return "Unknown"
	}
}

// AllEmbeddingProviders returns every supported provider.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderChromem,
		AIProviderHashing,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:  "all-minilm",
		AIProviderOpenAI:  "text-embedding-3-small",
		AIProviderChromem: "ollama/all-minilm",
		AIProviderHashing: "hashing-384",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"all-minilm":        384,
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Offline
		"hashing-384": 384,
	}
}

// ChunkingSettings controls the sliding word window.
type ChunkingSettings struct {
	// Size is the window length in words.
	Size int

	// Overlap is the number of words shared by neighbouring chunks.
	Overlap int
}

// Step returns the distance in words between chunk starts.
func (c ChunkingSettings) Step() int {
	return c.Size - c.Overlap
}

// Validate checks that the window can advance.
func (c ChunkingSettings) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfiguration, c.Size)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative, got %d", ErrInvalidConfiguration, c.Overlap)
	}
	if c.Overlap >= c.Size {
		return fmt.Errorf("%w: overlap (%d) must be smaller than chunk size (%d)",
			ErrInvalidConfiguration, c.Overlap, c.Size)
	}
	return nil
}

// OCRSettings controls the raster fallback.
type OCRSettings struct {
	// DPI is the rasterisation resolution.
	DPI int

	// Language is the tesseract language code.
	Language string
}

// Validate checks the OCR settings.
func (o OCRSettings) Validate() error {
	if o.DPI <= 0 {
		return fmt.Errorf("%w: OCR DPI must be positive, got %d", ErrInvalidConfiguration, o.DPI)
	}
	return nil
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model identifier.
	Model string

	// BaseURL is the API endpoint (Ollama, OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (OpenAI).
	APIKey string

	// Dimensions overrides the model's known dimension, 0 for the default.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// ResolvedModel returns the configured model or the provider default.
func (e EmbeddingSettings) ResolvedModel() string {
	if e.Model != "" {
		return e.Model
	}
	return DefaultEmbeddingModels()[e.Provider]
}

// ResolvedDimensions returns the configured dimension or the model's known one.
func (e EmbeddingSettings) ResolvedDimensions() int {
	if e.Dimensions > 0 {
		return e.Dimensions
	}
	return EmbeddingDimensions()[e.ResolvedModel()]
}

// Settings holds all application settings.
type Settings struct {
	// Chunking holds the word window.
	Chunking ChunkingSettings

	// OCR holds the raster fallback settings.
	OCR OCRSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings
}

// DefaultSettings returns settings that work without any external service.
func DefaultSettings() Settings {
	return Settings{
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		OCR: OCRSettings{
			DPI:      DefaultOCRDPI,
			Language: DefaultOCRLanguage,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderHashing,
		},
	}
}

// Validate checks every section.
func (s Settings) Validate() error {
	if err := s.Chunking.Validate(); err != nil {
		return err
	}
	if err := s.OCR.Validate(); err != nil {
		return err
	}
	if !s.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", ErrInvalidConfiguration, s.Embedding.Provider)
	}
	if !s.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %s requires an API key",
			ErrInvalidConfiguration, s.Embedding.Provider)
	}
	return nil
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config so new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration keyed by processor name.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfig returns the chunking pipeline for these settings:
// the word chunker followed by page span annotation.
func (s Settings) PipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker", "pagespan"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": s.Chunking.Size,
				"overlap":    s.Chunking.Overlap,
			},
		},
	}
}
