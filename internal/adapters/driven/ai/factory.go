// Package ai provides factory functions for creating embedding service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	chromemembed "github.com/custodia-labs/pdfrag/internal/adapters/driven/embedding/chromem"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/custodia-labs/pdfrag/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/pdfrag/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w. Run 'pdfrag settings' to fix", err)
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("service unreachable (%w). Run 'pdfrag settings' to fix", err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
// This is intended for the settings command to validate credentials on configuration.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// All failures wrap domain.ErrEmbeddingBackend.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no embedding settings", domain.ErrEmbeddingBackend)
	}
	if !settings.Provider.IsValid() {
		return nil, fmt.Errorf("%w: unsupported embedding provider: %q", domain.ErrEmbeddingBackend, settings.Provider)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: %s requires an API key", domain.ErrEmbeddingBackend, settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.AIProviderChromem:
		return createChromemEmbedding(settings)

	default:
		return hashing.NewEmbeddingService(settings.ResolvedDimensions()), nil
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.ResolvedModel(),
		Dimensions: settings.ResolvedDimensions(),
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.ResolvedModel(),
		Dimensions: settings.Dimensions,
	})
}

// createChromemEmbedding creates a chromem-go backed embedding service.
func createChromemEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return chromemembed.NewEmbeddingService(chromemembed.Config{
		Model:      settings.ResolvedModel(),
		BaseURL:    settings.BaseURL,
		APIKey:     settings.APIKey,
		Dimensions: settings.Dimensions,
	})
}
