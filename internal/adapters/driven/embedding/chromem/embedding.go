// Package chromem adapts chromem-go embedding functions to the EmbeddingService port.
//
// Models are addressed as "<backend>/<model>", for example
// "ollama/all-minilm", "openai/text-embedding-3-small",
// "cohere/embed-english-v3.0" or "mistral/mistral-embed".
package chromem

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/philippgille/chromem-go"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Supported chromem backends.
const (
	BackendOllama  = "ollama"
	BackendOpenAI  = "openai"
	BackendLocalAI = "localai"
	BackendCohere  = "cohere"
	BackendMistral = "mistral"
	BackendJina    = "jina"
)

// mistralModel is the only model chromem's Mistral function serves.
const mistralModel = "mistral-embed"

// Config holds configuration for the chromem embedding service.
type Config struct {
	// Model is "<backend>/<model>" (default: ollama/all-minilm).
	Model string

	// BaseURL is the Ollama server URL (backend ollama only).
	BaseURL string

	// APIKey is the key for the hosted backends (openai, cohere, mistral, jina).
	APIKey string

	// Dimensions is the expected vector size, 0 to use the model's known size.
	Dimensions int
}

// EmbeddingService embeds text with a chromem.EmbeddingFunc.
// It is safe for concurrent use.
type EmbeddingService struct {
	embed chromem.EmbeddingFunc
	model string

	mu         sync.RWMutex
	dimensions int
}

// ParseModel splits "<backend>/<model>". A bare model name uses ollama.
func ParseModel(model string) (backend, name string) {
	if model == "" {
		model = domain.DefaultEmbeddingModels()[domain.AIProviderChromem]
	}
	backend, name, found := strings.Cut(model, "/")
	if !found {
		return BackendOllama, model
	}
	return backend, name
}

// NewEmbeddingService creates the chromem embedding function for cfg.Model.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	backend, name := ParseModel(cfg.Model)

	if requiresKey(backend) && cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: chromem: %s backend requires an API key", domain.ErrEmbeddingBackend, backend)
	}

	var fn chromem.EmbeddingFunc
	switch backend {
	case BackendOllama:
		baseURL := ""
		if cfg.BaseURL != "" {
			baseURL = strings.TrimSuffix(cfg.BaseURL, "/") + "/api"
		}
		fn = chromem.NewEmbeddingFuncOllama(name, baseURL)
	case BackendOpenAI:
		fn = chromem.NewEmbeddingFuncOpenAI(cfg.APIKey, chromem.EmbeddingModelOpenAI(name))
	case BackendLocalAI:
		fn = chromem.NewEmbeddingFuncLocalAI(name)
	case BackendCohere:
		fn = chromem.NewEmbeddingFuncCohere(cfg.APIKey, chromem.EmbeddingModelCohere(name))
	case BackendMistral:
		if name != mistralModel {
			return nil, fmt.Errorf("%w: chromem: mistral serves only %s, got %q",
				domain.ErrEmbeddingBackend, mistralModel, name)
		}
		fn = chromem.NewEmbeddingFuncMistral(cfg.APIKey)
	case BackendJina:
		fn = chromem.NewEmbeddingFuncJina(cfg.APIKey, chromem.EmbeddingModelJina(name))
	default:
		return nil, fmt.Errorf("%w: chromem: unknown backend %q", domain.ErrEmbeddingBackend, backend)
	}

	dims := cfg.Dimensions
	if dims == 0 {
		dims = domain.EmbeddingDimensions()[name]
	}
	return NewWithFunc(fn, backend+"/"+name, dims), nil
}

// NewWithFunc wraps an arbitrary embedding function.
// A zero dimension is learned from the first vector returned.
func NewWithFunc(fn chromem.EmbeddingFunc, model string, dimensions int) *EmbeddingService {
	return &EmbeddingService{embed: fn, model: model, dimensions: dimensions}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := s.embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: chromem %s: %v", domain.ErrEmbeddingBackend, s.model, err)
	}
	if want := s.learnDimensions(len(vec)); len(vec) != want {
		return nil, fmt.Errorf("%w: chromem %s returned %d dimensions, expected %d",
			domain.ErrEmbeddingBackend, s.model, len(vec), want)
	}
	return vec, nil
}

// learnDimensions records n as the size when none is known yet and
// returns the expected size.
func (s *EmbeddingService) learnDimensions(n int) int {
	s.mu.RLock()
	dims := s.dimensions
	s.mu.RUnlock()
	if dims != 0 {
		return dims
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimensions == 0 {
		s.dimensions = n
	}
	return s.dimensions
}

// requiresKey reports whether backend is a hosted API.
func requiresKey(backend string) bool {
	switch backend {
	case BackendOpenAI, BackendCohere, BackendMistral, BackendJina:
		return true
	default:
		return false
	}
}

// EmbedBatch embeds each text in order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimensions
}

// ModelName returns "<backend>/<model>".
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping embeds a short probe text.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	_, err := s.Embed(ctx, "ping")
	return err
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
