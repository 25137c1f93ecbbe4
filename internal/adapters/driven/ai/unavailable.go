package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// unavailable stands in for a provider that could not be created.
// Every call reports the creation error so commands that never embed
// (settings, history) keep working with a broken configuration.
type unavailable struct {
	err error
}

// Unavailable returns an embedding service whose calls all fail with err.
// err is wrapped with domain.ErrEmbeddingBackend when it does not already wrap it.
func Unavailable(err error) driven.EmbeddingService {
	if !errors.Is(err, domain.ErrEmbeddingBackend) {
		err = fmt.Errorf("%w: %w", domain.ErrEmbeddingBackend, err)
	}
	return &unavailable{err: err}
}

func (u *unavailable) Embed(context.Context, string) ([]float32, error) { return nil, u.err }

func (u *unavailable) EmbedBatch(context.Context, []string) ([][]float32, error) { return nil, u.err }

func (u *unavailable) Dimensions() int { return 0 }

func (u *unavailable) ModelName() string { return "unavailable" }

func (u *unavailable) Ping(context.Context) error { return u.err }

func (u *unavailable) Close() error { return nil }
