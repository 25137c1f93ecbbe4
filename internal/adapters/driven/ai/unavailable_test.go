package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

func TestUnavailable(t *testing.T) {
	svc := Unavailable(errors.New("openai requires an API key"))

	if _, err := svc.Embed(context.Background(), "x"); !errors.Is(err, domain.ErrEmbeddingBackend) {
		t.Errorf("Embed() error = %v, want ErrEmbeddingBackend", err)
	}
	if _, err := svc.EmbedBatch(context.Background(), []string{"x"}); err == nil {
		t.Error("EmbedBatch() expected error")
	}
	if err := svc.Ping(context.Background()); err == nil {
		t.Error("Ping() expected error")
	}
	if svc.Dimensions() != 0 {
		t.Errorf("Dimensions() = %d, want 0", svc.Dimensions())
	}
	if err := svc.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestUnavailable_KeepsWrappedError(t *testing.T) {
	_, createErr := CreateEmbeddingService(&domain.EmbeddingSettings{Provider: "bogus"})
	svc := Unavailable(createErr)

	err := svc.Ping(context.Background())
	if err.Error() != createErr.Error() {
		t.Errorf("Ping() error = %q, want %q", err, createErr)
	}
}
