package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

func TestConfigStore_InterfaceCompliance(t *testing.T) {
	var _ driven.ConfigStore = NewConfigStore()
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("chunking.size", 500))
	require.NoError(t, store.Set("chunking.overlap", int64(100)))
	require.NoError(t, store.Set("ocr.dpi", float64(300)))
	require.NoError(t, store.Set("embedding.provider", "ollama"))
	require.NoError(t, store.Set("server.metrics", true))

	assert.Equal(t, 500, store.GetInt("chunking.size"))
	assert.Equal(t, 100, store.GetInt("chunking.overlap"))
	assert.Equal(t, 300, store.GetInt("ocr.dpi"))
	assert.Equal(t, "ollama", store.GetString("embedding.provider"))
	assert.True(t, store.GetBool("server.metrics"))

	val, ok := store.Get("chunking.size")
	assert.True(t, ok)
	assert.Equal(t, 500, val)
}

func TestConfigStore_MissingAndWrongType(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("embedding.model", 42))

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, "", store.GetString("embedding.model"))
	assert.Equal(t, 0, store.GetInt("embedding.provider"))
	assert.False(t, store.GetBool("embedding.model"))
}

func TestConfigStore_SaveLoadNoOp(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("ocr.language", "deu"))

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, "deu", store.GetString("ocr.language"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("chunking.size", i)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("chunking.size")
		}()
	}
	wg.Wait()

	_, ok := store.Get("chunking.size")
	assert.True(t, ok)
}
