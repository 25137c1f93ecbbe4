package file

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("chunking.size", 400))
	require.NoError(t, store.Set("embedding.provider", "ollama"))
	require.NoError(t, store.Set("server.metrics", true))

	assert.Equal(t, 400, store.GetInt("chunking.size"))
	assert.Equal(t, "ollama", store.GetString("embedding.provider"))
	assert.True(t, store.GetBool("server.metrics"))

	assert.Equal(t, "", store.GetString("chunking.size"))
	assert.Equal(t, 0, store.GetInt("embedding.provider"))
	assert.False(t, store.GetBool("missing"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("chunking.size", 300))
	require.NoError(t, store.Set("chunking.overlap", 50))
	require.NoError(t, store.Set("embedding.model", "all-minilm"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[chunking]")
	assert.Contains(t, string(raw), "[embedding]")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 300, reloaded.GetInt("chunking.size"))
	assert.Equal(t, 50, reloaded.GetInt("chunking.overlap"))
	assert.Equal(t, "all-minilm", reloaded.GetString("embedding.model"))
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[chunking]
size = 250
overlap = 25

[ocr]
dpi = 200
language = "deu"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 250, store.GetInt("chunking.size"))
	assert.Equal(t, 25, store.GetInt("chunking.overlap"))
	assert.Equal(t, 200, store.GetInt("ocr.dpi"))
	assert.Equal(t, "deu", store.GetString("ocr.language"))
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	_, ok := store.Get("chunking.size")
	assert.False(t, ok)
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[chunking\nsize ="), 0600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not enforced on windows")
	}
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save())

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("chunking.size", i+1)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("chunking.size")
		}()
	}
	wg.Wait()
	assert.Positive(t, store.GetInt("chunking.size"))
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"chunking.size":      500,
		"embedding.provider": "hashing",
		"top":                true,
	})

	assert.Equal(t, map[string]any{
		"chunking":  map[string]any{"size": 500},
		"embedding": map[string]any{"provider": "hashing"},
		"top":       true,
	}, nested)
	assert.Equal(t, map[string]any{
		"chunking.size":      500,
		"embedding.provider": "hashing",
		"top":                true,
	}, flattenMap(nested, ""))
}
