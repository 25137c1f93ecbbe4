package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_Flags(t *testing.T) {
	limit := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "n", limit.Shorthand)
	assert.Equal(t, "5", limit.DefValue)

	mode := searchCmd.Flags().Lookup("mode")
	require.NotNil(t, mode)
	assert.Equal(t, "vector", mode.DefValue)

	assert.NotNil(t, searchCmd.Flags().Lookup("json"))
	assert.NotNil(t, searchCmd.Flags().Lookup("file"))
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "search")

	assert.Error(t, err)
}

func TestSearchCmd_PassesOptions(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "search", "neural networks", "-n", "3", "--mode", "keyword")

	require.NoError(t, err)
	assert.Equal(t, "neural networks", ts.search.query)
	assert.Equal(t, domain.SearchOptions{Limit: 3, Mode: domain.SearchModeKeyword}, ts.search.opts)
}

func TestSearchCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.results = []domain.SearchResult{
		{Chunk: domain.Chunk{Position: 4, Content: "backpropagation", StartPage: 2, EndPage: 3}, Distance: 0.25},
	}

	out, err := execute(t, "search", "gradients", "--json")

	require.NoError(t, err)
	var hits []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, float64(4), hits[0]["position"])
	assert.Equal(t, 0.25, hits[0]["distance"])
	assert.Equal(t, "backpropagation", hits[0]["content"])
	assert.Equal(t, float64(2), hits[0]["start_page"])
}

func TestSearchCmd_Table(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.results = []domain.SearchResult{
		{Chunk: domain.Chunk{Position: 1, Content: "first hit"}, Distance: 0.1},
		{Chunk: domain.Chunk{Position: 7, Content: "second hit", StartPage: 3, EndPage: 4}, Distance: 0.5},
	}

	out, err := execute(t, "search", "hits")

	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1] chunk #1 (distance 0.1000)")
	assert.Contains(t, out, "[2] chunk #7 (distance 0.5000)")
	assert.Contains(t, out, "Pages: 3-4")
}

func TestSearchCmd_NoResults(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "search", "nothing")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_NotReady(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.err = domain.ErrNotReady

	_, err := execute(t, "search", "anything")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotReady)
}

func TestSearchCmd_NotConfigured(t *testing.T) {
	SetServices(nil)
	defer resetFlags()

	_, err := execute(t, "search", "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search service not configured")
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "a b c", snippet("  a\nb   c "))

	long := ""
	for i := 0; i < 50; i++ {
		long += "w "
	}
	got := snippet(long)
	assert.Len(t, got, snippetWords*2-1+len(" ..."))
	assert.Contains(t, got, " ...")
}
