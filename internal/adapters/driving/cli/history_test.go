package cli

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

func historyFixture() []domain.IngestionRecord {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return []domain.IngestionRecord{
		{
			ID: "rec-2", Name: "broken.pdf", Status: domain.IngestionFailed,
			Error: "document cannot be opened", StartedAt: start.Add(time.Hour),
		},
		{
			ID: "rec-1", Name: "paper.pdf", Status: domain.IngestionSucceeded,
			ChunksCreated: 12, Pages: 4, OCRPages: 1,
			StartedAt: start, FinishedAt: start.Add(1500 * time.Millisecond),
		},
	}
}

func TestHistoryCmd_List(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.history.records = historyFixture()

	out, err := execute(t, "history", "-n", "5")

	require.NoError(t, err)
	assert.Equal(t, 5, ts.history.limit)
	assert.Contains(t, out, "broken.pdf")
	assert.Contains(t, out, "(document cannot be opened)")
	assert.Contains(t, out, "12 chunks")
	assert.Contains(t, out, "id: rec-1")
}

func TestHistoryCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "history")

	require.NoError(t, err)
	assert.Contains(t, out, "No ingestions recorded.")
}

func TestHistoryCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.history.records = historyFixture()

	out, err := execute(t, "history", "--json")

	require.NoError(t, err)
	var entries []historyEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "error", entries[0].Status)
	assert.Nil(t, entries[0].FinishedAt)
	assert.Equal(t, 12, entries[1].ChunksCreated)
	assert.NotNil(t, entries[1].FinishedAt)
}

func TestHistoryShowCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.history.records = historyFixture()

	out, err := execute(t, "history", "show", "rec-1")

	require.NoError(t, err)
	assert.Contains(t, out, "Name:     paper.pdf")
	assert.Contains(t, out, "Pages:    4 (1 OCR)")
	assert.Contains(t, out, "Duration: 1.5s")
}

func TestHistoryShowCmd_NotFound(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "history", "show", "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
