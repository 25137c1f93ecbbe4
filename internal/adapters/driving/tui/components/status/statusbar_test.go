package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

func TestBar_DefaultState(t *testing.T) {
	b := NewBar(nil)

	assert.Equal(t, domain.StateEmpty, b.State())
	assert.Contains(t, b.View(), "empty")
}

func TestBar_MessageAndError(t *testing.T) {
	b := NewBar(nil)
	b.SetState(domain.StateReady)

	b.SetMessage("4 chunks")
	assert.Equal(t, "4 chunks", b.Message())
	assert.Contains(t, b.View(), "ready")
	assert.Contains(t, b.View(), "4 chunks")

	b.SetError(errors.New("extraction failed"))
	assert.Equal(t, "extraction failed", b.Message())

	b.SetError(nil)
	assert.Empty(t, b.Message())

	b.SetMessage("x")
	b.Clear()
	assert.Empty(t, b.Message())
}

func TestBar_Bindings(t *testing.T) {
	b := NewBar(nil)
	b.SetWidth(120)
	b.SetBindings(keymap.DefaultKeyMap().SearchHelp())

	view := b.View()
	assert.Contains(t, view, "tab: vector/keyword")
	assert.Contains(t, view, "esc: back")
}
