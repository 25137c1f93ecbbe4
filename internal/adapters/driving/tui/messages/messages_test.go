package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	tests := map[ViewType]string{
		ViewMenu:     "menu",
		ViewIngest:   "ingest",
		ViewChunks:   "chunks",
		ViewSearch:   "search",
		ViewHelp:     "help",
		ViewType(99): "unknown",
	}
	for view, want := range tests {
		assert.Equal(t, want, view.String())
	}
}
