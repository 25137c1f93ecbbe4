package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		uri      string
		expected string
	}{
		{
			name:     "first line as title",
			content:  "Document Title\n\nSome content here.",
			uri:      "/doc.pdf",
			expected: "Document Title",
		},
		{
			name:     "skip empty lines",
			content:  "\n\n\nActual Title\nContent",
			uri:      "/doc.pdf",
			expected: "Actual Title",
		},
		{
			name:     "fallback to filename",
			content:  "",
			uri:      "/path/to/my_document.pdf",
			expected: "my document",
		},
		{
			name:     "skip very long first line",
			content:  strings.Repeat("x", 250) + "\nShort Title\nContent",
			uri:      "/doc.pdf",
			expected: "Short Title",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Title(tc.content, tc.uri))
		})
	}
}

func TestTitleFromName(t *testing.T) {
	assert.Equal(t, "annual report 2024", TitleFromName("/tmp/annual-report_2024.pdf"))
	assert.Equal(t, "README", TitleFromName("README"))
}

func TestTitleFromMetadata(t *testing.T) {
	assert.Equal(t, "", TitleFromMetadata(nil))
	assert.Equal(t, "", TitleFromMetadata(map[string]any{"title": 42}))
	assert.Equal(t, "Given", TitleFromMetadata(map[string]any{"title": " Given "}))
}
