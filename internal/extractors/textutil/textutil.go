// Package textutil holds helpers shared by the extractors.
package textutil

import (
	"path/filepath"
	"strings"
)

// maxTitleLength is the longest line accepted as a content title.
const maxTitleLength = 200

// TitleFromName turns a filename into a human-readable title.
func TitleFromName(name string) string {
	filename := filepath.Base(name)
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// Title returns the first short non-empty line of content,
// falling back to the filename.
func Title(content, name string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) > maxTitleLength || strings.ContainsRune(line, 0) {
			continue
		}
		return line
	}
	return TitleFromName(name)
}

// TitleFromMetadata prefers a caller-supplied "title" entry.
func TitleFromMetadata(metadata map[string]any) string {
	if metadata == nil {
		return ""
	}
	if title, ok := metadata["title"].(string); ok {
		return strings.TrimSpace(title)
	}
	return ""
}
