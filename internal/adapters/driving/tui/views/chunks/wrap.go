package chunks

import (
	"regexp"
	"strings"
)

var markerPattern = regexp.MustCompile(`--- (Text|OCR) from Page \d+ ---`)

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var b strings.Builder
	lineLen := 0
	for _, word := range strings.Fields(text) {
		n := len([]rune(word))
		switch {
		case lineLen == 0:
		case lineLen+1+n > width:
			b.WriteString("\n")
			lineLen = 0
		default:
			b.WriteString(" ")
			lineLen++
		}
		b.WriteString(word)
		lineLen += n
	}
	return b.String()
}
