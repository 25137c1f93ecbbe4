// Package status provides the status bar shown under every view.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// Bar displays the ingestion state, a message and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	state    domain.IngestionState
	message  string
	isError  bool
	bindings []key.Binding
	width    int
}

// NewBar creates a new status bar.
func NewBar(s *styles.Styles) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Bar{
		styles: s,
		state:  domain.StateEmpty,
		width:  80,
	}
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (b *Bar) renderLeft() string {
	state := b.styles.Badge.Render(string(b.state))
	switch {
	case b.message == "":
		return state
	case b.isError:
		return state + " " + b.styles.Error.Render(b.message)
	default:
		return state + " " + b.styles.Normal.Render(b.message)
	}
}

func (b *Bar) renderRight() string {
	hints := make([]string, 0, len(b.bindings))
	for _, binding := range b.bindings {
		h := binding.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the ingestion state shown on the left.
func (b *Bar) SetState(state domain.IngestionState) {
	b.state = state
}

// State returns the displayed ingestion state.
func (b *Bar) State() domain.IngestionState {
	return b.state
}

// SetMessage shows an informational message.
func (b *Bar) SetMessage(message string) {
	b.message = message
	b.isError = false
}

// SetError shows an error message.
func (b *Bar) SetError(err error) {
	if err == nil {
		b.message = ""
		b.isError = false
		return
	}
	b.message = err.Error()
	b.isError = true
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetBindings sets the keybinding hints on the right.
func (b *Bar) SetBindings(bindings []key.Binding) {
	b.bindings = bindings
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Clear removes the message.
func (b *Bar) Clear() {
	b.message = ""
	b.isError = false
}
