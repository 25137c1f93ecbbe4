// Package chunks provides a browser over the current chunk listing.
package chunks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
)

// NoChunksMessage is shown before anything has been ingested.
const NoChunksMessage = "No chunks available. Please upload a PDF first."

// View shows one chunk at a time in a scrollable viewport.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	viewport  viewport.Model
	statusbar *status.Bar

	ingestion driving.IngestionService
	ctx       context.Context

	listing *domain.ChunkListing
	current int
	err     error
	width   int
	height  int
}

// NewView creates a chunk browser.
func NewView(s *styles.Styles, km *keymap.KeyMap, ingestion driving.IngestionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s)
	bar.SetBindings(km.ChunksHelp())

	return &View{
		styles:    s,
		keymap:    km,
		viewport:  viewport.New(76, 16),
		statusbar: bar,
		ingestion: ingestion,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for loading.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the current listing.
func (v *View) Init() tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		listing, err := v.ingestion.ListChunks(ctx)
		return messages.ChunksLoaded{Listing: listing, Err: err}
	}
}

// Update handles messages for the chunk browser.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ChunksLoaded:
		v.listing = msg.Listing
		v.err = msg.Err
		v.current = 0
		v.statusbar.SetState(v.ingestion.State())
		v.statusbar.Clear()
		if msg.Err != nil && !errors.Is(msg.Err, domain.ErrNotReady) {
			v.statusbar.SetError(msg.Err)
		}
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		key := msg.String()
		switch {
		case keymap.Matches(key, v.keymap.Back):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case keymap.Matches(key, v.keymap.Next):
			v.Move(1)
			return v, nil
		case keymap.Matches(key, v.keymap.Prev):
			v.Move(-1)
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// Move steps delta chunks, clamped to the listing.
func (v *View) Move(delta int) {
	if v.listing == nil || len(v.listing.Chunks) == 0 {
		return
	}
	v.current = min(max(v.current+delta, 0), len(v.listing.Chunks)-1)
	v.refresh()
}

// refresh renders the current chunk into the viewport.
func (v *View) refresh() {
	if v.listing == nil || len(v.listing.Chunks) == 0 {
		v.viewport.SetContent("")
		return
	}
	c := v.listing.Chunks[v.current]
	v.viewport.SetContent(v.highlightMarkers(wrap(c.Content, v.viewport.Width)))
	v.viewport.GotoTop()
	v.statusbar.SetMessage(fmt.Sprintf("chunk %d/%d", v.current+1, len(v.listing.Chunks)))
}

// highlightMarkers styles page boundary markers.
func (v *View) highlightMarkers(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = markerPattern.ReplaceAllStringFunc(line, func(m string) string {
			return v.styles.Marker.Render(m)
		})
	}
	return strings.Join(lines, "\n")
}

// View renders the chunk browser.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Chunks"))

	switch {
	case errors.Is(v.err, domain.ErrNotReady):
		b.WriteString("\n\n" + v.styles.Muted.Render(NoChunksMessage))
	case v.err != nil:
		b.WriteString("\n\n" + v.styles.Error.Render(v.err.Error()))
	case v.listing == nil:
		b.WriteString("\n\n" + v.styles.Muted.Render("Loading..."))
	case len(v.listing.Chunks) == 0:
		b.WriteString("  " + v.styles.Muted.Render(v.listing.DocumentName))
		b.WriteString("\n\n" + v.styles.Muted.Render("The document produced no chunks."))
	default:
		c := v.listing.Chunks[v.current]
		b.WriteString("  " + v.styles.Muted.Render(v.listing.DocumentName))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Badge.Render(fmt.Sprintf("#%d", c.Position)))
		b.WriteString(" " + v.styles.Muted.Render(fmt.Sprintf("words %d-%d", c.StartWord, c.StartWord+c.WordCount-1)))
		if c.StartPage > 0 {
			b.WriteString(" " + v.styles.Muted.Render(pageSpan(c)))
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Panel.Render(v.viewport.View()))
	}

	b.WriteString("\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

func pageSpan(c domain.Chunk) string {
	if c.StartPage == c.EndPage {
		return fmt.Sprintf("page %d", c.StartPage)
	}
	return fmt.Sprintf("pages %d-%d", c.StartPage, c.EndPage)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = max(width-4, 20)
	v.viewport.Height = max(height-8, 5)
	v.statusbar.SetWidth(width)
	v.refresh()
}

// Current returns the index of the displayed chunk.
func (v *View) Current() int {
	return v.current
}

// Listing returns the loaded listing, nil before loading or on error.
func (v *View) Listing() *domain.ChunkListing {
	return v.listing
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
