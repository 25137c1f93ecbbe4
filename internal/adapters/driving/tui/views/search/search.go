// Package search provides the search view for the TUI.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
)

// ErrNoSearchService indicates that no search service was provided.
var ErrNoSearchService = errors.New("search service is required")

// previewWords is how many words of each hit are shown.
const previewWords = 30

// View represents the search view with input, results and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Field
	statusbar *status.Bar

	searchService driving.SearchService
	ctx           context.Context

	mode       domain.SearchMode
	limit      int
	results    []domain.SearchResult
	selected   int
	err        error
	focusInput bool
	searching  bool
	width      int
	height     int
}

// NewView creates a new search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, searchService driving.SearchService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s)
	bar.SetBindings(km.SearchHelp())

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewField(s, "Query", "what are you looking for?"),
		statusbar:     bar,
		searchService: searchService,
		ctx:           context.Background(),
		mode:          domain.SearchModeVector,
		limit:         domain.DefaultSearchLimit,
		focusInput:    true,
		width:         80,
		height:        24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.input.Focus())
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	if keymap.Matches(key, v.keymap.Back) {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if keymap.Matches(key, v.keymap.ToggleMode) {
		v.ToggleMode()
		return v, nil
	}

	if v.focusInput {
		if keymap.Matches(key, v.keymap.Submit) {
			query := strings.TrimSpace(v.input.Value())
			if query == "" || v.searching {
				return v, nil
			}
			v.searching = true
			v.focusInput = false
			v.input.Blur()
			v.statusbar.SetMessage("searching...")
			return v, v.performSearch(query)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(key, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.selected < len(v.results)-1 {
			v.selected++
		}
	case keymap.Matches(key, v.keymap.NewSearch):
		v.focusInput = true
		return v, v.input.Focus()
	}
	return v, nil
}

// performSearch runs the query off the UI goroutine.
func (v *View) performSearch(query string) tea.Cmd {
	ctx := v.ctx
	opts := domain.SearchOptions{Limit: v.limit, Mode: v.mode}
	return func() tea.Msg {
		if v.searchService == nil {
			return messages.SearchCompleted{Query: query, Err: ErrNoSearchService}
		}
		results, err := v.searchService.Search(ctx, query, opts)
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	v.searching = false
	v.selected = 0
	v.results = msg.Results
	v.err = msg.Err
	if msg.Err != nil {
		v.statusbar.SetError(msg.Err)
		v.focusInput = true
		v.input.Focus()
		return
	}
	v.statusbar.SetMessage(fmt.Sprintf("%d results (%s)", len(msg.Results), v.mode))
}

// ToggleMode switches between vector and keyword search.
func (v *View) ToggleMode() {
	if v.mode == domain.SearchModeVector {
		v.mode = domain.SearchModeKeyword
	} else {
		v.mode = domain.SearchModeVector
	}
	v.statusbar.SetMessage("mode: " + string(v.mode))
}

// View renders the search view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Search"))
	b.WriteString("  " + v.styles.Badge.Render(string(v.mode)))
	b.WriteString("\n\n")
	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	switch {
	case errors.Is(v.err, domain.ErrNotReady):
		b.WriteString(v.styles.Muted.Render("No chunks available. Please upload a PDF first."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(v.err.Error()))
	case v.results == nil:
		b.WriteString(v.styles.Muted.Render("Type a query and press enter."))
	case len(v.results) == 0:
		b.WriteString(v.styles.Muted.Render("No results"))
	default:
		b.WriteString(v.renderResults())
	}

	b.WriteString("\n\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

func (v *View) renderResults() string {
	lines := make([]string, 0, len(v.results)*3)
	for i, r := range v.results {
		cursor := "  "
		title := fmt.Sprintf("[%d] chunk #%d", i+1, r.Chunk.Position)
		if i == v.selected && !v.focusInput {
			cursor = "> "
			title = v.styles.Selected.Render(title)
		} else {
			title = v.styles.Normal.Render(title)
		}

		score := fmt.Sprintf("distance %.4f", r.Distance)
		if v.mode == domain.SearchModeKeyword {
			score = fmt.Sprintf("score %.4f", r.Score)
		}
		header := cursor + title + " " + v.styles.Muted.Render(score)
		if r.Chunk.StartPage > 0 {
			header += " " + v.styles.Muted.Render(fmt.Sprintf("p.%d", r.Chunk.StartPage))
		}
		lines = append(lines, header, "    "+v.styles.Muted.Render(preview(r.Chunk.Content)), "")
	}
	return strings.Join(lines, "\n")
}

func preview(content string) string {
	words := strings.Fields(content)
	if len(words) <= previewWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:previewWords], " ") + " ..."
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Reset clears the query and results.
func (v *View) Reset() {
	v.input.Reset()
	v.results = nil
	v.selected = 0
	v.err = nil
	v.focusInput = true
	v.searching = false
	v.statusbar.Clear()
}

// Query returns the current query text.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the query text.
func (v *View) SetQuery(q string) {
	v.input.SetValue(q)
}

// Results returns the current results.
func (v *View) Results() []domain.SearchResult {
	return v.results
}

// SelectedIndex returns the highlighted result.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Mode returns the current search mode.
func (v *View) Mode() domain.SearchMode {
	return v.mode
}

// Err returns the last search error.
func (v *View) Err() error {
	return v.err
}
