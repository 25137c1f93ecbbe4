// Package ingest provides the view that loads and ingests a document.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
)

// View asks for a path and runs the ingestion in the background.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	path      *input.Field
	spinner   spinner.Model
	statusbar *status.Bar

	ingestion driving.IngestionService
	loader    driven.DocumentLoader
	ctx       context.Context

	running bool
	report  *domain.IngestionReport
	err     error
	width   int
	height  int
}

// NewView creates a new ingest view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	ingestion driving.IngestionService,
	loader driven.DocumentLoader,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	bar := status.NewBar(s)
	bar.SetBindings(km.IngestHelp())

	return &View{
		styles:    s,
		keymap:    km,
		path:      input.NewField(s, "File", "path/to/document.pdf"),
		spinner:   sp,
		statusbar: bar,
		ingestion: ingestion,
		loader:    loader,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for ingestion.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init focuses the path input.
func (v *View) Init() tea.Cmd {
	v.statusbar.SetState(v.ingestion.State())
	return tea.Batch(v.path.Init(), v.path.Focus())
}

// Update handles messages for the ingest view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)

	case spinner.TickMsg:
		if !v.running {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.IngestCompleted:
		v.running = false
		v.report = msg.Report
		v.err = msg.Err
		v.statusbar.SetState(v.ingestion.State())
		if msg.Err != nil {
			v.statusbar.SetError(msg.Err)
		} else {
			v.statusbar.SetMessage(fmt.Sprintf("%d chunks from %s", msg.Report.ChunksCreated, msg.Path))
		}
		return v, v.path.Focus()
	}

	var cmd tea.Cmd
	v.path, cmd = v.path.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if keymap.Matches(msg.String(), v.keymap.Back) && !v.running {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	if v.running {
		return v, nil
	}

	if keymap.Matches(msg.String(), v.keymap.Submit) {
		path := strings.TrimSpace(v.path.Value())
		if path == "" {
			return v, nil
		}
		v.running = true
		v.err = nil
		v.report = nil
		v.path.Blur()
		v.statusbar.SetState(domain.StateIngesting)
		v.statusbar.SetMessage("ingesting " + path)
		return v, tea.Batch(v.spinner.Tick, v.runIngest(path))
	}

	var cmd tea.Cmd
	v.path, cmd = v.path.Update(msg)
	return v, cmd
}

// runIngest loads and ingests path off the UI goroutine.
func (v *View) runIngest(path string) tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		if v.loader == nil || v.ingestion == nil {
			return messages.IngestCompleted{Path: path, Err: errors.New("ingestion is not configured")}
		}
		raw, err := v.loader.Load(ctx, path)
		if err != nil {
			return messages.IngestCompleted{Path: path, Err: err}
		}
		report, err := v.ingestion.Ingest(ctx, raw)
		return messages.IngestCompleted{Path: path, Report: report, Err: err}
	}
}

// View renders the ingest view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Ingest document"))
	b.WriteString("\n\n")
	b.WriteString(v.path.View())
	b.WriteString("\n\n")

	switch {
	case v.running:
		b.WriteString(v.spinner.View() + " " + v.styles.Normal.Render("Extracting, chunking and embedding..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Ingestion failed: " + v.err.Error()))
		if errors.Is(v.err, domain.ErrInvalidConfiguration) {
			b.WriteString("\n" + v.styles.Muted.Render("Run 'pdfrag settings' to fix the configuration."))
		}
	case v.report != nil:
		b.WriteString(v.renderReport())
	default:
		b.WriteString(v.styles.Muted.Render("Enter a path and press enter."))
	}

	b.WriteString("\n\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

func (v *View) renderReport() string {
	r := v.report
	lines := []string{
		v.styles.Success.Render(fmt.Sprintf("Ingested %s", r.Name)),
		fmt.Sprintf("  Chunks:     %d", r.ChunksCreated),
		fmt.Sprintf("  Pages:      %d (%d native, %d OCR)", r.Pages, r.NativePages, r.OCRPages),
		fmt.Sprintf("  Dimensions: %d", r.Dimensions),
		fmt.Sprintf("  Duration:   %s", r.Duration.Round(time.Millisecond)),
	}
	if len(r.FailedOCRPages) > 0 {
		lines = append(lines, v.styles.Warning.Render(fmt.Sprintf("  OCR failed on pages %v", r.FailedOCRPages)))
	}
	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.path.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Reset clears the previous outcome.
func (v *View) Reset() {
	v.report = nil
	v.err = nil
	v.statusbar.Clear()
}

// Running reports whether an ingestion is in flight.
func (v *View) Running() bool {
	return v.running
}

// Report returns the last successful report.
func (v *View) Report() *domain.IngestionReport {
	return v.report
}

// Err returns the last ingestion error.
func (v *View) Err() error {
	return v.err
}

// SetPath sets the path input value.
func (v *View) SetPath(path string) {
	v.path.SetValue(path)
}
