// Package tui provides an interactive terminal pager for fetched
// documents.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/ports/driving"
)

// documentLoaded is delivered when the fetch finishes.
type documentLoaded struct {
	result *driving.FetchResult
	err    error
}

// Model is the document viewer model.
type Model struct {
	styles   *Styles
	fetch    driving.FetchService
	ref      string
	format   domain.OutputFormat
	viewport viewport.Model

	title   string
	blocks  int
	err     error
	loading bool
	ready   bool
}

// NewModel creates a viewer for the given document reference.
func NewModel(fetch driving.FetchService, ref string, format domain.OutputFormat) *Model {
	return &Model{
		styles:  DefaultStyles(),
		fetch:   fetch,
		ref:     ref,
		format:  format,
		loading: true,
	}
}

// Init starts loading the document.
func (m *Model) Init() tea.Cmd {
	return m.loadDocument()
}

// loadDocument returns a command that fetches the document.
func (m *Model) loadDocument() tea.Cmd {
	return func() tea.Msg {
		result, err := m.fetch.Fetch(context.Background(), m.ref, m.format)
		return documentLoaded{result: result, err: err}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.err = nil
			return m, m.loadDocument()
		}

	case documentLoaded:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.title = msg.result.Title
		m.blocks = msg.result.BlockCount
		m.ref = msg.result.DocumentID
		m.viewport.SetContent(msg.result.Content)
		m.viewport.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the viewer.
func (m *Model) View() string {
	if !m.ready {
		return "Initialising..."
	}

	var b strings.Builder

	title := m.title
	if title == "" {
		title = m.ref
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(m.viewport.Width, 60)))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(m.styles.Muted.Render("Loading document..."))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %s", m.err.Error())))
		b.WriteString("\n")
	default:
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d blocks, %3.f%%", m.blocks, m.viewport.ScrollPercent()*100)))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [r] reload  [q] quit"))
	return b.String()
}

// Run fetches the document and runs the viewer until the user quits.
func Run(fetch driving.FetchService, ref string, format domain.OutputFormat) error {
	program := tea.NewProgram(NewModel(fetch, ref, format), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
