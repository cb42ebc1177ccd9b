// Package tui is the interactive terminal explorer over a loaded index.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/meridianads/newsmatch/internal/corpus"
)

// Searcher is the TUI-facing subset of the retrieval engine.
type Searcher interface {
	Search(ctx context.Context, query string, k int, kind corpus.Kind) ([]corpus.SearchResult, error)
}

// kindCycle is the order the tab key steps through filters.
var kindCycle = []corpus.Kind{"", corpus.KindNewsArticle, corpus.KindLandingPage}

// Model is the Bubble Tea model for the explorer.
type Model struct {
	engine    Searcher
	input     textinput.Model
	viewport  viewport.Model
	results   []corpus.SearchResult
	status    string
	cursor    int
	kindIdx   int
	ready     bool
	lastQuery string
}

// New creates a new explorer model over a built engine.
func New(engine Searcher) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type query and press Enter (tab cycles filter)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		engine:   engine,
		input:    ti,
		viewport: vp,
		status:   "Index loaded. Type to search.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header+filter, status, query box, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.runSearch(q)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "tab":
			m.kindIdx = (m.kindIdx + 1) % len(kindCycle)
			if m.lastQuery != "" {
				m.runSearch(m.lastQuery)
			}
			m.viewport.SetContent(m.renderCurrentResult())
			return m, nil
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) runSearch(query string) {
	kind := kindCycle[m.kindIdx]
	res, err := m.engine.Search(context.Background(), query, 10, kind)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.results = nil
		return
	}
	m.status = fmt.Sprintf("%d results for %q", len(res), query)
	m.results = res
	m.cursor = 0
	m.lastQuery = query
}

// View renders the explorer layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("newsmatch explorer")
	filter := dimStyle.Render("filter: " + m.filterLabel())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "  " + filter + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) filterLabel() string {
	if kind := kindCycle[m.kindIdx]; kind != "" {
		return string(kind)
	}
	return "all"
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return dimStyle.Render("No results.")
	}

	var b strings.Builder
	for i, r := range m.results {
		marker := "  "
		if i == m.cursor {
			marker = "» "
		}
		line := fmt.Sprintf("%s%2d. [%.3f] %s %s", marker, i+1, r.Score, r.Kind, resultTitle(r))
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	sel := m.results[m.cursor]
	b.WriteString("\n" + dimStyle.Render("owner: "+sel.Owner) + "\n")
	b.WriteString(wrapContent(sel.Content, m.viewport.Width-4))
	return b.String()
}

func resultTitle(r corpus.SearchResult) string {
	if r.NewsArticle != nil {
		return r.NewsArticle.Title
	}
	content := r.Content
	if len(content) > 60 {
		content = content[:60] + "..."
	}
	return content
}

func wrapContent(text string, width int) string {
	if width < 20 {
		width = 20
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
