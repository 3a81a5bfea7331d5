package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-scripts/pdfcats/internal/types"
)

// ResultsTable lists the outcome of every page processed so far
type ResultsTable struct {
	viewport    viewport.Model
	results     []types.PageResult
	width       int
	height      int
	headerStyle lipgloss.Style
	style       lipgloss.Style
}

// NewResultsTable creates a new results table
func NewResultsTable() *ResultsTable {
	return &ResultsTable{
		viewport: viewport.New(0, 0),
		results:  make([]types.PageResult, 0),
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		style: borderStyle.BorderForeground(lipgloss.Color("35")),
	}
}

// SetSize updates the table dimensions
func (t *ResultsTable) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.viewport.Width = max(width-2, 0)
	t.viewport.Height = max(height-4, 0)
	t.updateContent()
}

// Update scrolls the table
func (t *ResultsTable) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return cmd
}

// AddResult appends a page result, following the end of the table
func (t *ResultsTable) AddResult(result types.PageResult) {
	atBottom := t.viewport.AtBottom()
	t.results = append(t.results, result)
	t.updateContent()
	if atBottom {
		t.viewport.GotoBottom()
	}
}

// Results returns the page results shown
func (t *ResultsTable) Results() []types.PageResult {
	return t.results
}

// View renders the table
func (t *ResultsTable) View() string {
	stats := fmt.Sprintf("Pages: %d | Changed: %d | Save errors: %d",
		len(t.results), t.changedCount(), t.errorCount())

	return t.style.Width(max(t.width-2, 0)).Render(
		t.header() + "\n" + t.viewport.View() + "\n" + infoStyle.Render(stats),
	)
}

func (t *ResultsTable) pageWidth() int {
	return max(t.width-2-8-8-12-10-4, 20)
}

func (t *ResultsTable) header() string {
	return t.headerStyle.Render(fmt.Sprintf("%-*s %-8s %-8s %-12s %-10s",
		t.pageWidth(), "Page", "Action", "Direct", "Transitive", "Status"))
}

func (t *ResultsTable) updateContent() {
	if len(t.results) == 0 {
		t.viewport.SetContent(infoStyle.Render("No results yet"))
		return
	}

	rows := make([]string, 0, len(t.results))
	for _, r := range t.results {
		row := fmt.Sprintf("%-*s %-8s %-8t %-12t %-10s",
			t.pageWidth(), truncate(r.Title, t.pageWidth()),
			r.Action, r.DirectMatch, r.TransitiveMatch, status(r))

		switch {
		case r.Error != "":
			row = errorStyle.Render(row)
		case r.Changed && !r.Saved:
			row = warningStyle.Render(row)
		}
		rows = append(rows, row)
	}

	t.viewport.SetContent(strings.Join(rows, "\n"))
}

func status(r types.PageResult) string {
	switch {
	case r.Error != "":
		return "error"
	case r.Saved:
		return "saved"
	case r.Changed:
		return "not saved"
	default:
		return "unchanged"
	}
}

func truncate(s string, w int) string {
	runes := []rune(s)
	if len(runes) <= w {
		return s
	}
	if w <= 3 {
		return string(runes[:w])
	}
	return string(runes[:w-3]) + "..."
}

func (t *ResultsTable) changedCount() int {
	count := 0
	for _, r := range t.results {
		if r.Changed {
			count++
		}
	}
	return count
}

func (t *ResultsTable) errorCount() int {
	count := 0
	for _, r := range t.results {
		if r.Error != "" {
			count++
		}
	}
	return count
}
