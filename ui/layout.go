// Package ui is a full-screen dashboard for a recategorisation run. It
// shows run statistics, the file pages of the current year, the outcome of
// each page and the log.
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-scripts/pdfcats/internal/types"
)

// Define common styles
var (
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Messages sent by the Dashboard to the Layout
type (
	yearStartedMsg  struct{ title string }
	queueMsg        struct{ pages []string }
	pageMsg         struct{ title string }
	resultMsg       struct{ result types.PageResult }
	yearFinishedMsg struct{ skipped bool }
	logMsg          struct{ line string }
	doneMsg         struct{ err error }
)

// Layout is the dashboard model: statistics and the year's queue on top,
// page results below them, the log console at the bottom
type Layout struct {
	stats   *StatsPanel
	queue   *QueueList
	results *ResultsTable
	console *ErrorConsole
	width   int
	height  int
	done    bool
	err     error
}

// NewLayout creates and initializes a new layout with all panels
func NewLayout(totalYears int) *Layout {
	return &Layout{
		stats:   NewStatsPanel(totalYears),
		queue:   NewQueueList(),
		results: NewResultsTable(),
		console: NewErrorConsole(),
	}
}

// SetSize adjusts the layout and all panels to the given dimensions
func (l *Layout) SetSize(width, height int) {
	l.width = width
	l.height = height

	halfWidth := width / 2
	rowHeight := (height - 1) / 3

	l.stats.SetSize(halfWidth, rowHeight)
	l.queue.SetSize(width-halfWidth, rowHeight)
	l.results.SetSize(width, rowHeight)
	l.console.SetSize(width, height-1-2*rowHeight)
}

// Init implements tea.Model
func (l *Layout) Init() tea.Cmd {
	return nil
}

// Update processes messages and updates the panels
func (l *Layout) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return l, tea.Quit
		}
	case yearStartedMsg:
		l.stats.StartYear(msg.title)
		l.queue.Clear()
		l.console.AddEntry(LevelInfo, "Started "+msg.title)
		return l, nil
	case queueMsg:
		l.queue.SetPages(msg.pages)
		return l, nil
	case pageMsg:
		l.stats.Page(msg.title)
		l.queue.MarkCurrent(msg.title)
		return l, nil
	case resultMsg:
		l.stats.AddResult(msg.result)
		l.queue.MarkProcessed(msg.result.Title, msg.result.Action)
		l.results.AddResult(msg.result)
		return l, nil
	case yearFinishedMsg:
		l.stats.FinishYear(msg.skipped)
		return l, nil
	case logMsg:
		l.console.AddLine(msg.line)
		return l, nil
	case doneMsg:
		l.done = true
		l.err = msg.err
		l.stats.Finish()
		return l, nil
	}

	return l, tea.Batch(l.results.Update(msg), l.console.Update(msg))
}

// View renders the complete layout
func (l *Layout) View() string {
	if l.width == 0 {
		return "Starting..."
	}

	topRow := lipgloss.JoinHorizontal(
		lipgloss.Top,
		l.stats.View(),
		l.queue.View(),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		topRow,
		l.results.View(),
		l.console.View(),
		l.footer(),
	)
}

func (l *Layout) footer() string {
	switch {
	case l.done && l.err != nil:
		return errorStyle.Render(fmt.Sprintf("Run failed: %v", l.err)) + helpStyle.Render("  q: quit")
	case l.done:
		return infoStyle.Render("Run finished") + helpStyle.Render("  q: quit")
	default:
		return helpStyle.Render("q: quit • ↑/↓ pgup/pgdown: scroll • 1/2/3: log filter")
	}
}

// Summary is a one-line account of the run so far
func (l *Layout) Summary() string {
	return l.stats.Summary()
}
