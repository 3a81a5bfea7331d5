package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// LogLevel represents the severity of a log entry
type LogLevel int

const (
	LevelInfo LogLevel = iota
	LevelWarning
	LevelError
)

// LogEntry represents a single log message
type LogEntry struct {
	timestamp string
	level     LogLevel
	message   string
}

// ErrorConsole shows the run's log lines, filtered by level
type ErrorConsole struct {
	viewport  viewport.Model
	entries   []LogEntry
	width     int
	height    int
	style     lipgloss.Style
	showLevel LogLevel
}

// Styles for different log levels
var (
	errorLogStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningLogStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	infoLogStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110"))

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")).
			Italic(true)
)

// NewErrorConsole creates a new error console
func NewErrorConsole() *ErrorConsole {
	return &ErrorConsole{
		viewport:  viewport.New(0, 0),
		entries:   make([]LogEntry, 0),
		style:     borderStyle.BorderForeground(lipgloss.Color("196")),
		showLevel: LevelInfo,
	}
}

// SetSize updates the console dimensions
func (e *ErrorConsole) SetSize(width, height int) {
	e.width = width
	e.height = height
	e.viewport.Width = max(width-2, 0)
	e.viewport.Height = max(height-4, 0)
	e.updateContent()
}

// AddEntry adds a new log entry
func (e *ErrorConsole) AddEntry(level LogLevel, msg string) {
	e.add(LogEntry{
		timestamp: time.Now().Format(time.TimeOnly),
		level:     level,
		message:   msg,
	})
}

// AddLine adds a line written by the logger. The timestamp and level are
// taken from the line when present.
func (e *ErrorConsole) AddLine(line string) {
	line = strings.TrimRight(ansi.Strip(line), "\r\n")
	if strings.TrimSpace(line) == "" {
		return
	}
	e.add(parseLine(line))
}

// Entries returns the entries at or above the current filter level
func (e *ErrorConsole) Entries() []LogEntry {
	out := make([]LogEntry, 0, len(e.entries))
	for _, entry := range e.entries {
		if entry.level >= e.showLevel {
			out = append(out, entry)
		}
	}
	return out
}

// Message returns the text of the entry
func (l LogEntry) Message() string {
	return l.message
}

// Level returns the severity of the entry
func (l LogEntry) Level() LogLevel {
	return l.level
}

// Update handles filter keys and scrolling
func (e *ErrorConsole) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "1":
			e.showLevel = LevelInfo
			e.updateContent()
		case "2":
			e.showLevel = LevelWarning
			e.updateContent()
		case "3":
			e.showLevel = LevelError
			e.updateContent()
		}
	}

	var cmd tea.Cmd
	e.viewport, cmd = e.viewport.Update(msg)
	return cmd
}

// View renders the console
func (e *ErrorConsole) View() string {
	stats := fmt.Sprintf("Filter: %s | Total: %d | Errors: %d | Warnings: %d",
		levelString(e.showLevel),
		len(e.entries),
		e.countByLevel(LevelError),
		e.countByLevel(LevelWarning),
	)

	return e.style.Width(max(e.width-2, 0)).Render(
		titleStyle.Render("Log") + "\n" + e.viewport.View() + "\n" + infoStyle.Render(stats),
	)
}

func (e *ErrorConsole) add(entry LogEntry) {
	atBottom := e.viewport.AtBottom()
	e.entries = append(e.entries, entry)
	e.updateContent()
	if atBottom {
		e.viewport.GotoBottom()
	}
}

func (e *ErrorConsole) updateContent() {
	var sb strings.Builder

	for _, entry := range e.Entries() {
		var logStyle lipgloss.Style
		switch entry.level {
		case LevelError:
			logStyle = errorLogStyle
		case LevelWarning:
			logStyle = warningLogStyle
		default:
			logStyle = infoLogStyle
		}

		sb.WriteString(fmt.Sprintf("%s [%s] %s\n",
			timestampStyle.Render(entry.timestamp),
			logStyle.Render(levelString(entry.level)),
			entry.message,
		))
	}

	e.viewport.SetContent(sb.String())
}

// parseLine splits "15:04:05 WARN pdfcats: message" into its parts
func parseLine(line string) LogEntry {
	entry := LogEntry{
		timestamp: time.Now().Format(time.TimeOnly),
		level:     LevelInfo,
		message:   line,
	}

	fields := strings.SplitN(line, " ", 3)
	if len(fields) < 3 {
		return entry
	}
	if _, err := time.Parse(time.TimeOnly, fields[0]); err != nil {
		return entry
	}

	switch fields[1] {
	case "ERRO", "FATA":
		entry.level = LevelError
	case "WARN":
		entry.level = LevelWarning
	case "INFO", "DEBU":
	default:
		return entry
	}
	entry.timestamp = fields[0]
	entry.message = fields[2]

	return entry
}

func levelString(level LogLevel) string {
	switch level {
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARN"
	default:
		return "INFO"
	}
}

func (e *ErrorConsole) countByLevel(level LogLevel) int {
	count := 0
	for _, entry := range e.entries {
		if entry.level == level {
			count++
		}
	}
	return count
}
