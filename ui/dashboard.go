package ui

import (
	"bytes"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-scripts/pdfcats/internal/types"
)

// Dashboard runs the Layout as a tea program. It receives progress
// callbacks from the processor and log output from the logger, both from
// the processing goroutine, and forwards them to the program.
type Dashboard struct {
	program *tea.Program
	layout  *Layout

	mu  sync.Mutex
	buf []byte
}

// NewDashboard creates a dashboard for a run over totalYears years
func NewDashboard(totalYears int, opts ...tea.ProgramOption) *Dashboard {
	layout := NewLayout(totalYears)
	return &Dashboard{
		program: tea.NewProgram(layout, opts...),
		layout:  layout,
	}
}

// Run shows the dashboard until the user quits
func (d *Dashboard) Run() error {
	_, err := d.program.Run()
	return err
}

// Quit stops the program
func (d *Dashboard) Quit() {
	d.program.Quit()
}

// Done reports the end of the run; the dashboard stays up until the user
// quits
func (d *Dashboard) Done(err error) {
	d.program.Send(doneMsg{err: err})
}

// Summary is a one-line account of the run. Call it after Run returns.
func (d *Dashboard) Summary() string {
	return d.layout.Summary()
}

// StartYear indicates that a category is being processed
func (d *Dashboard) StartYear(title string) {
	d.program.Send(yearStartedMsg{title: title})
}

// Queue lists the file pages of the current year
func (d *Dashboard) Queue(pages []string) {
	d.program.Send(queueMsg{pages: append([]string(nil), pages...)})
}

// Page shows the page currently being looked at
func (d *Dashboard) Page(title string) {
	d.program.Send(pageMsg{title: title})
}

// Result records the outcome of a page
func (d *Dashboard) Result(result types.PageResult) {
	d.program.Send(resultMsg{result: result})
}

// FinishYear counts a processed year
func (d *Dashboard) FinishYear() {
	d.program.Send(yearFinishedMsg{})
}

// SkipYear counts a year that had nothing to process
func (d *Dashboard) SkipYear() {
	d.program.Send(yearFinishedMsg{skipped: true})
}

// Write implements io.Writer so a logger can write into the log console.
// Each complete line becomes one console entry.
func (d *Dashboard) Write(p []byte) (int, error) {
	d.mu.Lock()
	d.buf = append(d.buf, p...)
	var lines []string
	for {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, string(d.buf[:i]))
		d.buf = d.buf[i+1:]
	}
	d.mu.Unlock()

	for _, line := range lines {
		d.program.Send(logMsg{line: line})
	}
	return len(p), nil
}
