package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/bubbles/progress"

	"github.com/go-scripts/pdfcats/internal/types"
)

// ProgressTracker shows a spinner while a year is processed and an overall
// progress bar over the year range after each one
type ProgressTracker struct {
	overallProgress progress.Model
	spin            *spinner.Spinner
	out             io.Writer
	totalYears      int
	processedYears  int
	current         string
	yearPages       int
	yearDone        int
	yearChanged     int
	yearErrors      int
	mu              sync.Mutex
}

// New creates a new ProgressTracker writing to out
func New(out io.Writer, totalYears int) *ProgressTracker {
	return &ProgressTracker{
		overallProgress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		spin:            spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(out)),
		out:             out,
		totalYears:      totalYears,
	}
}

// StartYear indicates that a category is being processed
func (p *ProgressTracker) StartYear(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = title
	p.yearPages, p.yearDone, p.yearChanged, p.yearErrors = 0, 0, 0, 0
	p.spin.Lock()
	p.spin.Suffix = fmt.Sprintf(" %s", title)
	p.spin.Unlock()
	p.spin.Start()
}

// Queue sets the number of file pages in the current year
func (p *ProgressTracker) Queue(pages []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.yearPages = len(pages)
}

// Page shows the page currently being looked at
func (p *ProgressTracker) Page(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.yearDone++
	p.spin.Lock()
	p.spin.Suffix = fmt.Sprintf(" %s (%d/%d) → %s", p.current, p.yearDone, p.yearPages, title)
	p.spin.Unlock()
}

// Result counts the outcome of the page last shown
func (p *ProgressTracker) Result(result types.PageResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if result.Changed {
		p.yearChanged++
	}
	if result.Error != "" {
		p.yearErrors++
	}
}

// FinishYear stops the spinner and redraws the overall bar
func (p *ProgressTracker) FinishYear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.spin.Stop()
	p.processedYears++

	if p.totalYears > 0 {
		fmt.Fprintf(p.out, "\rYears: %s %d/%d  %s: %d pages, %d changed, %d save errors\n",
			p.overallProgress.ViewAs(p.fraction()),
			p.processedYears,
			p.totalYears,
			p.current,
			p.yearPages,
			p.yearChanged,
			p.yearErrors)
	}
	p.current = ""
}

// SkipYear counts a year that had nothing to process, without output
func (p *ProgressTracker) SkipYear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processedYears++
}

// GetProgress returns the processed share of the year range
func (p *ProgressTracker) GetProgress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fraction()
}

func (p *ProgressTracker) fraction() float64 {
	if p.totalYears == 0 {
		return 0
	}
	return float64(p.processedYears) / float64(p.totalYears)
}
