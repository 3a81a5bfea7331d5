package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-scripts/pdfcats/internal/types"
)

// RunStats holds the counters shown by the StatsPanel
type RunStats struct {
	TotalYears     int
	ProcessedYears int
	Category       string
	Page           string
	YearPages      int
	Pages          int
	Changed        int
	Saved          int
	SaveErrors     int
	StartTime      time.Time
	FinishTime     time.Time
}

// StatsPanel displays run statistics and the overall progress bar
type StatsPanel struct {
	stats      RunStats
	bar        progress.Model
	width      int
	height     int
	style      lipgloss.Style
	labelStyle lipgloss.Style
	valueStyle lipgloss.Style
}

// NewStatsPanel creates a StatsPanel over totalYears years
func NewStatsPanel(totalYears int) *StatsPanel {
	return &StatsPanel{
		stats: RunStats{
			TotalYears: totalYears,
			StartTime:  time.Now(),
		},
		bar:   progress.New(progress.WithDefaultGradient()),
		style: borderStyle.BorderForeground(lipgloss.Color("99")),
		labelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Bold(true),
		valueStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")),
	}
}

// SetSize updates the panel dimensions
func (s *StatsPanel) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.bar.Width = max(width-4, 10)
}

// StartYear records the category now being processed
func (s *StatsPanel) StartYear(title string) {
	s.stats.Category = title
	s.stats.Page = ""
	s.stats.YearPages = 0
}

// Page records the page now being looked at
func (s *StatsPanel) Page(title string) {
	s.stats.Page = title
	s.stats.YearPages++
}

// AddResult counts the outcome of one page
func (s *StatsPanel) AddResult(r types.PageResult) {
	s.stats.Pages++
	if r.Changed {
		s.stats.Changed++
	}
	if r.Saved {
		s.stats.Saved++
	}
	if r.Error != "" {
		s.stats.SaveErrors++
	}
}

// FinishYear counts a year, processed or skipped
func (s *StatsPanel) FinishYear(skipped bool) {
	s.stats.ProcessedYears++
	if !skipped {
		s.stats.Page = ""
	}
}

// Finish stops the elapsed time clock
func (s *StatsPanel) Finish() {
	s.stats.FinishTime = time.Now()
	s.stats.Category = ""
	s.stats.Page = ""
}

// Stats returns a copy of the counters
func (s *StatsPanel) Stats() RunStats {
	return s.stats
}

// View renders the panel
func (s *StatsPanel) View() string {
	stats := []struct {
		label string
		value string
	}{
		{"Years", fmt.Sprintf("%d/%d", s.stats.ProcessedYears, s.stats.TotalYears)},
		{"Category", s.stats.Category},
		{"Page", s.stats.Page},
		{"Pages", fmt.Sprintf("%d (%d this year)", s.stats.Pages, s.stats.YearPages)},
		{"Changed", fmt.Sprintf("%d", s.stats.Changed)},
		{"Saved", fmt.Sprintf("%d", s.stats.Saved)},
		{"Save errors", fmt.Sprintf("%d", s.stats.SaveErrors)},
		{"Elapsed", s.formatElapsedTime()},
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("Run Statistics") + "\n")
	content.WriteString(s.bar.ViewAs(s.fraction()) + "\n\n")

	for _, stat := range stats {
		content.WriteString(fmt.Sprintf("%s %s\n",
			s.labelStyle.Render(fmt.Sprintf("%-12s", stat.label+":")),
			s.valueStyle.Render(stat.value),
		))
	}

	return s.style.Width(max(s.width-2, 0)).Height(max(s.height-2, 0)).Render(content.String())
}

// Summary is the counters on one line
func (s *StatsPanel) Summary() string {
	return fmt.Sprintf("Years %d/%d, pages %d, changed %d, saved %d, save errors %d, elapsed %s",
		s.stats.ProcessedYears, s.stats.TotalYears,
		s.stats.Pages, s.stats.Changed, s.stats.Saved, s.stats.SaveErrors,
		s.formatElapsedTime())
}

func (s *StatsPanel) fraction() float64 {
	if s.stats.TotalYears == 0 {
		return 0
	}
	return float64(s.stats.ProcessedYears) / float64(s.stats.TotalYears)
}

func (s *StatsPanel) formatElapsedTime() string {
	end := s.stats.FinishTime
	if end.IsZero() {
		end = time.Now()
	}
	elapsed := end.Sub(s.stats.StartTime)
	return fmt.Sprintf("%02d:%02d:%02d",
		int(elapsed.Hours()),
		int(elapsed.Minutes())%60,
		int(elapsed.Seconds())%60,
	)
}
