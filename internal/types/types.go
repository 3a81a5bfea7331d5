package types

import "time"

// PageResult records what happened to one file page
type PageResult struct {
	Title           string `json:"title"`
	Action          string `json:"action"`
	DirectMatch     bool   `json:"direct_match"`
	TransitiveMatch bool   `json:"transitive_match"`
	Changed         bool   `json:"changed"`
	Saved           bool   `json:"saved"`
	Error           string `json:"error,omitempty"`
}

// YearReport is the outcome of processing one year's PDF category
type YearReport struct {
	RunID      string       `json:"run_id"`
	Year       int          `json:"year"`
	Category   string       `json:"category"`
	Target     string       `json:"target"`
	DryRun     bool         `json:"dry_run"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Pages      []PageResult `json:"pages"`
	Skipped    int          `json:"skipped"`
	SaveErrors int          `json:"save_errors"`
}

// Saved counts pages that were written back
func (r *YearReport) Saved() int {
	n := 0
	for _, p := range r.Pages {
		if p.Saved {
			n++
		}
	}
	return n
}

// RunSummary totals a whole run over the year range
type RunSummary struct {
	RunID      string    `json:"run_id"`
	StartYear  int       `json:"start_year"`
	EndYear    int       `json:"end_year"`
	DryRun     bool      `json:"dry_run"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Years      int       `json:"years"`
	Pages      int       `json:"pages"`
	Saved      int       `json:"saved"`
	SaveErrors int       `json:"save_errors"`
}

// Add folds a year report into the summary
func (s *RunSummary) Add(r *YearReport) {
	s.Years++
	s.Pages += len(r.Pages)
	s.Saved += r.Saved()
	s.SaveErrors += r.SaveErrors
}
