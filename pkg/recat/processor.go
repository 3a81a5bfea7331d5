package recat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/go-scripts/pdfcats/internal/mediawiki"
	"github.com/go-scripts/pdfcats/internal/types"
	"github.com/go-scripts/pdfcats/pkg/category"
)

// Wiki is everything the processor reads from and writes to the wiki
type Wiki interface {
	category.ParentSource
	CategoryExists(ctx context.Context, c category.Category) (bool, error)
	CategoryFiles(ctx context.Context, c category.Category) ([]mediawiki.Page, error)
	PageCategories(ctx context.Context, title string) ([]category.Category, error)
	PageText(ctx context.Context, title string) (mediawiki.Revision, error)
	SavePage(ctx context.Context, e mediawiki.Edit) error
}

// Progress is notified as years and pages go by. Queue lists the file
// pages of the year about to be processed; Result follows each Page.
type Progress interface {
	StartYear(title string)
	Queue(pages []string)
	Page(title string)
	Result(result types.PageResult)
	FinishYear()
	SkipYear()
}

// Reporter stores the outcome of a run
type Reporter interface {
	WriteYearReport(report *types.YearReport) error
	WriteSummary(summary *types.RunSummary) error
}

// Config holds the processor settings. Logger, Progress and Reports are
// optional.
type Config struct {
	StartYear int
	EndYear   int
	MaxDepth  int
	DryRun    bool

	Logger   *log.Logger
	Progress Progress
	Reports  Reporter
}

// Processor runs the recategorisation one year at a time, one page at a
// time
type Processor struct {
	wiki     Wiki
	config   Config
	logger   *log.Logger
	progress Progress
	reports  Reporter
}

// NewProcessor creates a new Processor
func NewProcessor(wiki Wiki, config Config) (*Processor, error) {
	if wiki == nil {
		return nil, errors.New("recat: wiki client is required")
	}
	if config.EndYear < config.StartYear {
		return nil, fmt.Errorf("recat: end year %d is before start year %d", config.EndYear, config.StartYear)
	}

	p := &Processor{
		wiki:     wiki,
		config:   config,
		logger:   config.Logger,
		progress: config.Progress,
		reports:  config.Reports,
	}
	if p.logger == nil {
		p.logger = log.Default()
	}
	if p.progress == nil {
		p.progress = noProgress{}
	}

	return p, nil
}

// Run processes every year of the configured range in order. It stops at
// the first error that is not a refused save.
func (p *Processor) Run(ctx context.Context) (*types.RunSummary, error) {
	summary := &types.RunSummary{
		StartYear: p.config.StartYear,
		EndYear:   p.config.EndYear,
		DryRun:    p.config.DryRun,
		StartedAt: time.Now(),
	}

	for year := p.config.StartYear; year <= p.config.EndYear; year++ {
		report, err := p.ProcessYear(ctx, year)
		if err != nil {
			return summary, fmt.Errorf("year %d: %w", year, err)
		}
		if report != nil {
			summary.Add(report)
		}
	}

	summary.FinishedAt = time.Now()
	if p.reports != nil {
		if err := p.reports.WriteSummary(summary); err != nil {
			return summary, err
		}
	}

	p.logger.Info("Run finished",
		"years", summary.Years,
		"pages", summary.Pages,
		"saved", summary.Saved,
		"save_errors", summary.SaveErrors,
		"dry_run", summary.DryRun)

	return summary, nil
}

// ProcessYear handles the PDF category of one year. It returns a nil
// report, after a single existence check, when the category does not
// exist.
func (p *Processor) ProcessYear(ctx context.Context, year int) (*types.YearReport, error) {
	pdfCat := PDFCategory(year)
	booksCat := BooksCategory(year)

	exists, err := p.wiki.CategoryExists(ctx, pdfCat)
	if err != nil {
		return nil, err
	}
	if !exists {
		p.progress.SkipYear()
		return nil, nil
	}

	p.logger.Info(fmt.Sprintf("Processing %s ...", pdfCat.Title))
	p.progress.StartYear(pdfCat.Title)
	defer p.progress.FinishYear()

	report := &types.YearReport{
		Year:      year,
		Category:  pdfCat.Title,
		Target:    booksCat.Title,
		DryRun:    p.config.DryRun,
		StartedAt: time.Now(),
		Pages:     make([]types.PageResult, 0),
	}

	pages, err := p.wiki.CategoryFiles(ctx, pdfCat)
	if err != nil {
		return report, err
	}

	files := make([]string, 0, len(pages))
	for _, page := range pages {
		if !page.IsFile() {
			report.Skipped++
			continue
		}
		files = append(files, page.Title)
	}
	p.progress.Queue(files)

	for _, title := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		p.progress.Page(title)
		result, err := p.processPage(ctx, year, title, pdfCat, booksCat)
		if err != nil {
			return report, err
		}
		if result.Error != "" {
			report.SaveErrors++
		}
		report.Pages = append(report.Pages, result)
		p.progress.Result(result)
	}

	report.FinishedAt = time.Now()
	if p.reports != nil {
		if err := p.reports.WriteYearReport(report); err != nil {
			return report, err
		}
	}

	return report, nil
}

func (p *Processor) processPage(ctx context.Context, year int, title string, pdfCat, booksCat category.Category) (types.PageResult, error) {
	result := types.PageResult{Title: title, Action: ActionNone.String()}

	rev, err := p.wiki.PageText(ctx, title)
	if err != nil {
		return result, err
	}

	cats, err := p.wiki.PageCategories(ctx, title)
	if err != nil {
		return result, err
	}

	d, err := Decide(ctx, p.wiki, cats, pdfCat, booksCat, p.config.MaxDepth,
		category.WithOnVisit(func(parent category.Category, depth int) {
			p.logger.Debug("Ancestor check", "page", title, "parent", parent.Title, "depth", depth, "hidden", parent.Hidden)
		}))
	if err != nil {
		return result, fmt.Errorf("ancestor search for %q: %w", title, err)
	}

	result.DirectMatch = d.DirectMatch
	result.TransitiveMatch = d.TransitiveMatch
	p.logger.Info("Checked file", "page", title, "direct", d.DirectMatch, "transitive", d.TransitiveMatch)

	newText := d.Apply(rev.Text)
	if newText == rev.Text {
		return result, nil
	}
	result.Action = d.Action.String()
	result.Changed = true

	if p.config.DryRun {
		p.logger.Info("Dry run, not saving", "page", title, "action", result.Action)
		return result, nil
	}

	err = p.wiki.SavePage(ctx, mediawiki.EditFromRevision(rev, newText, EditSummary(year)))
	if err != nil {
		if mediawiki.IsSaveError(err) {
			p.logger.Error("Could not save", "page", title, "year", year, "err", err)
			result.Error = err.Error()
			return result, nil
		}
		return result, err
	}

	result.Saved = true
	p.logger.Info("Saved", "page", title, "action", result.Action)

	return result, nil
}

type noProgress struct{}

func (noProgress) StartYear(string)        {}
func (noProgress) Queue([]string)          {}
func (noProgress) Page(string)             {}
func (noProgress) Result(types.PageResult) {}
func (noProgress) FinishYear()             {}
func (noProgress) SkipYear()               {}
