package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/go-scripts/pdfcats/internal/mediawiki"
	"github.com/go-scripts/pdfcats/internal/progress"
	"github.com/go-scripts/pdfcats/internal/writer"
	"github.com/go-scripts/pdfcats/pkg/common"
	"github.com/go-scripts/pdfcats/pkg/recat"
	"github.com/go-scripts/pdfcats/ui"
)

const defaultConfigFile = "pdfcats.yaml"

// CLIFlags are the command line flags. Zero values, and a negative
// MaxDepth, leave the configuration file's setting alone.
type CLIFlags struct {
	ConfigFile string `help:"Path to configuration file" default:"pdfcats.yaml" short:"c" name:"config"`
	APIURL     string `help:"MediaWiki api.php endpoint" name:"api-url"`
	Username   string `help:"Bot password user name (User@botname)" env:"PDFCATS_USERNAME"`
	Password   string `help:"Bot password" env:"PDFCATS_PASSWORD"`
	UserAgent  string `help:"User-Agent sent to the wiki"`
	StartYear  int    `help:"First year to process" short:"s"`
	EndYear    int    `help:"Last year to process" short:"e"`
	MaxDepth   int    `help:"Parent hops searched for the books category, 0 disables the search" short:"d" default:"-1"`
	ReportDir  string `help:"Directory for JSON run reports" short:"o"`
	DryRun     bool   `help:"Decide and log but do not save" short:"n"`
	Debug      bool   `help:"Enable debug logging"`
	TUI        bool   `help:"Show a full-screen dashboard instead of log lines" name:"tui"`
}

// loadConfig reads the configuration file. A missing default file is not
// an error.
func loadConfig(path string) (*common.Configuration, error) {
	config, err := common.LoadConfiguration(path)
	if err != nil {
		if path == defaultConfigFile && errors.Is(err, fs.ErrNotExist) {
			return common.DefaultConfiguration(), nil
		}
		return nil, err
	}
	return config, nil
}

// applyFlags overrides config with the flags that were set
func applyFlags(config *common.Configuration, flags CLIFlags) {
	if flags.APIURL != "" {
		config.APIURL = flags.APIURL
	}
	if flags.Username != "" {
		config.Username = flags.Username
	}
	if flags.Password != "" {
		config.Password = flags.Password
	}
	if flags.UserAgent != "" {
		config.UserAgent = flags.UserAgent
	}
	if flags.StartYear != 0 {
		config.StartYear = flags.StartYear
	}
	if flags.EndYear != 0 {
		config.EndYear = flags.EndYear
	}
	if flags.MaxDepth >= 0 {
		config.MaxDepth = flags.MaxDepth
	}
	if flags.ReportDir != "" {
		config.ReportDir = flags.ReportDir
	}
	if flags.DryRun {
		config.DryRun = true
	}
	if flags.Debug {
		config.LogLevel = "debug"
	}
}

// run connects to the wiki and processes the configured year range
func run(ctx context.Context, config *common.Configuration, logger *log.Logger, tracker recat.Progress) error {
	client, err := mediawiki.New(mediawiki.Config{
		APIURL:            config.APIURL,
		UserAgent:         config.UserAgent,
		Timeout:           config.Timeout,
		RequestsPerSecond: config.RequestsPerSecond,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	if config.Username != "" {
		if err := client.Login(ctx, config.Username, config.Password); err != nil {
			return err
		}
	} else if !config.DryRun {
		logger.Warn("No username configured, edits will be made logged out")
	}

	reports, err := writer.New(config.ReportDir)
	if err != nil {
		return err
	}

	processor, err := recat.NewProcessor(client, recat.Config{
		StartYear: config.StartYear,
		EndYear:   config.EndYear,
		MaxDepth:  config.MaxDepth,
		DryRun:    config.DryRun,
		Logger:    logger,
		Progress:  tracker,
		Reports:   reports,
	})
	if err != nil {
		return err
	}

	logger.Info("Starting run",
		"run", reports.RunID(),
		"api", config.APIURL,
		"years", fmt.Sprintf("%d-%d", config.StartYear, config.EndYear),
		"max_depth", config.MaxDepth,
		"dry_run", config.DryRun)

	if _, err := processor.Run(ctx); err != nil {
		return err
	}

	logger.Info("Reports written", "dir", reports.Dir())
	return nil
}

// runDashboard runs the processor behind the dashboard. Log lines go to
// the dashboard's console; quitting the dashboard cancels the run.
func runDashboard(ctx context.Context, config *common.Configuration) error {
	dash := ui.NewDashboard(config.Years(), tea.WithAltScreen(), tea.WithMouseCellMotion())

	logger, err := common.NewLogger(dash, config.LogLevel)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		err := run(ctx, config, logger, dash)
		dash.Done(err)
		errc <- err
	}()

	uiErr := dash.Run()
	cancel()
	err = <-errc

	fmt.Println(dash.Summary())
	if uiErr != nil {
		return uiErr
	}
	return err
}

func main() {
	var flags CLIFlags

	// Parse command line flags using kong
	kong.Parse(&flags,
		kong.Name("pdfcats"),
		kong.Description("Move files out of the per-year \"books PDF files\" categories."),
		kong.UsageOnError(),
	)

	// Load configuration from file
	config, err := loadConfig(flags.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Override config with command line flags if provided
	applyFlags(config, flags)
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := common.NewLogger(os.Stdout, config.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if flags.TUI {
		err = runDashboard(ctx, config)
	} else {
		err = run(ctx, config, logger, progress.New(os.Stderr, config.Years()))
	}
	if err != nil {
		logger.Error("Run failed", "err", err)
		stop()
		os.Exit(1)
	}
}
