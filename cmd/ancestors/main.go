// Command ancestors reports whether a category reaches a target category
// through its non-hidden parents, printing every parent it visits.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/go-scripts/pdfcats/internal/mediawiki"
	"github.com/go-scripts/pdfcats/pkg/category"
	"github.com/go-scripts/pdfcats/pkg/common"
)

// CLIFlags are the command line arguments of the ancestors command
type CLIFlags struct {
	Category string `arg:"" help:"Category to start from"`
	Target   string `arg:"" help:"Text the ancestor title must contain"`
	Depth    int    `help:"Maximum number of parent hops" default:"2" short:"d"`
	APIURL   string `help:"MediaWiki api.php endpoint" name:"api-url" default:"https://commons.wikimedia.org/w/api.php"`
	LogLevel string `help:"Log level" default:"warn" enum:"debug,info,warn,error"`
}

func main() {
	var flags CLIFlags
	kong.Parse(&flags,
		kong.Name("ancestors"),
		kong.Description("Walk the parent categories of a category."),
		kong.UsageOnError(),
	)

	logger, err := common.NewLogger(os.Stderr, flags.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	client, err := mediawiki.New(mediawiki.Config{
		APIURL:            flags.APIURL,
		RequestsPerSecond: common.DefaultRequestsPerSecond,
		Timeout:           common.DefaultTimeout,
		Logger:            logger,
	})
	if err != nil {
		logger.Fatal("Failed to create client", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := category.NewCategory(flags.Category)
	found, err := category.HasAncestor(ctx, client, start, flags.Target,
		category.WithMaxDepth(flags.Depth),
		category.WithOnVisit(func(parent category.Category, depth int) {
			hidden := ""
			if parent.Hidden {
				hidden = " (hidden)"
			}
			fmt.Printf("%s%s%s\n", strings.Repeat("  ", depth+1), parent.Title, hidden)
		}))
	if err != nil {
		stop()
		logger.Fatal("Search failed", "err", err)
	}

	if found {
		fmt.Printf("%s reaches %q within %d hops\n", start.Title, flags.Target, flags.Depth)
		return
	}
	fmt.Printf("%s does not reach %q within %d hops\n", start.Title, flags.Target, flags.Depth)
	stop()
	os.Exit(2)
}
