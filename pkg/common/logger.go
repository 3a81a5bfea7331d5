package common

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// NewLogger creates the logger shared by a run. Level is one of debug,
// info, warn or error.
func NewLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "pdfcats",
		Level:           lvl,
	})

	styles := log.DefaultStyles()
	styles.Keys["action"] = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	styles.Values["action"] = lipgloss.NewStyle().Bold(true)
	styles.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styles.Values["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	logger.SetStyles(styles)

	return logger, nil
}
