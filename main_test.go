package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/pdfcats/internal/progress"
	"github.com/go-scripts/pdfcats/pkg/common"
	"github.com/go-scripts/pdfcats/pkg/recat"
	"github.com/go-scripts/pdfcats/ui"
)

var (
	_ recat.Progress = (*progress.ProgressTracker)(nil)
	_ recat.Progress = (*ui.Dashboard)(nil)
)

func parseFlags(t *testing.T, args ...string) CLIFlags {
	t.Helper()

	var flags CLIFlags
	parser, err := kong.New(&flags, kong.Name("pdfcats"))
	require.NoError(t, err)
	_, err = parser.Parse(args)
	require.NoError(t, err)
	return flags
}

func TestFlagParsing(t *testing.T) {
	t.Setenv("PDFCATS_USERNAME", "")
	t.Setenv("PDFCATS_PASSWORD", "")

	flags := parseFlags(t, "-s", "1900", "-e", "1910", "--max-depth", "3", "-n", "--api-url", "https://test.wikipedia.org/w/api.php")

	assert.Equal(t, defaultConfigFile, flags.ConfigFile)
	assert.Equal(t, 1900, flags.StartYear)
	assert.Equal(t, 1910, flags.EndYear)
	assert.Equal(t, 3, flags.MaxDepth)
	assert.True(t, flags.DryRun)
	assert.False(t, flags.TUI)
	assert.Equal(t, "https://test.wikipedia.org/w/api.php", flags.APIURL)

	assert.True(t, parseFlags(t, "--tui").TUI)
}

func TestCredentialsFromEnvironment(t *testing.T) {
	t.Setenv("PDFCATS_USERNAME", "Example@pdfcats")
	t.Setenv("PDFCATS_PASSWORD", "secret")

	flags := parseFlags(t)

	assert.Equal(t, "Example@pdfcats", flags.Username)
	assert.Equal(t, "secret", flags.Password)
}

func TestApplyFlags(t *testing.T) {
	config := common.DefaultConfiguration()

	applyFlags(config, CLIFlags{
		MaxDepth:  -1,
		StartYear: 1900,
		EndYear:   1905,
		ReportDir: "out",
		DryRun:    true,
		Debug:     true,
	})

	assert.Equal(t, 1900, config.StartYear)
	assert.Equal(t, 1905, config.EndYear)
	assert.Equal(t, "out", config.ReportDir)
	assert.True(t, config.DryRun)
	assert.Equal(t, "debug", config.LogLevel)

	// Unset flags keep the configured values
	assert.Equal(t, common.DefaultAPIURL, config.APIURL)
	assert.Equal(t, common.DefaultMaxDepth, config.MaxDepth)
	assert.Empty(t, config.Username)
	assert.NoError(t, config.Validate())
}

func TestMaxDepthFlag(t *testing.T) {
	t.Setenv("PDFCATS_USERNAME", "")
	t.Setenv("PDFCATS_PASSWORD", "")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "unset keeps the configured depth", want: common.DefaultMaxDepth},
		{name: "zero disables the search", args: []string{"-d", "0"}, want: 0},
		{name: "explicit depth", args: []string{"--max-depth", "4"}, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := common.DefaultConfiguration()
			applyFlags(config, parseFlags(t, tt.args...))
			assert.Equal(t, tt.want, config.MaxDepth)
			assert.NoError(t, config.Validate())
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing default file", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(t.TempDir()))
		t.Cleanup(func() { _ = os.Chdir(wd) })

		config, err := loadConfig(defaultConfigFile)
		require.NoError(t, err)
		assert.Equal(t, common.DefaultConfiguration(), config)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "other.yaml"))
		assert.Error(t, err)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pdfcats.yaml")
		require.NoError(t, os.WriteFile(path, []byte("start_year: 1800\nend_year: 1801\n"), 0o644))

		config, err := loadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 1800, config.StartYear)
		assert.Equal(t, 1801, config.EndYear)
		assert.Equal(t, common.DefaultMaxDepth, config.MaxDepth)
	})
}
