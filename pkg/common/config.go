// Package common holds the configuration shared by the pdfcats commands.
package common

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults for a run over Wikimedia Commons
const (
	DefaultAPIURL            = "https://commons.wikimedia.org/w/api.php"
	DefaultStartYear         = 1518
	DefaultEndYear           = 2025
	DefaultMaxDepth          = 2
	DefaultReportDir         = "reports"
	DefaultRequestsPerSecond = 5
	DefaultTimeout           = 30 * time.Second
	DefaultLogLevel          = "info"
)

// Configuration holds all the settings for a run
type Configuration struct {
	APIURL            string        `yaml:"api_url" validate:"required,url"`
	Username          string        `yaml:"username"`
	Password          string        `yaml:"password" validate:"required_with=Username"`
	UserAgent         string        `yaml:"user_agent"`
	StartYear         int           `yaml:"start_year" validate:"gte=1"`
	EndYear           int           `yaml:"end_year" validate:"gtefield=StartYear"`
	MaxDepth          int           `yaml:"max_depth" validate:"gte=0"`
	DryRun            bool          `yaml:"dry_run"`
	ReportDir         string        `yaml:"report_dir"`
	RequestsPerSecond float64       `yaml:"requests_per_second" validate:"gte=0"`
	Timeout           time.Duration `yaml:"timeout" validate:"gt=0s"`
	LogLevel          string        `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// DefaultConfiguration returns the settings used when nothing overrides them
func DefaultConfiguration() *Configuration {
	return &Configuration{
		APIURL:            DefaultAPIURL,
		StartYear:         DefaultStartYear,
		EndYear:           DefaultEndYear,
		MaxDepth:          DefaultMaxDepth,
		ReportDir:         DefaultReportDir,
		RequestsPerSecond: DefaultRequestsPerSecond,
		Timeout:           DefaultTimeout,
		LogLevel:          DefaultLogLevel,
	}
}

// LoadConfiguration reads a YAML file over the defaults. Keys missing from
// the file keep their default; unknown keys are an error.
func LoadConfiguration(path string) (*Configuration, error) {
	config := DefaultConfiguration()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading configuration: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error parsing configuration %s: %w", path, err)
	}

	return config, nil
}

// Validate checks the configuration for values a run cannot work with
func (c *Configuration) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Years returns the number of years in the configured range
func (c *Configuration) Years() int {
	if c.EndYear < c.StartYear {
		return 0
	}
	return c.EndYear - c.StartYear + 1
}
