// =============================================================================
// Finance Reports - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// SOURCES (later sources win):
//   1. Built-in defaults
//   2. config.yaml (optional; a missing file means "defaults only")
//   3. Environment variables, including a .env file loaded by the CLI
//
// ENVIRONMENT VARIABLES:
//   FINREPORT_API_KEY    currency API key (the plain "api_key" is also read)
//   FINREPORT_INPUT_FILE path of the bank statement
//   FINREPORT_LOG_LEVEL  debug, info, warn or error
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/finreport/internal/aggregate"
	"github.com/ginjaninja78/finreport/internal/csvparser"
	"github.com/ginjaninja78/finreport/internal/rates"
	"github.com/ginjaninja78/finreport/internal/sheets/google"
	"github.com/ginjaninja78/finreport/internal/transaction"
)

const (
	// DefaultPath is the configuration file read when --config is not given.
	DefaultPath = "config.yaml"

	// Source kinds.
	KindFile   = "file"
	KindSheets = "sheets"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the whole application configuration.
type Config struct {
	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// Input selects the bank statement.
	Input Input `yaml:"input"`

	// Sheets is used when Input.Kind is "sheets".
	Sheets google.Config `yaml:"sheets"`

	// Columns maps statement headers onto transaction fields.
	// Each field lists the accepted header names; matching ignores case.
	Columns transaction.Columns `yaml:"columns"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	Output Output `yaml:"output"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	Log Log `yaml:"log"`

	// =========================================================================
	// EXTERNAL SERVICES
	// =========================================================================

	Currency Currency `yaml:"currency"`
	Stocks   Stocks   `yaml:"stocks"`

	// =========================================================================
	// AGGREGATION SETTINGS
	// =========================================================================

	Aggregation Aggregation `yaml:"aggregation"`
}

// Input describes where transactions are read from.
type Input struct {
	// Kind is "file" (XLSX or CSV, chosen by extension) or "sheets".
	// Default: "file"
	Kind string `yaml:"kind"`

	// Path is the statement file.
	// Default: "data/operations.xlsx"
	Path string `yaml:"path"`

	// Sheet is the worksheet to read; empty means the first one.
	Sheet string `yaml:"sheet"`

	// CSV holds the settings for CSV exports.
	CSV csvparser.Settings `yaml:"csv"`
}

// Output names the report files.
type Output struct {
	// Dir is the directory receiving every report.
	// Default: "data"
	Dir string `yaml:"dir"`

	// Views, Reports and Services are file names inside Dir.
	Views    string `yaml:"views"`
	Reports  string `yaml:"reports"`
	Services string `yaml:"services"`

	// ArchiveDir receives a copy of each report before it is overwritten.
	// Empty disables archiving.
	ArchiveDir string `yaml:"archive_dir"`

	// ArchiveByDate files archived reports under YYYY/MM/DD subdirectories.
	ArchiveByDate bool `yaml:"archive_by_date"`
}

// Log configures the log file.
type Log struct {
	// File is truncated at the start of every run.
	// Default: "logs/finreport.log"
	File string `yaml:"file"`

	// Level is one of debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level"`
}

// Currency configures the exchange rate lookup.
type Currency struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Target  string        `yaml:"target"`
	Timeout time.Duration `yaml:"timeout"`

	// Codes are the currencies listed in the views report.
	// Default: [USD, EUR]
	Codes []string `yaml:"codes"`
}

// Stocks configures the stock price lookup.
type Stocks struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`

	// Symbols are the tickers listed in the views report.
	// Default: [AAPL, AMZN, GOOGL, MSFT, TSLA]
	Symbols []string `yaml:"symbols"`
}

// Aggregation tunes the report calculations.
type Aggregation struct {
	// TopN is the size of the top transactions list. Default: 5
	TopN int `yaml:"top_n"`

	// WindowDays is the length of the category report window. Default: 90
	WindowDays int `yaml:"window_days"`

	// PeriodMonths is the look-back of the category expense total. Default: 3
	PeriodMonths int `yaml:"period_months"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration from a YAML file, applies defaults and
// environment overrides, and validates the result.
//
// PARAMETERS:
//   - path: the configuration file; a missing file is not an error
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be parsed or the result is invalid.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)
	applyEnv(&cfg, os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Input.Kind == "" {
		cfg.Input.Kind = KindFile
	}
	if cfg.Input.Path == "" {
		cfg.Input.Path = "data/operations.xlsx"
	}
	if cfg.Input.CSV.Delimiter == "" {
		cfg.Input.CSV.Delimiter = ";"
	}
	if cfg.Input.CSV.Encoding == "" {
		cfg.Input.CSV.Encoding = "utf-8"
	}

	defaults := transaction.DefaultColumns()
	if len(cfg.Columns.Category) == 0 {
		cfg.Columns.Category = defaults.Category
	}
	if len(cfg.Columns.PaymentDate) == 0 {
		cfg.Columns.PaymentDate = defaults.PaymentDate
	}
	if len(cfg.Columns.Amount) == 0 {
		cfg.Columns.Amount = defaults.Amount
	}
	if len(cfg.Columns.CardNumber) == 0 {
		cfg.Columns.CardNumber = defaults.CardNumber
	}
	if len(cfg.Columns.Cashback) == 0 {
		cfg.Columns.Cashback = defaults.Cashback
	}
	if len(cfg.Columns.Description) == 0 {
		cfg.Columns.Description = defaults.Description
	}

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "data"
	}
	if cfg.Output.Views == "" {
		cfg.Output.Views = "operations_data.json"
	}
	if cfg.Output.Reports == "" {
		cfg.Output.Reports = "reports.json"
	}
	if cfg.Output.Services == "" {
		cfg.Output.Services = "services.json"
	}

	if cfg.Log.File == "" {
		cfg.Log.File = "logs/finreport.log"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.Currency.BaseURL == "" {
		cfg.Currency.BaseURL = rates.DefaultCurrencyBaseURL
	}
	if cfg.Currency.Target == "" {
		cfg.Currency.Target = rates.DefaultTargetCurrency
	}
	if cfg.Currency.Timeout == 0 {
		cfg.Currency.Timeout = rates.DefaultTimeout
	}
	if cfg.Currency.Codes == nil {
		cfg.Currency.Codes = []string{"USD", "EUR"}
	}

	if cfg.Stocks.BaseURL == "" {
		cfg.Stocks.BaseURL = rates.DefaultStockBaseURL
	}
	if cfg.Stocks.Timeout == 0 {
		cfg.Stocks.Timeout = rates.DefaultTimeout
	}
	if cfg.Stocks.Symbols == nil {
		cfg.Stocks.Symbols = []string{"AAPL", "AMZN", "GOOGL", "MSFT", "TSLA"}
	}

	if cfg.Aggregation.TopN == 0 {
		cfg.Aggregation.TopN = aggregate.DefaultTopN
	}
	if cfg.Aggregation.WindowDays == 0 {
		cfg.Aggregation.WindowDays = aggregate.DefaultWindowDays
	}
	if cfg.Aggregation.PeriodMonths == 0 {
		cfg.Aggregation.PeriodMonths = aggregate.DefaultPeriodMonths
	}
}

// applyEnv overrides settings from environment variables.
func applyEnv(cfg *Config, getenv func(string) string) {
	if v := firstNonEmpty(getenv("FINREPORT_API_KEY"), getenv("api_key")); v != "" {
		cfg.Currency.APIKey = v
	}
	if v := getenv("FINREPORT_INPUT_FILE"); v != "" {
		cfg.Input.Path = v
	}
	if v := getenv("FINREPORT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.Input.Kind {
	case KindFile:
		if strings.TrimSpace(c.Input.Path) == "" {
			problems = append(problems, "input.path is required")
		}
	case KindSheets:
		if strings.TrimSpace(c.Sheets.SpreadsheetID) == "" {
			problems = append(problems, "sheets.spreadsheet_id is required when input.kind is sheets")
		}
	default:
		problems = append(problems, fmt.Sprintf("input.kind must be %q or %q, got %q", KindFile, KindSheets, c.Input.Kind))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}

	if c.Currency.Timeout < 0 {
		problems = append(problems, "currency.timeout must not be negative")
	}
	if c.Stocks.Timeout < 0 {
		problems = append(problems, "stocks.timeout must not be negative")
	}
	if c.Aggregation.TopN < 0 {
		problems = append(problems, "aggregation.top_n must not be negative")
	}
	if c.Aggregation.WindowDays < 0 {
		problems = append(problems, "aggregation.window_days must not be negative")
	}
	if c.Aggregation.PeriodMonths < 0 {
		problems = append(problems, "aggregation.period_months must not be negative")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// StatementName is the file name quoted in user-facing messages.
func (c *Config) StatementName() string {
	if c.Input.Kind == KindSheets {
		return c.Sheets.SpreadsheetID
	}
	return filepath.Base(c.Input.Path)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
