package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/nao1215/storeeda/internal/model"
)

// Default configuration values.
const (
	// DefaultDataset is the dataset read when no path is given.
	DefaultDataset = "Electronic_sales_Sep2023-Sep2024.csv"

	// DefaultChartFormat is the image format of chart artifacts.
	DefaultChartFormat = "png"

	// DefaultChartWidth and DefaultChartHeight are the chart size in pixels.
	DefaultChartWidth  = 1024
	DefaultChartHeight = 640

	// DefaultBatchSize is the number of datasets processed at once.
	DefaultBatchSize = 4

	// DefaultLogFormat selects the slog text handler.
	DefaultLogFormat = "text"

	// AppName is the application name used for XDG directory paths.
	AppName = "storeeda"
)

// Config holds all configuration options for one storeeda run.
// It is populated from CLI flags and the config file and passed through
// the application rather than kept in global state.
type Config struct {
	// DatasetPaths lists the CSV files to report on.
	DatasetPaths []string

	// ConfigFilePath is the path to the configuration file.
	// If empty, .storeeda is looked up in the current directory and then in
	// the user's home directory.
	ConfigFilePath string

	// File is the loaded configuration file, or nil.
	File *File

	// Verbose enables debug logging.
	Verbose bool

	// LogFormat is "text" or "json".
	LogFormat string

	// JSONReport, MarkdownReport, HTMLReport and TerminalReport select the
	// report format. At most one may be set; none selects plain text.
	JSONReport     bool
	MarkdownReport bool
	HTMLReport     bool
	TerminalReport bool

	// ReportFile is the output file path for the report.
	// When empty, the report is written to stdout.
	ReportFile string

	// ChartDir is where chart images are written. Empty disables them.
	ChartDir string

	// ChartFormat is "png" or "svg".
	ChartFormat string

	// ChartWidth and ChartHeight are the chart size in pixels.
	ChartWidth  int
	ChartHeight int

	// SpendMode is what the spend-by-gender section measures.
	SpendMode string

	// BatchSize is the number of datasets processed concurrently.
	BatchSize int

	// DBDir is the directory of the run history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB records every run in the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		LogFormat:   DefaultLogFormat,
		ChartFormat: DefaultChartFormat,
		ChartWidth:  DefaultChartWidth,
		ChartHeight: DefaultChartHeight,
		SpendMode:   string(model.SpendTotal),
		BatchSize:   DefaultBatchSize,
		DBDir:       XDGDataDir(),
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for storeeda.
// On Linux: ~/.local/share/storeeda
// On macOS: ~/Library/Application Support/storeeda
// On Windows: %LOCALAPPDATA%\storeeda
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for storeeda.
// On Linux: ~/.config/storeeda
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for storeeda.
// On Linux: ~/.cache/storeeda
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// ApplyFile copies settings from the config file into c. Settings whose
// flag was given explicitly, as reported by explicit, are left alone. A nil
// explicit treats every flag as unset.
//
// The flag names consulted are "charts", "chart-format", "chart-width",
// "chart-height" and "spend-mode". The dataset is taken from the file only
// when no dataset path was given.
func (c *Config) ApplyFile(f *File, explicit func(flag string) bool) {
	c.File = f
	if f == nil {
		return
	}
	if explicit == nil {
		explicit = func(string) bool { return false }
	}

	if len(c.DatasetPaths) == 0 && f.Dataset != "" {
		c.DatasetPaths = []string{f.Dataset}
	}
	if f.Charts.Dir != "" && !explicit("charts") {
		c.ChartDir = f.Charts.Dir
	}
	if f.Charts.Format != "" && !explicit("chart-format") {
		c.ChartFormat = f.Charts.Format
	}
	if f.Charts.Width != 0 && !explicit("chart-width") {
		c.ChartWidth = f.Charts.Width
	}
	if f.Charts.Height != 0 && !explicit("chart-height") {
		c.ChartHeight = f.Charts.Height
	}
	if f.Report.SpendByGender != "" && !explicit("spend-mode") {
		c.SpendMode = f.Report.SpendByGender
	}
}

// Datasets returns the configured dataset paths, or the default dataset
// when none is configured.
func (c *Config) Datasets() []string {
	if len(c.DatasetPaths) == 0 {
		return []string{DefaultDataset}
	}
	return c.DatasetPaths
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	for _, p := range c.Datasets() {
		if strings.TrimSpace(p) == "" {
			return ErrNoDataset
		}
	}

	formats := 0
	for _, on := range []bool{c.JSONReport, c.MarkdownReport, c.HTMLReport, c.TerminalReport} {
		if on {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	if _, err := model.ParseSpendMode(c.SpendMode); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSpendMode, c.SpendMode)
	}

	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		return ErrInvalidChartSize
	}

	switch strings.ToLower(strings.TrimSpace(c.ChartFormat)) {
	case "png", "svg":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidChartFormat, c.ChartFormat)
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.LogFormat)
	}

	return nil
}

// Spend returns the parsed spend mode. Call Validate first.
func (c *Config) Spend() model.SpendMode {
	m, err := model.ParseSpendMode(c.SpendMode)
	if err != nil {
		return model.SpendTotal
	}
	return m
}
