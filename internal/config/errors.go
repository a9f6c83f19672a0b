package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and LoadConfigFile and
// can be matched with errors.Is.
var (
	// ErrNoDataset is returned when no dataset path is configured.
	ErrNoDataset = errors.New("no dataset specified: pass a CSV path or set dataset in the config file")

	// ErrConflictingReportFormats is returned when more than one of --json,
	// --markdown, --html and --terminal is given.
	ErrConflictingReportFormats = errors.New("conflicting report formats: choose one of --json, --markdown, --html or --terminal")

	// ErrInvalidSpendMode is returned for a spend mode other than total or count.
	ErrInvalidSpendMode = errors.New("invalid spend mode: must be total or count")

	// ErrInvalidChartSize is returned when a chart dimension is not positive.
	ErrInvalidChartSize = errors.New("invalid chart size: width and height must be positive")

	// ErrInvalidChartFormat is returned for a chart format other than png or svg.
	ErrInvalidChartFormat = errors.New("invalid chart format: must be png or svg")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidLogFormat is returned for a log format other than text or json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrUnknownSection is returned when the configuration file names a
	// section that the report does not have.
	ErrUnknownSection = errors.New("unknown report section")
)
