package chart

import "errors"

var (
	// ErrNoData is returned for skipped sections and sections without rows.
	ErrNoData = errors.New("no data to plot")

	// ErrUnsupportedKind is returned for chart kinds that have no image,
	// such as tables.
	ErrUnsupportedKind = errors.New("unsupported chart kind")

	// ErrInvalidFormat is returned by ParseFormat for unknown formats.
	ErrInvalidFormat = errors.New("invalid chart format")
)
