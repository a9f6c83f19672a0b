package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// Load failure causes. A LoadError always wraps exactly one of these, so
// callers can branch with errors.Is without parsing messages.
var (
	// ErrSourceMissing is returned when the dataset file does not exist.
	ErrSourceMissing = errors.New("dataset source not found")

	// ErrMalformed is returned for CSV syntax errors and for values that
	// cannot be converted to the column's type.
	ErrMalformed = errors.New("malformed dataset")

	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("required column missing")

	// ErrNoRecords is returned when the file holds no data rows.
	ErrNoRecords = errors.New("dataset has no records")
)

// LoadError describes why a dataset could not be loaded.
// Row is the 1-based data row (the header is not counted); it is zero when
// the failure is not tied to a row.
type LoadError struct {
	Path   string
	Row    int
	Column string
	Err    error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	var sb strings.Builder
	sb.WriteString("failed to load dataset")
	if e.Path != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Path)
	}
	if e.Row > 0 {
		sb.WriteString(fmt.Sprintf(": row %d", e.Row))
	}
	if e.Column != "" {
		sb.WriteString(fmt.Sprintf(": column %q", e.Column))
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}
