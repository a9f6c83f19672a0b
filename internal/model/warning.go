package model

import "errors"

// ErrEmptyAggregate matches every EmptyAggregateWarning.
var ErrEmptyAggregate = errors.New("empty aggregate")

// EmptyAggregateWarning is reported when a step produced no categories.
// The step's section is kept but marked as skipped; the run continues.
type EmptyAggregateWarning struct {
	// Step is the name of the step that produced nothing.
	Step string `json:"step"`

	// Message explains what was empty.
	Message string `json:"message"`
}

// Error implements the error interface.
func (w EmptyAggregateWarning) Error() string {
	return w.Step + ": " + w.Message
}

// Is lets errors.Is(w, ErrEmptyAggregate) succeed.
func (w EmptyAggregateWarning) Is(target error) bool {
	return target == ErrEmptyAggregate
}
