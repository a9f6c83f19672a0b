package model

import (
	"fmt"
	"strings"
)

// SpendMode selects what the spend-by-gender section measures.
type SpendMode string

const (
	// SpendTotal sums the total price per gender.
	SpendTotal SpendMode = "total"

	// SpendCount counts transactions per gender. The first version of the
	// report plotted this under a spending title; it is kept so old output
	// can be reproduced.
	SpendCount SpendMode = "count"
)

// ParseSpendMode accepts "total" or "count", ignoring case and surrounding
// whitespace. An empty string selects SpendTotal.
func ParseSpendMode(s string) (SpendMode, error) {
	switch SpendMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SpendTotal:
		return SpendTotal, nil
	case SpendCount:
		return SpendCount, nil
	default:
		return "", fmt.Errorf("unknown spend mode %q (want %q or %q)", s, SpendTotal, SpendCount)
	}
}

// String implements fmt.Stringer.
func (m SpendMode) String() string {
	return string(m)
}
