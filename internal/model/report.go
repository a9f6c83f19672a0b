package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report is the result of one pipeline run over one dataset.
// Sections appear in the order the steps ran.
type Report struct {
	// === Front matter ===

	Title       string   `json:"title"`
	Authors     []string `json:"authors,omitempty"`
	Description string   `json:"description,omitempty"`

	// === Dataset ===

	// Source is the dataset path.
	Source string `json:"source"`

	// Fingerprint is the blake2b digest of the dataset file, when known.
	Fingerprint string `json:"fingerprint,omitempty"`

	// RecordCount is the number of transactions loaded.
	RecordCount int `json:"record_count"`

	// GeneratedAt is when the run started.
	GeneratedAt time.Time `json:"generated_at"`

	// SpendMode is the measure used by the spend-by-gender section.
	SpendMode SpendMode `json:"spend_mode"`

	// Overview is set by the overview step.
	Overview *Overview `json:"overview,omitempty"`

	// === Body ===

	Sections []Section `json:"sections"`

	// Warnings lists steps that produced nothing to plot.
	Warnings []EmptyAggregateWarning `json:"warnings,omitempty"`

	// === Run status ===

	// PerformedSteps lists the steps that finished, in order.
	PerformedSteps []string `json:"performed_steps"`

	// Cancelled is true when the context was cancelled mid-run.
	Cancelled bool `json:"cancelled,omitempty"`

	// Error is the error that stopped the run. ErrorMessage carries its text
	// in JSON output.
	Error        error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`
}

// NewReport creates an empty report for the given dataset.
func NewReport(source string) *Report {
	return &Report{
		Source:         source,
		GeneratedAt:    time.Now(),
		SpendMode:      SpendTotal,
		Sections:       make([]Section, 0, len(Steps)),
		PerformedSteps: make([]string, 0, len(Steps)),
	}
}

// AddSection appends a section.
func (r *Report) AddSection(s Section) {
	r.Sections = append(r.Sections, s)
}

// AddWarning records a warning. A second warning for the same step is
// ignored.
func (r *Report) AddWarning(w EmptyAggregateWarning) {
	for _, existing := range r.Warnings {
		if existing.Step == w.Step {
			return
		}
	}
	r.Warnings = append(r.Warnings, w)
}

// Section returns the section produced by step, or nil.
func (r *Report) Section(step string) *Section {
	for i := range r.Sections {
		if r.Sections[i].Step == step {
			return &r.Sections[i]
		}
	}
	return nil
}

// SetError records the error that stopped the run.
func (r *Report) SetError(err error) {
	r.Error = err
	if err != nil {
		r.ErrorMessage = err.Error()
	} else {
		r.ErrorMessage = ""
	}
}

// ChartSections returns the indexes of sections that have something to draw.
func (r *Report) ChartSections() []int {
	var idx []int
	for i := range r.Sections {
		if r.Sections[i].HasData() {
			idx = append(idx, i)
		}
	}
	return idx
}

// Artifacts returns every chart file written for the report.
func (r *Report) Artifacts() []string {
	var out []string
	for _, s := range r.Sections {
		out = append(out, s.Artifacts...)
	}
	return out
}

// Percent returns part as a percentage of total rounded to one decimal
// place. A zero total yields zero.
func Percent(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Mul(decimal.NewFromInt(100)).Div(total).Round(1)
}
