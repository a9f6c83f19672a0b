package model

import "github.com/shopspring/decimal"

// Step names. They identify sections in the report, in the config file and
// in the run history.
const (
	StepOverview       = "overview"
	StepAgeQuantity    = "age-quantity"
	StepMonthlyRevenue = "monthly-revenue"
	StepProductSales   = "product-sales"
	StepShippingSales  = "shipping-sales"
	StepAddOns         = "add-ons"
	StepRatings        = "ratings"
	StepGenderSplit    = "gender-split"
	StepGenderSpend    = "gender-spend"
	StepOrderStatus    = "order-status"
	StepPaymentMethods = "payment-methods"
)

// Steps lists every step name in report order.
var Steps = []string{
	StepOverview,
	StepAgeQuantity,
	StepMonthlyRevenue,
	StepProductSales,
	StepShippingSales,
	StepAddOns,
	StepRatings,
	StepGenderSplit,
	StepGenderSpend,
	StepOrderStatus,
	StepPaymentMethods,
}

// AggregateRow is one (category, value) pair of a grouped result.
type AggregateRow struct {
	// Key is the grouping key, e.g. "2024-03" or "smartphone".
	Key string `json:"key"`

	// Label is the display form of Key, e.g. "March 2024".
	Label string `json:"label"`

	// Value is the summed or counted measure.
	Value decimal.Decimal `json:"value"`

	// Percent is the share of the total, rounded to one decimal place.
	// Only share steps set it.
	Percent decimal.Decimal `json:"percent,omitzero"`
}

// TermFrequency is how often one add-on term was purchased.
type TermFrequency struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Summary holds five-number statistics plus the mean.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// DensityPoint is one sample of an estimated density curve.
type DensityPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distribution is the full set of values observed for one category.
type Distribution struct {
	Key     string         `json:"key"`
	Values  []float64      `json:"values"`
	Summary Summary        `json:"summary"`
	Density []DensityPoint `json:"density,omitempty"`
}

// Section is one block of the report: a heading, an intro, one chart and a
// caption.
type Section struct {
	// Step is the name of the step that produced the section.
	Step string `json:"step"`

	Heading string `json:"heading"`
	Intro   string `json:"intro,omitempty"`
	Caption string `json:"caption,omitempty"`

	// Chart selects how the data is drawn.
	Chart ChartKind `json:"chart"`

	ChartTitle string `json:"chart_title,omitempty"`
	XLabel     string `json:"x_label,omitempty"`
	YLabel     string `json:"y_label,omitempty"`

	// Colors optionally fixes the series colours, as hex strings.
	Colors []string `json:"colors,omitempty"`

	// Rows holds grouped values for bar, line, radar and pie charts.
	Rows []AggregateRow `json:"rows,omitempty"`

	// Polygon is Rows with the first row repeated at the end. Only radar
	// sections set it.
	Polygon []AggregateRow `json:"polygon,omitempty"`

	// Terms holds add-on frequencies for word-frequency charts.
	Terms []TermFrequency `json:"terms,omitempty"`

	// Distributions holds per-category values for violin charts.
	Distributions []Distribution `json:"distributions,omitempty"`

	// Dropped is the measure that fell outside every bucket.
	Dropped decimal.Decimal `json:"dropped,omitzero"`

	// Skipped is true when the step had nothing to plot.
	Skipped bool `json:"skipped,omitempty"`

	// Note is a short remark shown instead of the chart when Skipped is set.
	Note string `json:"note,omitempty"`

	// Artifacts are the chart files written for this section, relative to
	// the chart directory.
	Artifacts []string `json:"artifacts,omitempty"`
}

// HasData reports whether the section has anything to draw.
func (s *Section) HasData() bool {
	if s.Skipped {
		return false
	}
	switch s.Chart {
	case ChartWordFrequency:
		return len(s.Terms) > 0
	case ChartViolin:
		return len(s.Distributions) > 0
	case ChartTable:
		return false
	default:
		return len(s.Rows) > 0
	}
}

// Total returns the sum of all row values.
func (s *Section) Total() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.Rows {
		total = total.Add(r.Value)
	}
	return total
}
