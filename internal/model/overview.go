package model

// Overview summarizes the loaded dataset before any aggregation.
type Overview struct {
	// Records is the number of transactions.
	Records int `json:"records"`

	// Columns describes each column in file order.
	Columns []ColumnSummary `json:"columns"`

	// Statistics names the rows of Describe, e.g. "mean" or "25%".
	Statistics []string `json:"statistics"`

	// Describe holds descriptive statistics for the numeric columns.
	Describe []ColumnStatistics `json:"describe"`
}

// ColumnSummary is the type and null count of one column.
type ColumnSummary struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	NonNull int    `json:"non_null"`
	Null    int    `json:"null"`
}

// ColumnStatistics holds one value per entry of Overview.Statistics.
type ColumnStatistics struct {
	Column string    `json:"column"`
	Values []float64 `json:"values"`
}
