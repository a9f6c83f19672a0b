package aggregate

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/series"
	"github.com/nao1215/storeeda/internal/dataset"
	"github.com/nao1215/storeeda/internal/model"
)

const (
	monthColumn   = "Month"
	monthKeyFmt   = "2006-01"
	monthLabelFmt = "January 2006"
)

// MonthKey returns the year-month bucket of t, e.g. "2024-03".
func MonthKey(t time.Time) string {
	return t.Format(monthKeyFmt)
}

// MonthLabel turns a month key into its display form, e.g. "March 2024".
func MonthLabel(key string) (string, error) {
	t, err := time.Parse(monthKeyFmt, key)
	if err != nil {
		return "", fmt.Errorf("failed to parse month %q: %w", key, err)
	}
	return t.Format(monthLabelFmt), nil
}

// MonthlyRevenue sums the total price per calendar month. Rows are in
// chronological order.
func MonthlyRevenue(rs *dataset.RecordSet) ([]model.AggregateRow, error) {
	if rs.Len() == 0 {
		return []model.AggregateRow{}, nil
	}

	df, err := frameOf(rs)
	if err != nil {
		return nil, err
	}

	dates := df.Col(dataset.ColumnPurchaseDate).Records()
	months := make([]string, len(dates))
	for i, d := range dates {
		t, err := time.Parse(time.DateOnly, d)
		if err != nil {
			return nil, fmt.Errorf("failed to parse purchase date %q: %w", d, err)
		}
		months[i] = MonthKey(t)
	}
	df = df.Mutate(series.New(months, series.String, monthColumn))
	if df.Err != nil {
		return nil, fmt.Errorf("failed to add months: %w", df.Err)
	}

	sums, err := groupSums(df, monthColumn, dataset.ColumnTotalPrice)
	if err != nil {
		return nil, err
	}

	// Keys sort lexically in calendar order.
	rows := sumRows(sums)
	for i := range rows {
		label, err := MonthLabel(rows[i].Key)
		if err != nil {
			return nil, err
		}
		rows[i].Label = label
	}
	return rows, nil
}
