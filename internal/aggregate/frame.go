package aggregate

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/nao1215/storeeda/internal/dataset"
	"github.com/nao1215/storeeda/internal/model"
	"github.com/shopspring/decimal"
)

// countSuffix is appended by gota to counted column names.
const countSuffix = "_COUNT"

// frameOf returns a private copy of the record set's frame.
func frameOf(rs *dataset.RecordSet) (dataframe.DataFrame, error) {
	df := rs.Frame().Copy()
	if df.Err != nil {
		return df, fmt.Errorf("failed to build frame: %w", df.Err)
	}
	return df, nil
}

// completedOnly keeps orders whose status is Completed, ignoring case and
// surrounding whitespace.
func completedOnly(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	out := df.Filter(dataframe.F{
		Colname:    dataset.ColumnOrderStatus,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return strings.EqualFold(strings.TrimSpace(el.String()), dataset.StatusCompleted)
		},
	})
	if out.Err != nil {
		return out, fmt.Errorf("failed to filter completed orders: %w", out.Err)
	}
	return out, nil
}

// withoutEmpty drops rows whose key column is empty. A dataframe group-by
// would otherwise put every missing value into one unnamed group.
func withoutEmpty(df dataframe.DataFrame, col string) (dataframe.DataFrame, error) {
	out := df.Filter(dataframe.F{
		Colname:    col,
		Comparator: series.Neq,
		Comparando: "",
	})
	if out.Err != nil {
		return out, fmt.Errorf("failed to drop empty %s values: %w", col, out.Err)
	}
	return out, nil
}

// groupSums groups df by key and sums the value column exactly.
// The value column must hold decimal or integer text.
func groupSums(df dataframe.DataFrame, key, value string) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	if df.Nrow() == 0 {
		return sums, nil
	}

	groups := df.GroupBy(key)
	if groups.Err != nil {
		return nil, fmt.Errorf("failed to group by %s: %w", key, groups.Err)
	}
	for _, g := range groups.GetGroups() {
		k := g.Col(key).Elem(0).String()
		total, err := sumColumn(g, value)
		if err != nil {
			return nil, err
		}
		sums[k] = total
	}
	return sums, nil
}

// sumColumn adds up a column without going through float64.
func sumColumn(df dataframe.DataFrame, col string) (decimal.Decimal, error) {
	total := decimal.Zero
	for i, v := range df.Col(col).Records() {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to sum %s at row %d: %w", col, i+1, err)
		}
		total = total.Add(d)
	}
	return total, nil
}

// groupCounts groups df by key and counts the rows of each group.
func groupCounts(df dataframe.DataFrame, key string) (map[string]int, error) {
	counts := make(map[string]int)
	if df.Nrow() == 0 {
		return counts, nil
	}

	groups := df.GroupBy(key)
	if groups.Err != nil {
		return nil, fmt.Errorf("failed to group by %s: %w", key, groups.Err)
	}
	agg := groups.Aggregation([]dataframe.AggregationType{dataframe.Aggregation_COUNT}, []string{key})
	if agg.Err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", key, agg.Err)
	}

	keys := agg.Col(key).Records()
	values := agg.Col(key + countSuffix).Float()
	for i, k := range keys {
		counts[k] = int(values[i])
	}
	return counts, nil
}

// sumRows converts sums into rows ordered by key, rounding to cents.
func sumRows(sums map[string]decimal.Decimal) []model.AggregateRow {
	rows := make([]model.AggregateRow, 0, len(sums))
	for k, v := range sums {
		rows = append(rows, model.AggregateRow{Key: k, Label: k, Value: v.Round(2)})
	}
	slices.SortFunc(rows, func(a, b model.AggregateRow) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return rows
}

// countRows converts counts into rows ordered by count descending, then key.
func countRows(counts map[string]int) []model.AggregateRow {
	rows := make([]model.AggregateRow, 0, len(counts))
	for k, v := range counts {
		rows = append(rows, model.AggregateRow{Key: k, Label: k, Value: decimal.NewFromInt(int64(v))})
	}
	slices.SortFunc(rows, func(a, b model.AggregateRow) int {
		if c := b.Value.Cmp(a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return rows
}

// withPercent fills in each row's share of the total.
func withPercent(rows []model.AggregateRow) []model.AggregateRow {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Value)
	}
	for i := range rows {
		rows[i].Percent = model.Percent(rows[i].Value, total)
	}
	return rows
}
