package aggregate

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/nao1215/storeeda/internal/dataset"
	"github.com/nao1215/storeeda/internal/model"
	"golang.org/x/text/cases"
)

// GenderSplit counts transactions per gender, with each gender's share.
func GenderSplit(rs *dataset.RecordSet) ([]model.AggregateRow, error) {
	rows, err := countBy(rs, dataset.ColumnGender)
	if err != nil {
		return nil, err
	}
	return withPercent(rows), nil
}

// SpendByGender measures spending per gender. SpendTotal sums the total
// price and orders rows by gender; SpendCount counts transactions instead.
func SpendByGender(rs *dataset.RecordSet, mode model.SpendMode) ([]model.AggregateRow, error) {
	switch mode {
	case model.SpendCount:
		return countBy(rs, dataset.ColumnGender)
	case model.SpendTotal, "":
		return sumBy(rs, dataset.ColumnGender, dataset.ColumnTotalPrice)
	default:
		return nil, fmt.Errorf("unknown spend mode %q", mode)
	}
}

// OrderStatusSplit counts transactions per order status, with each status's
// share. Two statuses are expected but every status present is reported.
// Statuses are matched the way the Completed filter matches them, so
// "completed" and "Completed " share a row.
func OrderStatusSplit(rs *dataset.RecordSet) ([]model.AggregateRow, error) {
	rows, err := countFolded(rs, dataset.ColumnOrderStatus)
	if err != nil {
		return nil, err
	}
	return withPercent(rows), nil
}

// PaymentMethods counts transactions per payment method. Methods were
// lowercased at load time, so "PayPal" and "paypal" share a row.
func PaymentMethods(rs *dataset.RecordSet) ([]model.AggregateRow, error) {
	return countBy(rs, dataset.ColumnPaymentMethod)
}

func countBy(rs *dataset.RecordSet, key string) ([]model.AggregateRow, error) {
	if rs.Len() == 0 {
		return []model.AggregateRow{}, nil
	}
	df, err := frameOf(rs)
	if err != nil {
		return nil, err
	}
	if df, err = withoutEmpty(df, key); err != nil {
		return nil, err
	}
	counts, err := groupCounts(df, key)
	if err != nil {
		return nil, err
	}
	return countRows(counts), nil
}

func sumBy(rs *dataset.RecordSet, key, value string) ([]model.AggregateRow, error) {
	if rs.Len() == 0 {
		return []model.AggregateRow{}, nil
	}
	df, err := frameOf(rs)
	if err != nil {
		return nil, err
	}
	if df, err = withoutEmpty(df, key); err != nil {
		return nil, err
	}
	sums, err := groupSums(df, key, value)
	if err != nil {
		return nil, err
	}
	return sumRows(sums), nil
}

// countFolded counts rows per value of key, ignoring case and surrounding
// whitespace. Each row carries the first spelling seen.
func countFolded(rs *dataset.RecordSet, key string) ([]model.AggregateRow, error) {
	if rs.Len() == 0 {
		return []model.AggregateRow{}, nil
	}
	df, err := frameOf(rs)
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	values := df.Col(key).Records()
	keys := make([]string, 0, len(values))
	spelling := make(map[string]string)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		k := fold.String(v)
		if _, ok := spelling[k]; !ok {
			spelling[k] = v
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return []model.AggregateRow{}, nil
	}

	folded := dataframe.New(series.New(keys, series.String, key))
	if folded.Err != nil {
		return nil, fmt.Errorf("failed to build %s frame: %w", key, folded.Err)
	}
	counts, err := groupCounts(folded, key)
	if err != nil {
		return nil, err
	}

	labelled := make(map[string]int, len(counts))
	for k, n := range counts {
		labelled[spelling[k]] = n
	}
	return countRows(labelled), nil
}
