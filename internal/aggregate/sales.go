package aggregate

import (
	"slices"

	"github.com/nao1215/storeeda/internal/dataset"
	"github.com/nao1215/storeeda/internal/model"
)

// SalesByProductType sums the total price of completed orders per product
// type.
func SalesByProductType(rs *dataset.RecordSet) ([]model.AggregateRow, error) {
	return completedSales(rs, dataset.ColumnProductType)
}

// SalesByShippingType sums the total price of completed orders per shipping
// type. An empty result means there were no completed orders; callers skip
// the chart in that case.
func SalesByShippingType(rs *dataset.RecordSet) ([]model.AggregateRow, error) {
	return completedSales(rs, dataset.ColumnShippingType)
}

func completedSales(rs *dataset.RecordSet, key string) ([]model.AggregateRow, error) {
	if rs.Len() == 0 {
		return []model.AggregateRow{}, nil
	}

	df, err := frameOf(rs)
	if err != nil {
		return nil, err
	}
	if df, err = completedOnly(df); err != nil {
		return nil, err
	}
	if df, err = withoutEmpty(df, key); err != nil {
		return nil, err
	}

	sums, err := groupSums(df, key, dataset.ColumnTotalPrice)
	if err != nil {
		return nil, err
	}
	return sumRows(sums), nil
}

// ClosePolygon returns rows with the first row appended again, so that a
// radar outline ends where it started. Empty input yields an empty slice.
func ClosePolygon(rows []model.AggregateRow) []model.AggregateRow {
	if len(rows) == 0 {
		return []model.AggregateRow{}
	}
	out := slices.Clone(rows)
	return append(out, rows[0])
}
