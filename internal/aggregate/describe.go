package aggregate

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/nao1215/storeeda/internal/dataset"
	"github.com/nao1215/storeeda/internal/model"
)

// NumericColumns are the columns summarized by Describe.
var NumericColumns = []string{
	dataset.ColumnAge,
	dataset.ColumnRating,
	dataset.ColumnTotalPrice,
	dataset.ColumnUnitPrice,
	dataset.ColumnQuantity,
	dataset.ColumnAddOnTotal,
}

// describeLabelColumn is the name gota gives the statistic label column.
const describeLabelColumn = "column"

// Describe summarizes the record set: column types, null counts and
// descriptive statistics of the numeric columns.
func Describe(rs *dataset.RecordSet) (*model.Overview, error) {
	ov := &model.Overview{Records: rs.Len()}

	df, err := frameOf(rs)
	if err != nil {
		return nil, err
	}
	nulls := rs.NullCounts()
	for _, name := range dataset.RequiredColumns {
		col := df.Col(name)
		if col.Err != nil {
			return nil, fmt.Errorf("failed to read column %s: %w", name, col.Err)
		}
		typ := string(col.Type())
		if isMoney(name) {
			typ = "decimal"
		}
		ov.Columns = append(ov.Columns, model.ColumnSummary{
			Name:    name,
			Type:    typ,
			NonNull: rs.Len() - nulls[name],
			Null:    nulls[name],
		})
	}

	if rs.Len() == 0 {
		return ov, nil
	}

	numeric := make([]series.Series, 0, len(NumericColumns))
	for _, name := range NumericColumns {
		numeric = append(numeric, series.New(df.Col(name).Float(), series.Float, name))
	}
	desc := dataframe.New(numeric...).Describe()
	if desc.Err != nil {
		return nil, fmt.Errorf("failed to describe dataset: %w", desc.Err)
	}

	ov.Statistics = desc.Col(describeLabelColumn).Records()
	for _, name := range NumericColumns {
		ov.Describe = append(ov.Describe, model.ColumnStatistics{
			Column: name,
			Values: finite(desc.Col(name).Float()),
		})
	}
	return ov, nil
}

// finite replaces undefined statistics, such as the standard deviation of a
// single record, with zero.
func finite(values []float64) []float64 {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			values[i] = 0
		}
	}
	return values
}

func isMoney(col string) bool {
	switch col {
	case dataset.ColumnTotalPrice, dataset.ColumnUnitPrice, dataset.ColumnAddOnTotal:
		return true
	default:
		return false
	}
}
