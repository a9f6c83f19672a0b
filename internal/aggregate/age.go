package aggregate

import (
	"fmt"

	"github.com/go-gota/gota/series"
	"github.com/nao1215/storeeda/internal/dataset"
	"github.com/nao1215/storeeda/internal/model"
	"github.com/shopspring/decimal"
)

// AgeBucket is a closed age interval [Min, Max].
type AgeBucket struct {
	Label string
	Min   int
	Max   int
}

// AgeBuckets are the customer age groups in report order.
var AgeBuckets = []AgeBucket{
	{Label: "18-30", Min: 18, Max: 30},
	{Label: "31-40", Min: 31, Max: 40},
	{Label: "41-50", Min: 41, Max: 50},
	{Label: "51-60", Min: 51, Max: 60},
	{Label: "61-70", Min: 61, Max: 70},
	{Label: "71-80", Min: 71, Max: 80},
}

// BucketFor returns the label of the bucket containing age, or "" when the
// age is outside every bucket.
func BucketFor(age int) string {
	for _, b := range AgeBuckets {
		if age >= b.Min && age <= b.Max {
			return b.Label
		}
	}
	return ""
}

// ageGroupColumn is the derived bucket column added to the step's frame copy.
const ageGroupColumn = "Age Group"

// AgeQuantityResult is the quantity bought per age bucket.
type AgeQuantityResult struct {
	// Rows has one row per bucket, in bucket order, including empty buckets.
	Rows []model.AggregateRow

	// Dropped is the quantity bought by customers outside every bucket.
	Dropped decimal.Decimal
}

// AgeQuantity sums the quantity purchased per age bucket.
func AgeQuantity(rs *dataset.RecordSet) (AgeQuantityResult, error) {
	result := AgeQuantityResult{Dropped: decimal.Zero}
	if rs.Len() == 0 {
		return result, nil
	}

	df, err := frameOf(rs)
	if err != nil {
		return result, err
	}

	ages, err := df.Col(dataset.ColumnAge).Int()
	if err != nil {
		return result, fmt.Errorf("failed to read ages: %w", err)
	}
	buckets := make([]string, len(ages))
	for i, age := range ages {
		buckets[i] = BucketFor(age)
	}
	df = df.Mutate(series.New(buckets, series.String, ageGroupColumn))
	if df.Err != nil {
		return result, fmt.Errorf("failed to add age groups: %w", df.Err)
	}

	sums, err := groupSums(df, ageGroupColumn, dataset.ColumnQuantity)
	if err != nil {
		return result, err
	}
	if dropped, ok := sums[""]; ok {
		result.Dropped = dropped
	}

	result.Rows = make([]model.AggregateRow, 0, len(AgeBuckets))
	for _, b := range AgeBuckets {
		v, ok := sums[b.Label]
		if !ok {
			v = decimal.Zero
		}
		result.Rows = append(result.Rows, model.AggregateRow{Key: b.Label, Label: b.Label, Value: v})
	}
	return result, nil
}
