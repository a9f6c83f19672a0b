package dataset

import (
	"maps"
	"slices"
	"sync"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// RecordSet is the loaded dataset. It is never modified after construction,
// so a single RecordSet may be shared by every pipeline step.
type RecordSet struct {
	source  string
	records []Transaction
	nulls   map[string]int

	frameOnce sync.Once
	frame     dataframe.DataFrame
}

// NewRecordSet builds a RecordSet from already typed transactions.
// The slice is copied.
func NewRecordSet(source string, records []Transaction) *RecordSet {
	rs := &RecordSet{
		source:  source,
		records: slices.Clone(records),
		nulls:   make(map[string]int, len(RequiredColumns)),
	}
	for _, name := range RequiredColumns {
		rs.nulls[name] = 0
	}
	for _, t := range rs.records {
		for col, v := range map[string]string{
			ColumnCustomerID:    t.CustomerID,
			ColumnGender:        t.Gender,
			ColumnLoyaltyNumber: t.LoyaltyNumber,
			ColumnProductType:   t.ProductType,
			ColumnSKU:           t.SKU,
			ColumnOrderStatus:   t.OrderStatus,
			ColumnPaymentMethod: t.PaymentMethod,
			ColumnShippingType:  t.ShippingType,
		} {
			if v == "" {
				rs.nulls[col]++
			}
		}
		if !t.HasAddOns {
			rs.nulls[ColumnAddOns]++
		}
	}
	return rs
}

// Len returns the number of transactions.
func (rs *RecordSet) Len() int {
	return len(rs.records)
}

// Source returns the path or label the records were read from.
func (rs *RecordSet) Source() string {
	return rs.source
}

// At returns the i-th transaction.
func (rs *RecordSet) At(i int) Transaction {
	return rs.records[i]
}

// Records returns a copy of all transactions.
func (rs *RecordSet) Records() []Transaction {
	return slices.Clone(rs.records)
}

// NullCounts returns the number of missing values per column.
func (rs *RecordSet) NullCounts() map[string]int {
	return maps.Clone(rs.nulls)
}

// Frame returns a dataframe view of the records. The frame is built on first
// use. Callers must Copy it before mutating.
//
// Money columns hold exact decimal strings so sums can be done without float
// rounding. Null categorical values are "" and null add-ons are NaN.
func (rs *RecordSet) Frame() dataframe.DataFrame {
	rs.frameOnce.Do(func() {
		rs.frame = rs.buildFrame()
	})
	return rs.frame
}

func (rs *RecordSet) buildFrame() dataframe.DataFrame {
	n := len(rs.records)
	var (
		customer = make([]string, n)
		age      = make([]int, n)
		gender   = make([]string, n)
		loyalty  = make([]string, n)
		product  = make([]string, n)
		sku      = make([]string, n)
		rating   = make([]float64, n)
		status   = make([]string, n)
		payment  = make([]string, n)
		total    = make([]string, n)
		unit     = make([]string, n)
		quantity = make([]int, n)
		date     = make([]string, n)
		shipping = make([]string, n)
		addOns   = make([]string, n)
		addOnTot = make([]string, n)
	)
	for i, t := range rs.records {
		customer[i] = t.CustomerID
		age[i] = t.Age
		gender[i] = t.Gender
		loyalty[i] = t.LoyaltyNumber
		product[i] = t.ProductType
		sku[i] = t.SKU
		rating[i] = t.Rating
		status[i] = t.OrderStatus
		payment[i] = t.PaymentMethod
		total[i] = t.TotalPrice.String()
		unit[i] = t.UnitPrice.String()
		quantity[i] = t.Quantity
		date[i] = t.PurchaseDate.Format("2006-01-02")
		shipping[i] = t.ShippingType
		if t.HasAddOns {
			addOns[i] = t.AddOns
		} else {
			addOns[i] = "NaN"
		}
		addOnTot[i] = t.AddOnTotal.String()
	}

	return dataframe.New(
		series.New(customer, series.String, ColumnCustomerID),
		series.New(age, series.Int, ColumnAge),
		series.New(gender, series.String, ColumnGender),
		series.New(loyalty, series.String, ColumnLoyaltyNumber),
		series.New(product, series.String, ColumnProductType),
		series.New(sku, series.String, ColumnSKU),
		series.New(rating, series.Float, ColumnRating),
		series.New(status, series.String, ColumnOrderStatus),
		series.New(payment, series.String, ColumnPaymentMethod),
		series.New(total, series.String, ColumnTotalPrice),
		series.New(unit, series.String, ColumnUnitPrice),
		series.New(quantity, series.Int, ColumnQuantity),
		series.New(date, series.String, ColumnPurchaseDate),
		series.New(shipping, series.String, ColumnShippingType),
		series.New(addOns, series.String, ColumnAddOns),
		series.New(addOnTot, series.String, ColumnAddOnTotal),
	)
}
