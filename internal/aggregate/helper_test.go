package aggregate

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/storeeda/internal/dataset"
	"github.com/nao1215/storeeda/internal/model"
	"github.com/shopspring/decimal"
)

// decimalEqual lets cmp compare decimals by value.
var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool {
	return a.Equal(b)
})

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// tx returns a completed transaction with sensible defaults.
func tx(mods ...func(*dataset.Transaction)) dataset.Transaction {
	t := dataset.Transaction{
		CustomerID:    "1000",
		Age:           35,
		Gender:        "Male",
		ProductType:   "Laptop",
		SKU:           "SKU1005",
		Rating:        3,
		OrderStatus:   dataset.StatusCompleted,
		PaymentMethod: "credit card",
		TotalPrice:    dec("10"),
		UnitPrice:     dec("10"),
		Quantity:      1,
		PurchaseDate:  time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		ShippingType:  "Standard",
		AddOnTotal:    decimal.Zero,
	}
	for _, m := range mods {
		m(&t)
	}
	return t
}

func age(n int) func(*dataset.Transaction) {
	return func(t *dataset.Transaction) { t.Age = n }
}

func quantity(n int) func(*dataset.Transaction) {
	return func(t *dataset.Transaction) { t.Quantity = n }
}

func total(s string) func(*dataset.Transaction) {
	return func(t *dataset.Transaction) { t.TotalPrice = dec(s) }
}

func product(s string) func(*dataset.Transaction) {
	return func(t *dataset.Transaction) { t.ProductType = s }
}

func shipping(s string) func(*dataset.Transaction) {
	return func(t *dataset.Transaction) { t.ShippingType = s }
}

func status(s string) func(*dataset.Transaction) {
	return func(t *dataset.Transaction) { t.OrderStatus = s }
}

func gender(s string) func(*dataset.Transaction) {
	return func(t *dataset.Transaction) { t.Gender = s }
}

func payment(s string) func(*dataset.Transaction) {
	return func(t *dataset.Transaction) { t.PaymentMethod = s }
}

func rating(r float64) func(*dataset.Transaction) {
	return func(t *dataset.Transaction) { t.Rating = r }
}

func purchased(y int, m time.Month, d int) func(*dataset.Transaction) {
	return func(t *dataset.Transaction) { t.PurchaseDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
}

func addOns(s string) func(*dataset.Transaction) {
	return func(t *dataset.Transaction) {
		t.AddOns = s
		t.HasAddOns = true
	}
}

func recordSet(txs ...dataset.Transaction) *dataset.RecordSet {
	return dataset.NewRecordSet("test.csv", txs)
}

// loadSample reads the shared sample dataset.
func loadSample(t *testing.T) *dataset.RecordSet {
	t.Helper()
	rs, err := dataset.Load(t.Context(), "../dataset/testdata/sales_sample.csv")
	if err != nil {
		t.Fatalf("failed to load sample: %v", err)
	}
	return rs
}

func sumValues(rows []model.AggregateRow) decimal.Decimal {
	s := decimal.Zero
	for _, r := range rows {
		s = s.Add(r.Value)
	}
	return s
}
