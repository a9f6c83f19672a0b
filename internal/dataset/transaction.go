package dataset

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column headers of the sales CSV.
const (
	ColumnCustomerID    = "Customer ID"
	ColumnAge           = "Age"
	ColumnGender        = "Gender"
	ColumnLoyaltyNumber = "Loyalty Number"
	ColumnProductType   = "Product Type"
	ColumnSKU           = "SKU"
	ColumnRating        = "Rating"
	ColumnOrderStatus   = "Order Status"
	ColumnPaymentMethod = "Payment Method"
	ColumnTotalPrice    = "Total Price"
	ColumnUnitPrice     = "Unit Price"
	ColumnQuantity      = "Quantity"
	ColumnPurchaseDate  = "Purchase Date"
	ColumnShippingType  = "Shipping Type"
	ColumnAddOns        = "Add-ons Purchased"
	ColumnAddOnTotal    = "Add-on Total"
)

// RequiredColumns lists every header the loader insists on, in file order.
var RequiredColumns = []string{
	ColumnCustomerID,
	ColumnAge,
	ColumnGender,
	ColumnLoyaltyNumber,
	ColumnProductType,
	ColumnSKU,
	ColumnRating,
	ColumnOrderStatus,
	ColumnPaymentMethod,
	ColumnTotalPrice,
	ColumnUnitPrice,
	ColumnQuantity,
	ColumnPurchaseDate,
	ColumnShippingType,
	ColumnAddOns,
	ColumnAddOnTotal,
}

// Order status values observed in the dataset.
const (
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

// Transaction is one row of the sales dataset.
type Transaction struct {
	// CustomerID and LoyaltyNumber are opaque identifiers. They are never
	// aggregated and are masked by the secure logger.
	CustomerID    string
	LoyaltyNumber string

	Age    int
	Gender string

	ProductType string
	SKU         string
	Rating      float64

	OrderStatus string

	// PaymentMethod is stored lowercased.
	PaymentMethod string

	// TotalPrice is taken from the file as-is; it is not recomputed from
	// UnitPrice, Quantity and AddOnTotal.
	TotalPrice decimal.Decimal
	UnitPrice  decimal.Decimal
	Quantity   int

	PurchaseDate time.Time
	ShippingType string

	// AddOns is the raw free-text list of purchased add-ons. HasAddOns is
	// false when the source cell was null.
	AddOns     string
	HasAddOns  bool
	AddOnTotal decimal.Decimal
}

// Completed reports whether the order went through.
func (t Transaction) Completed() bool {
	return strings.EqualFold(strings.TrimSpace(t.OrderStatus), StatusCompleted)
}
