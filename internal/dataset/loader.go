package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
)

// DefaultNullTokens are the cell values treated as missing.
var DefaultNullTokens = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None", "<NA>"}

// DefaultDateLayouts are tried in order when parsing the purchase date.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// cancelCheckInterval is how many rows are converted between context checks.
const cancelCheckInterval = 1024

// loadConfig holds loader settings.
type loadConfig struct {
	nullTokens  []string
	dateLayouts []string
	logger      *slog.Logger
}

// LoadOption configures Load and Read.
type LoadOption func(*loadConfig)

// WithNullTokens replaces the set of cell values treated as missing.
func WithNullTokens(tokens []string) LoadOption {
	return func(c *loadConfig) {
		c.nullTokens = tokens
	}
}

// WithDateLayouts replaces the accepted purchase date layouts.
func WithDateLayouts(layouts ...string) LoadOption {
	return func(c *loadConfig) {
		if len(layouts) > 0 {
			c.dateLayouts = layouts
		}
	}
}

// WithLoadLogger sets the logger used for load diagnostics.
func WithLoadLogger(logger *slog.Logger) LoadOption {
	return func(c *loadConfig) {
		c.logger = logger
	}
}

func newLoadConfig(opts []LoadOption) *loadConfig {
	cfg := &loadConfig{
		nullTokens:  DefaultNullTokens,
		dateLayouts: DefaultDateLayouts,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return cfg
}

// Load opens the CSV file at path and reads it into a RecordSet.
// Any failure is returned as a *LoadError.
func Load(ctx context.Context, path string, opts ...LoadOption) (*RecordSet, error) {
	f, err := os.Open(path) //nolint:gosec // dataset path is user-provided by design of the CLI
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %w", ErrSourceMissing, err)}
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	return Read(ctx, f, path, opts...)
}

// Read parses CSV data from r. source is only used to label errors and the
// resulting RecordSet.
func Read(ctx context.Context, r io.Reader, source string, opts ...LoadOption) (*RecordSet, error) {
	cfg := newLoadConfig(opts)

	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Path: source, Err: err}
	}

	// Spreadsheet exports often start with a UTF-8 BOM that would otherwise
	// end up in the first header name.
	r = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(cfg.nullTokens),
	)
	if df.Err != nil {
		if strings.Contains(df.Err.Error(), "empty DataFrame") {
			return nil, &LoadError{Path: source, Err: ErrNoRecords}
		}
		return nil, &LoadError{Path: source, Err: fmt.Errorf("%w: %w", ErrMalformed, df.Err)}
	}

	if err := checkColumns(df.Names()); err != nil {
		err.Path = source
		return nil, err
	}

	cols := make(map[string]column, len(RequiredColumns))
	for _, name := range RequiredColumns {
		s := df.Col(name)
		if s.Err != nil {
			return nil, &LoadError{Path: source, Column: name, Err: fmt.Errorf("%w: %w", ErrMalformed, s.Err)}
		}
		cols[name] = column{values: s.Records(), null: s.IsNaN()}
	}

	lower := cases.Lower(language.Und)
	n := df.Nrow()
	records := make([]Transaction, 0, n)
	for i := 0; i < n; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, &LoadError{Path: source, Row: i + 1, Err: err}
			}
		}

		row := &rowReader{cols: cols, index: i, layouts: cfg.dateLayouts}
		t := Transaction{
			CustomerID:    row.text(ColumnCustomerID),
			Age:           row.integer(ColumnAge),
			Gender:        row.text(ColumnGender),
			LoyaltyNumber: row.text(ColumnLoyaltyNumber),
			ProductType:   row.text(ColumnProductType),
			SKU:           row.text(ColumnSKU),
			Rating:        row.float(ColumnRating),
			OrderStatus:   row.text(ColumnOrderStatus),
			PaymentMethod: lower.String(row.text(ColumnPaymentMethod)),
			TotalPrice:    row.money(ColumnTotalPrice),
			UnitPrice:     row.money(ColumnUnitPrice),
			Quantity:      row.integer(ColumnQuantity),
			PurchaseDate:  row.date(ColumnPurchaseDate),
			ShippingType:  row.text(ColumnShippingType),
			AddOnTotal:    row.money(ColumnAddOnTotal),
		}
		t.AddOns, t.HasAddOns = row.optional(ColumnAddOns)
		if row.err == nil && t.Quantity < 0 {
			row.fail(ColumnQuantity, fmt.Errorf("%w: quantity %d is negative", ErrMalformed, t.Quantity))
		}
		if row.err != nil {
			row.err.Path = source
			return nil, row.err
		}
		records = append(records, t)
	}

	cfg.logger.Debug("dataset loaded",
		"source", source,
		"records", len(records),
	)

	return NewRecordSet(source, records), nil
}

// checkColumns reports every required column missing from names.
func checkColumns(names []string) *LoadError {
	present := make(map[string]bool, len(names))
	for _, name := range names {
		present[name] = true
	}

	var missing []string
	for _, name := range RequiredColumns {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &LoadError{
		Column: strings.Join(missing, ", "),
		Err:    ErrMissingColumn,
	}
}

// column is one CSV column as raw text plus its null mask.
type column struct {
	values []string
	null   []bool
}

// rowReader converts the cells of a single row. The first conversion
// failure is kept in err and later calls become no-ops.
type rowReader struct {
	cols    map[string]column
	index   int
	layouts []string
	err     *LoadError
}

func (r *rowReader) fail(col string, err error) {
	if r.err == nil {
		r.err = &LoadError{Row: r.index + 1, Column: col, Err: err}
	}
}

// cell returns the trimmed cell value and whether it was null.
func (r *rowReader) cell(col string) (string, bool) {
	c := r.cols[col]
	if c.null[r.index] {
		return "", true
	}
	return strings.TrimSpace(c.values[r.index]), false
}

// text returns a categorical value; nulls become the empty string.
func (r *rowReader) text(col string) string {
	v, _ := r.cell(col)
	return v
}

// optional returns the value and false when the cell was null.
func (r *rowReader) optional(col string) (string, bool) {
	v, null := r.cell(col)
	return v, !null
}

// required returns the cell value, failing the row when it is null.
func (r *rowReader) required(col string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	v, null := r.cell(col)
	if null {
		r.fail(col, fmt.Errorf("%w: value is missing", ErrMalformed))
		return "", false
	}
	return v, true
}

func (r *rowReader) integer(col string) int {
	v, ok := r.required(col)
	if !ok {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	// Some exports write whole numbers as "25.0".
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != float64(int(f)) {
		r.fail(col, fmt.Errorf("%w: %q is not an integer", ErrMalformed, v))
		return 0
	}
	return int(f)
}

func (r *rowReader) float(col string) float64 {
	v, ok := r.required(col)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(col, fmt.Errorf("%w: %q is not a number", ErrMalformed, v))
		return 0
	}
	return f
}

var moneyCleaner = strings.NewReplacer("$", "", ",", "")

func (r *rowReader) money(col string) decimal.Decimal {
	v, ok := r.required(col)
	if !ok {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(moneyCleaner.Replace(v))
	if err != nil {
		r.fail(col, fmt.Errorf("%w: %q is not a currency amount", ErrMalformed, v))
		return decimal.Zero
	}
	return d
}

func (r *rowReader) date(col string) time.Time {
	v, ok := r.required(col)
	if !ok {
		return time.Time{}
	}
	for _, layout := range r.layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	r.fail(col, fmt.Errorf("%w: %q is not a recognised date", ErrMalformed, v))
	return time.Time{}
}
