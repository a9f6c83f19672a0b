package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const sampleFile = "testdata/sales_sample.csv"

const header = "Customer ID,Age,Gender,Loyalty Number,Product Type,SKU,Rating,Order Status," +
	"Payment Method,Total Price,Unit Price,Quantity,Purchase Date,Shipping Type,Add-ons Purchased,Add-on Total\n"

func TestLoad(t *testing.T) {
	t.Parallel()

	rs, err := Load(context.Background(), sampleFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	t.Run("record count equals data rows", func(t *testing.T) {
		t.Parallel()
		raw, err := os.ReadFile(sampleFile)
		if err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
		if rs.Len() != len(lines)-1 {
			t.Errorf("expected %d records, got %d", len(lines)-1, rs.Len())
		}
	})

	t.Run("source is the path", func(t *testing.T) {
		t.Parallel()
		if rs.Source() != sampleFile {
			t.Errorf("expected source %q, got %q", sampleFile, rs.Source())
		}
	})

	t.Run("first row is typed", func(t *testing.T) {
		t.Parallel()
		got := rs.At(0)
		if got.CustomerID != "1000" {
			t.Errorf("expected CustomerID 1000, got %q", got.CustomerID)
		}
		if got.Age != 53 {
			t.Errorf("expected Age 53, got %d", got.Age)
		}
		if got.Quantity != 7 {
			t.Errorf("expected Quantity 7, got %d", got.Quantity)
		}
		if !got.TotalPrice.Equal(decimal.RequireFromString("5538.33")) {
			t.Errorf("expected TotalPrice 5538.33, got %s", got.TotalPrice)
		}
		want := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
		if !got.PurchaseDate.Equal(want) {
			t.Errorf("expected PurchaseDate %v, got %v", want, got.PurchaseDate)
		}
		if !got.HasAddOns || got.AddOns != "Accessory,Accessory,Accessory" {
			t.Errorf("unexpected add-ons %q (present=%v)", got.AddOns, got.HasAddOns)
		}
		if got.Completed() {
			t.Error("expected cancelled order")
		}
	})

	t.Run("payment methods are lowercased", func(t *testing.T) {
		t.Parallel()
		for i := range rs.Len() {
			pm := rs.At(i).PaymentMethod
			if pm != strings.ToLower(pm) {
				t.Errorf("row %d: payment method %q is not lowercase", i+1, pm)
			}
		}
		if got := rs.At(6).PaymentMethod; got != "paypal" {
			t.Errorf("expected paypal, got %q", got)
		}
	})

	t.Run("null add-ons are absent", func(t *testing.T) {
		t.Parallel()
		got := rs.At(2)
		if got.HasAddOns {
			t.Errorf("expected no add-ons, got %q", got.AddOns)
		}
	})

	t.Run("null counts", func(t *testing.T) {
		t.Parallel()
		nulls := rs.NullCounts()
		if nulls[ColumnAddOns] != 3 {
			t.Errorf("expected 3 null add-ons, got %d", nulls[ColumnAddOns])
		}
		if nulls[ColumnLoyaltyNumber] != 7 {
			t.Errorf("expected 7 null loyalty numbers, got %d", nulls[ColumnLoyaltyNumber])
		}
		if nulls[ColumnGender] != 0 {
			t.Errorf("expected no null genders, got %d", nulls[ColumnGender])
		}
	})
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file returns ErrSourceMissing", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "nope.csv")

		_, err := Load(context.Background(), path)
		if !errors.Is(err, ErrSourceMissing) {
			t.Fatalf("expected ErrSourceMissing, got %v", err)
		}
		var le *LoadError
		if !errors.As(err, &le) {
			t.Fatalf("expected *LoadError, got %T", err)
		}
		if le.Path != path {
			t.Errorf("expected path %q, got %q", path, le.Path)
		}
	})

	tests := []struct {
		name       string
		input      string
		wantErr    error
		wantRow    int
		wantColumn string
	}{
		{
			name:    "empty input returns ErrNoRecords",
			input:   "",
			wantErr: ErrNoRecords,
		},
		{
			name:    "header only returns ErrNoRecords",
			input:   header,
			wantErr: ErrNoRecords,
		},
		{
			name:       "missing columns returns ErrMissingColumn",
			input:      "Customer ID,Age\n1,20\n",
			wantErr:    ErrMissingColumn,
			wantColumn: "Gender",
		},
		{
			name:    "ragged row returns ErrMalformed",
			input:   header + "1,2,3\n",
			wantErr: ErrMalformed,
		},
		{
			name:       "non-numeric age returns ErrMalformed",
			input:      header + "1,old,Male,,Laptop,SKU1,3,Completed,Cash,10,10,1,2024-01-01,Standard,,0\n",
			wantErr:    ErrMalformed,
			wantRow:    1,
			wantColumn: ColumnAge,
		},
		{
			name: "bad date returns ErrMalformed",
			input: header +
				"1,20,Male,,Laptop,SKU1,3,Completed,Cash,10,10,1,2024-01-01,Standard,,0\n" +
				"2,20,Male,,Laptop,SKU1,3,Completed,Cash,10,10,1,yesterday,Standard,,0\n",
			wantErr:    ErrMalformed,
			wantRow:    2,
			wantColumn: ColumnPurchaseDate,
		},
		{
			name:       "null total price returns ErrMalformed",
			input:      header + "1,20,Male,,Laptop,SKU1,3,Completed,Cash,NA,10,1,2024-01-01,Standard,,0\n",
			wantErr:    ErrMalformed,
			wantRow:    1,
			wantColumn: ColumnTotalPrice,
		},
		{
			name:       "negative quantity returns ErrMalformed",
			input:      header + "1,20,Male,,Laptop,SKU1,3,Completed,Cash,10,10,-1,2024-01-01,Standard,,0\n",
			wantErr:    ErrMalformed,
			wantRow:    1,
			wantColumn: ColumnQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Read(context.Background(), strings.NewReader(tt.input), "inline.csv")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("expected *LoadError, got %T", err)
			}
			if le.Path != "inline.csv" {
				t.Errorf("expected path inline.csv, got %q", le.Path)
			}
			if le.Row != tt.wantRow {
				t.Errorf("expected row %d, got %d", tt.wantRow, le.Row)
			}
			if tt.wantColumn != "" && !strings.Contains(le.Column, tt.wantColumn) {
				t.Errorf("expected column to mention %q, got %q", tt.wantColumn, le.Column)
			}
		})
	}
}

func TestReadNormalization(t *testing.T) {
	t.Parallel()

	t.Run("byte order mark is stripped", func(t *testing.T) {
		t.Parallel()
		input := "\ufeff" + header + "1,20,Male,,Laptop,SKU1,3,Completed,Cash,10,10,1,2024-01-01,Standard,,0\n"

		rs, err := Read(context.Background(), strings.NewReader(input), "bom.csv")
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if rs.At(0).CustomerID != "1" {
			t.Errorf("expected CustomerID 1, got %q", rs.At(0).CustomerID)
		}
	})

	t.Run("currency symbols and float ages are accepted", func(t *testing.T) {
		t.Parallel()
		input := header + `1,25.0,Female,,Tablet,SKU1,4.5,Completed,Debit Card,"$1,234.50",$617.25,2,2024/02/03,Express,,0` + "\n"

		rs, err := Read(context.Background(), strings.NewReader(input), "money.csv")
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		got := rs.At(0)
		if got.Age != 25 {
			t.Errorf("expected Age 25, got %d", got.Age)
		}
		if !got.TotalPrice.Equal(decimal.RequireFromString("1234.50")) {
			t.Errorf("expected TotalPrice 1234.50, got %s", got.TotalPrice)
		}
		if got.Rating != 4.5 {
			t.Errorf("expected Rating 4.5, got %v", got.Rating)
		}
		if got.PurchaseDate.Month() != time.February {
			t.Errorf("expected February, got %v", got.PurchaseDate.Month())
		}
	})

	t.Run("custom date layout", func(t *testing.T) {
		t.Parallel()
		input := header + "1,20,Male,,Laptop,SKU1,3,Completed,Cash,10,10,1,03.02.2024,Standard,,0\n"

		rs, err := Read(context.Background(), strings.NewReader(input), "eu.csv", WithDateLayouts("02.01.2006"))
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if rs.At(0).PurchaseDate.Month() != time.February {
			t.Errorf("expected February, got %v", rs.At(0).PurchaseDate.Month())
		}
	})

	t.Run("cancelled context stops the load", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Read(ctx, strings.NewReader(header), "cancel.csv")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		var loadErr *LoadError
		if !errors.As(err, &loadErr) {
			t.Fatalf("expected a LoadError, got %T", err)
		}
		if loadErr.Path != "cancel.csv" {
			t.Errorf("expected the path in the error, got %q", loadErr.Path)
		}
	})
}

func TestLoadErrorMessage(t *testing.T) {
	t.Parallel()

	err := &LoadError{Path: "sales.csv", Row: 4, Column: ColumnAge, Err: ErrMalformed}
	want := `failed to load dataset sales.csv: row 4: column "Age": malformed dataset`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
