package chart

import (
	"bytes"
	"errors"
	"testing"

	"github.com/nao1215/storeeda/internal/model"
	"github.com/shopspring/decimal"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func rows(kv ...string) []model.AggregateRow {
	out := make([]model.AggregateRow, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, model.AggregateRow{
			Key:   kv[i],
			Label: kv[i],
			Value: decimal.RequireFromString(kv[i+1]),
		})
	}
	return out
}

// sections returns one section of every drawable kind.
func sections() []model.Section {
	shipping := rows("Express", "7900.76", "Overnight", "3905.85", "Same Day", "494.06", "Standard", "234.91")
	return []model.Section{
		{
			Step:       model.StepProductSales,
			Chart:      model.ChartBar,
			ChartTitle: "Sales by Product Type",
			YLabel:     "Total Sales",
			Colors:     []string{"#a6cee3", "#1f78b4"},
			Rows:       rows("Laptop", "1855.84", "Smartphone", "3289.26", "Tablet", "1235.15"),
		},
		{
			Step:       model.StepMonthlyRevenue,
			Chart:      model.ChartLine,
			ChartTitle: "Monthly Revenue",
			XLabel:     "Months",
			Colors:     []string{"#0000ff"},
			Rows:       rows("September 2023", "151.91", "October 2023", "1855.84", "January 2024", "6003.42"),
		},
		{
			Step:       model.StepGenderSplit,
			Chart:      model.ChartPie,
			ChartTitle: "Percentage of Buyers",
			Colors:     []string{"#75d2dd", "#f7adef"},
			Rows: []model.AggregateRow{
				{Key: "Male", Label: "Male", Value: decimal.NewFromInt(6), Percent: decimal.NewFromInt(60)},
				{Key: "Female", Label: "Female", Value: decimal.NewFromInt(4), Percent: decimal.NewFromInt(40)},
			},
		},
		{
			Step:    model.StepShippingSales,
			Chart:   model.ChartRadar,
			Colors:  []string{"#87ceeb", "#0000ff"},
			Rows:    shipping,
			Polygon: append(append([]model.AggregateRow(nil), shipping...), shipping[0]),
		},
		{
			Step:  model.StepAddOns,
			Chart: model.ChartWordFrequency,
			Terms: []model.TermFrequency{
				{Term: "Accessory", Count: 5},
				{Term: "Impulse", Count: 4},
				{Term: "Warranty", Count: 2},
			},
		},
		{
			Step:   model.StepRatings,
			Chart:  model.ChartViolin,
			YLabel: "Rating",
			Distributions: []model.Distribution{
				{
					Key:     "Laptop",
					Values:  []float64{1, 3},
					Summary: model.Summary{Count: 2, Min: 1, Q1: 1, Median: 1, Q3: 3, Max: 3, Mean: 2},
					Density: []model.DensityPoint{{X: 0, Y: 0.05}, {X: 2, Y: 0.2}, {X: 4, Y: 0.05}},
				},
				{
					Key:     "Tablet",
					Values:  []float64{3, 3},
					Summary: model.Summary{Count: 2, Min: 3, Q1: 3, Median: 3, Q3: 3, Max: 3, Mean: 3},
				},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"png", FormatPNG, false},
		{"", FormatPNG, false},
		{" SVG ", FormatSVG, false},
		{"jpeg", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFormat) {
					t.Errorf("expected ErrInvalidFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	png, err := NewRenderer(WithSize(640, 400))
	if err != nil {
		t.Fatal(err)
	}
	svg, err := NewRenderer(WithSize(640, 400), WithFormat(FormatSVG))
	if err != nil {
		t.Fatal(err)
	}

	for _, sec := range sections() {
		t.Run(sec.Step+"/png", func(t *testing.T) {
			t.Parallel()

			data, err := png.Render(&sec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.HasPrefix(data, pngMagic) {
				t.Error("expected PNG output")
			}
		})
		t.Run(sec.Step+"/svg", func(t *testing.T) {
			t.Parallel()

			data, err := svg.Render(&sec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Contains(data, []byte("<svg")) {
				t.Error("expected SVG output")
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		sec     model.Section
		wantErr error
	}{
		{
			name:    "table has no image",
			sec:     model.Section{Step: model.StepOverview, Chart: model.ChartTable},
			wantErr: ErrUnsupportedKind,
		},
		{
			name:    "skipped section",
			sec:     model.Section{Step: model.StepShippingSales, Chart: model.ChartRadar, Skipped: true},
			wantErr: ErrNoData,
		},
		{
			name:    "empty rows",
			sec:     model.Section{Step: model.StepPaymentMethods, Chart: model.ChartBar},
			wantErr: ErrNoData,
		},
		{
			name:    "unknown kind",
			sec:     model.Section{Step: "x", Chart: model.ChartKind(99), Rows: rows("a", "1")},
			wantErr: ErrUnsupportedKind,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := r.Render(&tt.sec); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRenderSingleRow(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer(WithSize(320, 240))
	if err != nil {
		t.Fatal(err)
	}
	for _, kind := range []model.ChartKind{model.ChartBar, model.ChartLine, model.ChartPie, model.ChartRadar} {
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()

			sec := model.Section{Step: "single", Chart: kind, Rows: rows("only", "42")}
			if _, err := r.Render(&sec); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRenderLineSingleMonth(t *testing.T) {
	t.Parallel()

	for _, format := range []Format{FormatPNG, FormatSVG} {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			r, err := NewRenderer(WithSize(480, 320), WithFormat(format))
			if err != nil {
				t.Fatal(err)
			}
			sec := model.Section{
				Step:       model.StepMonthlyRevenue,
				Chart:      model.ChartLine,
				ChartTitle: "Monthly Revenue",
				XLabel:     "Months",
				Rows:       rows("May 2024", "1500.00"),
			}
			data, err := r.Render(&sec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(data) == 0 {
				t.Error("expected chart output")
			}
		})
	}
}

func TestWordSize(t *testing.T) {
	t.Parallel()

	if got := WordSize(5, 5, 5); got != maxWordSize {
		t.Errorf("equal counts: expected %v, got %v", maxWordSize, got)
	}
	if got := WordSize(1, 1, 9); got != minWordSize {
		t.Errorf("least frequent: expected %v, got %v", minWordSize, got)
	}
	if got := WordSize(9, 1, 9); got != maxWordSize {
		t.Errorf("most frequent: expected %v, got %v", maxWordSize, got)
	}
	if WordSize(4, 1, 9) >= WordSize(5, 1, 9) {
		t.Error("size should grow with count")
	}
}

func TestPieShares(t *testing.T) {
	t.Parallel()

	shares := pieShares(rows("a", "3", "b", "1", "c", "-2"))
	want := []float64{0.75, 0.25, 0}
	for i := range want {
		if shares[i] != want[i] {
			t.Errorf("share %d: expected %v, got %v", i, want[i], shares[i])
		}
	}
	for _, s := range pieShares(rows("a", "0")) {
		if s != 0 {
			t.Error("expected zero shares for a zero total")
		}
	}
}

func TestParseHex(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"#87ceeb", "0000ff", "#fff"} {
		if _, ok := parseHex(s); !ok {
			t.Errorf("expected %q to parse", s)
		}
	}
	for _, s := range []string{"", "#12345", "skyblue", "#gggggg"} {
		if _, ok := parseHex(s); ok {
			t.Errorf("expected %q to be rejected", s)
		}
	}

	sec := &model.Section{Colors: []string{"bogus"}}
	if color(sec, 0) != color(&model.Section{}, 0) {
		t.Error("invalid colours should fall back to the default palette")
	}
}
