package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

// TestChartKindString tests the String method of ChartKind.
func TestChartKindString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		kind     ChartKind
		expected string
	}{
		{ChartTable, "table"},
		{ChartBar, "bar"},
		{ChartLine, "line"},
		{ChartRadar, "radar"},
		{ChartPie, "pie"},
		{ChartWordFrequency, "word-frequency"},
		{ChartViolin, "violin"},
		{ChartKind(999), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.kind.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.kind.String(), tc.expected)
			}
		})
	}
}

// TestChartKindText verifies that chart kinds survive a JSON round trip by name.
func TestChartKindText(t *testing.T) {
	t.Parallel()

	t.Run("marshals as name", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(Section{Step: StepRatings, Chart: ChartViolin})
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), `"chart":"violin"`) {
			t.Errorf("expected chart name in %s", data)
		}
	})

	t.Run("parses name", func(t *testing.T) {
		t.Parallel()
		var s Section
		if err := json.Unmarshal([]byte(`{"chart":"radar"}`), &s); err != nil {
			t.Fatal(err)
		}
		if s.Chart != ChartRadar {
			t.Errorf("expected radar, got %v", s.Chart)
		}
	})

	t.Run("rejects unknown name", func(t *testing.T) {
		t.Parallel()
		if _, err := ParseChartKind("scatter"); err == nil {
			t.Error("expected error for unknown chart kind")
		}
	})
}

func TestParseSpendMode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input   string
		want    SpendMode
		wantErr bool
	}{
		{"", SpendTotal, false},
		{"total", SpendTotal, false},
		{" COUNT ", SpendCount, false},
		{"average", "", true},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("input %q", tc.input), func(t *testing.T) {
			t.Parallel()
			got, err := ParseSpendMode(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseSpendMode() error = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEmptyAggregateWarning(t *testing.T) {
	t.Parallel()

	w := EmptyAggregateWarning{Step: StepShippingSales, Message: "no completed orders"}

	t.Run("matches sentinel", func(t *testing.T) {
		t.Parallel()
		if !errors.Is(w, ErrEmptyAggregate) {
			t.Error("expected warning to match ErrEmptyAggregate")
		}
		wrapped := fmt.Errorf("step failed: %w", w)
		if !errors.Is(wrapped, ErrEmptyAggregate) {
			t.Error("expected wrapped warning to match ErrEmptyAggregate")
		}
	})

	t.Run("can be extracted", func(t *testing.T) {
		t.Parallel()
		var got EmptyAggregateWarning
		if !errors.As(fmt.Errorf("wrap: %w", w), &got) {
			t.Fatal("expected errors.As to succeed")
		}
		if got.Step != StepShippingSales {
			t.Errorf("expected step %q, got %q", StepShippingSales, got.Step)
		}
	})

	t.Run("message names the step", func(t *testing.T) {
		t.Parallel()
		if w.Error() != "shipping-sales: no completed orders" {
			t.Errorf("unexpected message %q", w.Error())
		}
	})
}

func TestReport(t *testing.T) {
	t.Parallel()

	t.Run("new report defaults", func(t *testing.T) {
		t.Parallel()
		r := NewReport("sales.csv")
		if r.Source != "sales.csv" {
			t.Errorf("expected source sales.csv, got %q", r.Source)
		}
		if r.SpendMode != SpendTotal {
			t.Errorf("expected spend mode total, got %q", r.SpendMode)
		}
		if r.GeneratedAt.IsZero() {
			t.Error("expected GeneratedAt to be set")
		}
	})

	t.Run("warnings are deduplicated by step", func(t *testing.T) {
		t.Parallel()
		r := NewReport("sales.csv")
		r.AddWarning(EmptyAggregateWarning{Step: StepShippingSales, Message: "a"})
		r.AddWarning(EmptyAggregateWarning{Step: StepShippingSales, Message: "b"})
		if len(r.Warnings) != 1 {
			t.Errorf("expected 1 warning, got %d", len(r.Warnings))
		}
	})

	t.Run("section lookup", func(t *testing.T) {
		t.Parallel()
		r := NewReport("sales.csv")
		r.AddSection(Section{Step: StepGenderSplit, Chart: ChartPie})
		if r.Section(StepGenderSplit) == nil {
			t.Error("expected gender split section")
		}
		if r.Section(StepAddOns) != nil {
			t.Error("expected no add-ons section")
		}
	})

	t.Run("chart sections skip empty and skipped ones", func(t *testing.T) {
		t.Parallel()
		r := NewReport("sales.csv")
		r.AddSection(Section{Step: StepOverview, Chart: ChartTable})
		r.AddSection(Section{Step: StepProductSales, Chart: ChartBar, Rows: []AggregateRow{{Key: "a"}}})
		r.AddSection(Section{Step: StepShippingSales, Chart: ChartRadar, Skipped: true})
		r.AddSection(Section{Step: StepAddOns, Chart: ChartWordFrequency, Terms: []TermFrequency{{Term: "x", Count: 1}}})

		got := r.ChartSections()
		if len(got) != 2 || got[0] != 1 || got[1] != 3 {
			t.Errorf("expected [1 3], got %v", got)
		}
	})

	t.Run("error text is kept for JSON", func(t *testing.T) {
		t.Parallel()
		r := NewReport("sales.csv")
		r.SetError(errors.New("boom"))
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), `"error":"boom"`) {
			t.Errorf("expected error message in %s", data)
		}
	})
}

func TestPercent(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		part, total string
		want        string
	}{
		{"1", "3", "33.3"},
		{"2", "3", "66.7"},
		{"5", "5", "100"},
		{"1", "0", "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.part+"/"+tc.total, func(t *testing.T) {
			t.Parallel()
			got := Percent(decimal.RequireFromString(tc.part), decimal.RequireFromString(tc.total))
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}
