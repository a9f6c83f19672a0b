package report

import (
	"path"
	"strconv"

	"github.com/nao1215/storeeda/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// table is a header row plus body rows of display strings. Every writer
// that prints section data as a grid builds it from the same table so the
// formats agree on columns and number formatting.
type table struct {
	header []string
	rows   [][]string
}

// newPrinter returns the printer used for every number in a report.
// English grouping gives "12,535.58".
func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

// formatValue prints whole values without decimals and everything else
// with two.
func formatValue(p *message.Printer, v decimal.Decimal) string {
	if v.IsInteger() {
		return p.Sprintf("%d", v.IntPart())
	}
	return p.Sprintf("%.2f", v.InexactFloat64())
}

func formatFloat(p *message.Printer, v float64) string {
	return p.Sprintf("%.2f", v)
}

func formatPercent(v decimal.Decimal) string {
	return v.StringFixed(1) + "%"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// sectionTable lays out the data of a chart section.
func sectionTable(sec *model.Section, p *message.Printer) table {
	category := orDefault(sec.XLabel, "Category")
	value := orDefault(sec.YLabel, "Value")

	switch sec.Chart {
	case model.ChartWordFrequency:
		t := table{header: []string{"Term", "Count"}}
		for _, term := range sec.Terms {
			t.rows = append(t.rows, []string{term.Term, p.Sprintf("%d", term.Count)})
		}
		return t
	case model.ChartViolin:
		t := table{header: []string{category, "Count", "Min", "Q1", "Median", "Q3", "Max", "Mean"}}
		for _, d := range sec.Distributions {
			s := d.Summary
			t.rows = append(t.rows, []string{
				d.Key,
				strconv.Itoa(s.Count),
				formatFloat(p, s.Min),
				formatFloat(p, s.Q1),
				formatFloat(p, s.Median),
				formatFloat(p, s.Q3),
				formatFloat(p, s.Max),
				formatFloat(p, s.Mean),
			})
		}
		return t
	case model.ChartPie:
		t := table{header: []string{category, value, "Percent"}}
		for _, row := range sec.Rows {
			t.rows = append(t.rows, []string{row.Label, formatValue(p, row.Value), formatPercent(row.Percent)})
		}
		return t
	default:
		t := table{header: []string{category, value}}
		for _, row := range sec.Rows {
			t.rows = append(t.rows, []string{row.Label, formatValue(p, row.Value)})
		}
		return t
	}
}

// columnsTable lists the type and null counts of every column.
func columnsTable(ov *model.Overview, p *message.Printer) table {
	t := table{header: []string{"Column", "Type", "Non-Null", "Null"}}
	for _, c := range ov.Columns {
		t.rows = append(t.rows, []string{c.Name, c.Type, p.Sprintf("%d", c.NonNull), p.Sprintf("%d", c.Null)})
	}
	return t
}

// describeTable has one row per statistic and one column per numeric
// column. It is empty when the dataset had no records.
func describeTable(ov *model.Overview, p *message.Printer) table {
	t := table{header: []string{"Statistic"}}
	for _, c := range ov.Describe {
		t.header = append(t.header, c.Column)
	}
	for i, stat := range ov.Statistics {
		row := []string{stat}
		for _, c := range ov.Describe {
			v := ""
			if i < len(c.Values) {
				v = formatFloat(p, c.Values[i])
			}
			row = append(row, v)
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// droppedNote describes the measure that fell outside every bucket, or
// returns "" when nothing was dropped.
func droppedNote(sec *model.Section, p *message.Printer) string {
	if sec.Dropped.IsZero() {
		return ""
	}
	return "Outside every bucket: " + formatValue(p, sec.Dropped)
}

// artifactURL joins a chart file name onto the configured link prefix.
func artifactURL(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// status summarizes how the run ended.
func status(r *model.Report) string {
	switch {
	case r.Cancelled:
		return "Cancelled (partial report)"
	case r.ErrorMessage != "":
		return "Failed: " + r.ErrorMessage
	default:
		return "Complete"
	}
}
