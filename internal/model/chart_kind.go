package model

import "fmt"

// ChartKind selects how a section is drawn.
type ChartKind int

const (
	// ChartTable renders rows as a table without a chart artifact.
	// The dataset overview uses it.
	ChartTable ChartKind = iota

	// ChartBar draws one bar per aggregate row.
	ChartBar

	// ChartLine draws aggregate rows as a line in row order.
	ChartLine

	// ChartRadar draws a closed polygon with one axis per category.
	ChartRadar

	// ChartPie draws each row as a slice. Rows should carry a percent.
	ChartPie

	// ChartWordFrequency lays out terms sized by how often they occur.
	ChartWordFrequency

	// ChartViolin draws one density outline per distribution.
	ChartViolin
)

var chartKindNames = map[ChartKind]string{
	ChartTable:         "table",
	ChartBar:           "bar",
	ChartLine:          "line",
	ChartRadar:         "radar",
	ChartPie:           "pie",
	ChartWordFrequency: "word-frequency",
	ChartViolin:        "violin",
}

// String returns the lowercase name of the chart kind.
func (k ChartKind) String() string {
	if name, ok := chartKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseChartKind converts a name produced by String back into a ChartKind.
func ParseChartKind(s string) (ChartKind, error) {
	for k, name := range chartKindNames {
		if name == s {
			return k, nil
		}
	}
	return ChartTable, fmt.Errorf("unknown chart kind %q", s)
}

// MarshalText implements encoding.TextMarshaler so JSON reports carry the name.
func (k ChartKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ChartKind) UnmarshalText(text []byte) error {
	parsed, err := ParseChartKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
