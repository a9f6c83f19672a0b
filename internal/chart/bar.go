package chart

import (
	"io"

	"github.com/nao1215/storeeda/internal/model"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// bar draws one bar per row. Every bar label carries its value with two
// decimals.
func (r *Renderer) bar(sec *model.Section, w io.Writer) error {
	p := printer()

	bars := make([]gochart.Value, 0, len(sec.Rows))
	var top float64
	for i, row := range sec.Rows {
		v := row.Value.InexactFloat64()
		if v > top {
			top = v
		}
		c := color(sec, i)
		bars = append(bars, gochart.Value{
			Label: row.Label + "\n" + amount(p, v),
			Value: v,
			Style: gochart.Style{
				FillColor:   c,
				StrokeColor: c,
				StrokeWidth: 1,
			},
		})
	}
	if top <= 0 {
		top = 1
	}

	bc := gochart.BarChart{
		Title:      sec.ChartTitle,
		TitleStyle: gochart.Style{FontSize: 14, FontColor: drawing.ColorBlack},
		Width:      r.width,
		Height:     r.height,
		Font:       r.font,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.Style{
			FontSize:  9,
			FontColor: drawing.ColorBlack,
			TextWrap:  gochart.TextWrapWord,
		},
		YAxis: gochart.YAxis{
			Name:  sec.YLabel,
			Range: &gochart.ContinuousRange{Min: 0, Max: top * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return p.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}
	return bc.Render(r.provider(), w)
}
