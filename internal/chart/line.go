package chart

import (
	"io"

	"github.com/nao1215/storeeda/internal/model"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// line draws rows as a line in row order, one tick per row.
func (r *Renderer) line(sec *model.Section, w io.Writer) error {
	p := printer()

	xs := make([]float64, len(sec.Rows))
	ys := make([]float64, len(sec.Rows))
	ticks := make([]gochart.Tick, 0, len(sec.Rows)+2)
	// go-chart takes the x-range from the ticks, so blank ticks half a step
	// outside the data keep a single month drawable.
	ticks = append(ticks, gochart.Tick{Value: -0.5})
	var top float64
	for i, row := range sec.Rows {
		xs[i] = float64(i)
		ys[i] = row.Value.InexactFloat64()
		if ys[i] > top {
			top = ys[i]
		}
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: row.Label})
	}
	ticks = append(ticks, gochart.Tick{Value: float64(len(sec.Rows)) - 0.5})
	if top <= 0 {
		top = 1
	}

	c := color(sec, 0)
	graph := gochart.Chart{
		Title:      sec.ChartTitle,
		TitleStyle: gochart.Style{FontSize: 14, FontColor: drawing.ColorBlack},
		Width:      r.width,
		Height:     r.height,
		Font:       r.font,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 60, Left: 20, Right: 40, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:      sec.XLabel,
			Ticks:     ticks,
			Range:     &gochart.ContinuousRange{Min: -0.5, Max: float64(len(sec.Rows)) - 0.5},
			TickStyle: gochart.Style{TextRotationDegrees: 45, FontSize: 8},
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
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name: sec.YLabel,
				Style: gochart.Style{
					StrokeColor: c,
					StrokeWidth: 2,
					DotColor:    c,
					DotWidth:    4,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return graph.Render(r.provider(), w)
}
