package chart

import (
	"io"
	"math"

	"github.com/nao1215/storeeda/internal/model"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// radarRings is the number of grid rings drawn behind the polygon.
const radarRings = 4

// radar draws the section polygon with one axis per category. The first
// axis points up and axes run clockwise. Axis labels read
// "category (value)".
func (r *Renderer) radar(sec *model.Section, w io.Writer) error {
	cv, err := r.canvas()
	if err != nil {
		return err
	}
	r.title(cv, sec.ChartTitle)

	points := sec.Polygon
	if len(points) == 0 {
		points = sec.Rows
	}
	n := len(sec.Rows)

	var top float64
	for _, row := range sec.Rows {
		top = math.Max(top, row.Value.InexactFloat64())
	}
	if top <= 0 {
		top = 1
	}

	cx, cy := r.width/2, r.height/2+20
	radius := float64(min(r.width, r.height-60)) * 0.33
	angle := func(i int) float64 {
		return -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
	}
	at := func(i int, scale float64) (int, int) {
		a := angle(i)
		return cx + int(math.Cos(a)*radius*scale), cy + int(math.Sin(a)*radius*scale)
	}

	grid := gochart.Style{StrokeColor: drawing.ColorFromHex("cccccc"), StrokeWidth: 1}
	for ring := 1; ring <= radarRings; ring++ {
		scale := float64(ring) / radarRings
		grid.WriteDrawingOptionsToRenderer(cv)
		x, y := at(0, scale)
		cv.MoveTo(x, y)
		for i := 1; i <= n; i++ {
			x, y = at(i%n, scale)
			cv.LineTo(x, y)
		}
		cv.Stroke()
	}
	for i := range n {
		grid.WriteDrawingOptionsToRenderer(cv)
		x, y := at(i, 1)
		cv.MoveTo(cx, cy)
		cv.LineTo(x, y)
		cv.Stroke()
	}
	cv.ResetStyle()

	fill := color(sec, 0)
	stroke := color(sec, 1)
	cv.SetFillColor(fill.WithAlpha(110))
	cv.SetStrokeColor(stroke)
	cv.SetStrokeWidth(2)
	for i, p := range points {
		x, y := at(i%n, p.Value.InexactFloat64()/top)
		if i == 0 {
			cv.MoveTo(x, y)
			continue
		}
		cv.LineTo(x, y)
	}
	cv.Close()
	cv.FillStroke()
	cv.ResetStyle()

	pr := printer()
	style := r.textStyle(11)
	for i, row := range sec.Rows {
		label := row.Label + " (" + amount(pr, row.Value.InexactFloat64()) + ")"
		box := gochart.Draw.MeasureText(cv, label, style)
		x, y := at(i, 1.12)
		switch c := math.Cos(angle(i)); {
		case c < -0.1:
			x -= box.Width()
		case c <= 0.1:
			x -= box.Width() / 2
		}
		if math.Sin(angle(i)) > 0.1 {
			y += box.Height()
		}
		gochart.Draw.Text(cv, label, x, y, style)
	}

	return cv.Save(w)
}
