package chart

import (
	"io"
	"math"

	"github.com/nao1215/storeeda/internal/model"
	"github.com/shopspring/decimal"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// explode is how far the first slice is pulled out, as a share of the
// radius.
const explode = 0.08

// pie draws each row as a slice labelled with its percentage. Slices start
// at three o'clock and run clockwise; the first slice is pulled out.
func (r *Renderer) pie(sec *model.Section, w io.Writer) error {
	cv, err := r.canvas()
	if err != nil {
		return err
	}
	r.title(cv, sec.ChartTitle)

	shares := pieShares(sec.Rows)

	cx, cy := r.width/2, r.height/2+20
	radius := float64(min(r.width, r.height-60)) * 0.38

	var start float64
	for i, share := range shares {
		if share <= 0 {
			continue
		}
		delta := share * 2 * math.Pi
		ox, oy := cx, cy
		if i == 0 && len(shares) > 1 {
			mid := start + delta/2
			ox += int(math.Cos(mid) * radius * explode)
			oy += int(math.Sin(mid) * radius * explode)
		}

		c := color(sec, i)
		cv.SetFillColor(c)
		cv.SetStrokeColor(drawing.ColorWhite)
		cv.SetStrokeWidth(2)
		if len(shares) == 1 {
			cv.MoveTo(ox, oy)
			cv.Circle(radius, ox, oy)
		} else {
			cv.MoveTo(ox, oy)
			cv.ArcTo(ox, oy, radius, radius, start, delta)
			cv.LineTo(ox, oy)
			cv.Close()
		}
		cv.FillStroke()
		cv.ResetStyle()

		mid := start + delta/2
		label := sec.Rows[i].Label + " " + percentLabel(sec.Rows[i], share)
		style := r.textStyle(12)
		box := gochart.Draw.MeasureText(cv, label, style)
		lx := ox + int(math.Cos(mid)*radius*1.15)
		ly := oy + int(math.Sin(mid)*radius*1.15)
		if math.Cos(mid) < 0 {
			lx -= box.Width()
		}
		gochart.Draw.Text(cv, label, lx, ly+box.Height()/2, style)

		start += delta
	}

	return cv.Save(w)
}

// pieShares returns each row's fraction of the total. Negative values count
// as zero.
func pieShares(rows []model.AggregateRow) []float64 {
	total := decimal.Zero
	for _, row := range rows {
		if row.Value.IsPositive() {
			total = total.Add(row.Value)
		}
	}
	shares := make([]float64, len(rows))
	if total.IsZero() {
		return shares
	}
	for i, row := range rows {
		if row.Value.IsPositive() {
			shares[i] = row.Value.Div(total).InexactFloat64()
		}
	}
	return shares
}

func percentLabel(row model.AggregateRow, share float64) string {
	if !row.Percent.IsZero() {
		return row.Percent.StringFixed(1) + "%"
	}
	return decimal.NewFromFloat(share*100).StringFixed(1) + "%"
}
