package chart

import (
	"io"
	"math"
	"strconv"

	"github.com/nao1215/storeeda/internal/model"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// violin draws one mirrored density outline per distribution, with the
// interquartile range as a thick bar and the median as a white dot.
// A distribution without a density (one rating, or identical ratings) is
// drawn as a flat line at its value.
func (r *Renderer) violin(sec *model.Section, w io.Writer) error {
	cv, err := r.canvas()
	if err != nil {
		return err
	}
	r.title(cv, sec.ChartTitle)

	area := gochart.Box{Top: 60, Left: 70, Right: r.width - 30, Bottom: r.height - 60}
	lo, hi, peak := violinBounds(sec.Distributions)
	toY := func(v float64) int {
		return area.Bottom - int((v-lo)/(hi-lo)*float64(area.Height()))
	}

	axis := gochart.Style{StrokeColor: drawing.ColorBlack, StrokeWidth: 1}
	axis.WriteDrawingOptionsToRenderer(cv)
	cv.MoveTo(area.Left, area.Top)
	cv.LineTo(area.Left, area.Bottom)
	cv.LineTo(area.Right, area.Bottom)
	cv.Stroke()
	cv.ResetStyle()

	tick := r.textStyle(10)
	for v := math.Ceil(lo); v <= math.Floor(hi); v++ {
		label := strconv.FormatFloat(v, 'f', 0, 64)
		box := gochart.Draw.MeasureText(cv, label, tick)
		gochart.Draw.Text(cv, label, area.Left-box.Width()-8, toY(v)+box.Height()/2, tick)
	}
	if sec.YLabel != "" {
		gochart.Draw.Text(cv, sec.YLabel, 8, area.Top-12, tick)
	}

	slot := float64(area.Width()) / float64(len(sec.Distributions))
	half := slot * 0.42
	for i, d := range sec.Distributions {
		cx := area.Left + int(slot*(float64(i)+0.5))
		c := color(sec, i)

		if len(d.Density) > 0 {
			scale := half / peak
			cv.SetFillColor(c)
			cv.SetStrokeColor(c)
			cv.SetStrokeWidth(1)
			for j, p := range d.Density {
				x := cx + int(p.Y*scale)
				if j == 0 {
					cv.MoveTo(x, toY(p.X))
					continue
				}
				cv.LineTo(x, toY(p.X))
			}
			for j := len(d.Density) - 1; j >= 0; j-- {
				p := d.Density[j]
				cv.LineTo(cx-int(p.Y*scale), toY(p.X))
			}
			cv.Close()
			cv.FillStroke()
			cv.ResetStyle()
		} else {
			cv.SetStrokeColor(c)
			cv.SetStrokeWidth(3)
			cv.MoveTo(cx-int(half/2), toY(d.Summary.Median))
			cv.LineTo(cx+int(half/2), toY(d.Summary.Median))
			cv.Stroke()
			cv.ResetStyle()
		}

		dark := drawing.ColorFromHex("333333")
		cv.SetStrokeColor(dark)
		cv.SetStrokeWidth(1)
		cv.MoveTo(cx, toY(d.Summary.Min))
		cv.LineTo(cx, toY(d.Summary.Max))
		cv.Stroke()
		cv.SetStrokeWidth(6)
		cv.MoveTo(cx, toY(d.Summary.Q1))
		cv.LineTo(cx, toY(d.Summary.Q3))
		cv.Stroke()
		cv.ResetStyle()

		cv.SetFillColor(drawing.ColorWhite)
		cv.SetStrokeColor(dark)
		cv.SetStrokeWidth(1)
		cv.MoveTo(cx, toY(d.Summary.Median))
		cv.Circle(3, cx, toY(d.Summary.Median))
		cv.FillStroke()
		cv.ResetStyle()

		label := r.textStyle(11)
		box := gochart.Draw.MeasureText(cv, d.Key, label)
		gochart.Draw.Text(cv, d.Key, cx-box.Width()/2, area.Bottom+20, label)
	}
	if sec.XLabel != "" {
		style := r.textStyle(11)
		box := gochart.Draw.MeasureText(cv, sec.XLabel, style)
		gochart.Draw.Text(cv, sec.XLabel, area.Left+(area.Width()-box.Width())/2, r.height-15, style)
	}

	return cv.Save(w)
}

// violinBounds returns the value range covered by all distributions and
// their densities, and the highest density.
func violinBounds(dists []model.Distribution) (lo, hi, peak float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, d := range dists {
		lo = math.Min(lo, d.Summary.Min)
		hi = math.Max(hi, d.Summary.Max)
		for _, p := range d.Density {
			lo = math.Min(lo, p.X)
			hi = math.Max(hi, p.X)
			peak = math.Max(peak, p.Y)
		}
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		lo, hi = 0, 1
	}
	if hi-lo < 1 {
		lo, hi = lo-0.5, hi+0.5
	}
	if peak <= 0 {
		peak = 1
	}
	return lo, hi, peak
}
