package chart

import (
	"io"

	"github.com/nao1215/storeeda/internal/model"
	gochart "github.com/wcharczuk/go-chart/v2"
)

// Font sizes of the least and most frequent terms.
const (
	minWordSize = 12.0
	maxWordSize = 48.0
)

// words lays terms out left to right in rows, most frequent first, with a
// font size proportional to the term count. Terms that do not fit on the
// canvas are left out.
func (r *Renderer) words(sec *model.Section, w io.Writer) error {
	cv, err := r.canvas()
	if err != nil {
		return err
	}
	r.title(cv, sec.ChartTitle)

	lo, hi := sec.Terms[0].Count, sec.Terms[0].Count
	for _, t := range sec.Terms {
		lo = min(lo, t.Count)
		hi = max(hi, t.Count)
	}

	const margin, gap = 30, 18
	x, y := margin, 70
	rowHeight := 0
	for i, t := range sec.Terms {
		size := WordSize(t.Count, lo, hi)
		style := r.textStyle(size)
		style.FontColor = color(sec, i)
		box := gochart.Draw.MeasureText(cv, t.Term, style)

		if x > margin && x+box.Width() > r.width-margin {
			x = margin
			y += rowHeight + gap
			rowHeight = 0
		}
		if y+box.Height() > r.height-margin {
			break
		}
		gochart.Draw.Text(cv, t.Term, x, y+box.Height(), style)
		x += box.Width() + gap
		rowHeight = max(rowHeight, box.Height())
	}

	return cv.Save(w)
}

// WordSize scales count linearly between the smallest and largest font
// size. When every term has the same count all terms get the largest size.
func WordSize(count, lo, hi int) float64 {
	if hi <= lo {
		return maxWordSize
	}
	return minWordSize + (maxWordSize-minWordSize)*float64(count-lo)/float64(hi-lo)
}
