package chart

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/nao1215/storeeda/internal/model"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Format is the image format of a chart artifact.
type Format string

const (
	// FormatPNG writes raster images.
	FormatPNG Format = "png"
	// FormatSVG writes vector images.
	FormatSVG Format = "svg"
)

// Default image size in pixels.
const (
	DefaultWidth  = 1024
	DefaultHeight = 640
)

// ParseFormat parses "png" or "svg", ignoring case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPNG, "":
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	if f == FormatSVG {
		return "svg"
	}
	return "png"
}

// Renderer turns report sections into images.
type Renderer struct {
	width  int
	height int
	format Format
	font   *truetype.Font
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize sets the image size in pixels. Non-positive values are ignored.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// WithFormat sets the image format.
func WithFormat(format Format) Option {
	return func(r *Renderer) {
		r.format = format
	}
}

// NewRenderer creates a Renderer. The chart font is loaded once here.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		width:  DefaultWidth,
		height: DefaultHeight,
		format: FormatPNG,
	}
	for _, opt := range opts {
		opt(r)
	}

	font, err := gochart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load chart font: %w", err)
	}
	r.font = font
	return r, nil
}

// Format returns the image format the renderer writes.
func (r *Renderer) Format() Format {
	return r.format
}

// Render draws one section and returns the encoded image.
func (r *Renderer) Render(sec *model.Section) ([]byte, error) {
	if sec.Chart == model.ChartTable {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, sec.Chart)
	}
	if !sec.HasData() {
		return nil, fmt.Errorf("%s: %w", sec.Step, ErrNoData)
	}

	var (
		buf bytes.Buffer
		err error
	)
	switch sec.Chart {
	case model.ChartBar:
		err = r.bar(sec, &buf)
	case model.ChartLine:
		err = r.line(sec, &buf)
	case model.ChartPie:
		err = r.pie(sec, &buf)
	case model.ChartRadar:
		err = r.radar(sec, &buf)
	case model.ChartWordFrequency:
		err = r.words(sec, &buf)
	case model.ChartViolin:
		err = r.violin(sec, &buf)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, sec.Chart)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render %s chart: %w", sec.Step, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) provider() gochart.RendererProvider {
	if r.format == FormatSVG {
		return gochart.SVG
	}
	return gochart.PNG
}

// canvas returns a blank white drawing surface.
func (r *Renderer) canvas() (gochart.Renderer, error) {
	cv, err := r.provider()(r.width, r.height)
	if err != nil {
		return nil, err
	}
	gochart.Draw.Box(cv, gochart.Box{Right: r.width, Bottom: r.height}, gochart.Style{
		FillColor:   drawing.ColorWhite,
		StrokeColor: drawing.ColorWhite,
		StrokeWidth: 1,
	})
	return cv, nil
}

// textStyle returns a black text style of the given size.
func (r *Renderer) textStyle(size float64) gochart.Style {
	return gochart.Style{
		Font:      r.font,
		FontSize:  size,
		FontColor: drawing.ColorBlack,
	}
}

// title draws a centered title at the top of the canvas.
func (r *Renderer) title(cv gochart.Renderer, text string) {
	if text == "" {
		return
	}
	style := r.textStyle(14)
	box := gochart.Draw.MeasureText(cv, text, style)
	x := (r.width - box.Width()) / 2
	if x < 0 {
		x = 0
	}
	gochart.Draw.Text(cv, text, x, 30, style)
}

// color returns the i-th section colour, cycling through the section's
// colours and falling back to go-chart's defaults.
func color(sec *model.Section, i int) drawing.Color {
	var valid []drawing.Color
	for _, hex := range sec.Colors {
		if c, ok := parseHex(hex); ok {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		valid = gochart.DefaultColors
	}
	return valid[i%len(valid)]
}

func parseHex(s string) (drawing.Color, bool) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 3 && len(hex) != 6 {
		return drawing.Color{}, false
	}
	for _, c := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return drawing.Color{}, false
		}
	}
	return drawing.ColorFromHex(hex), true
}

// printer formats numbers with thousands separators.
func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

// amount formats v with two decimals and thousands separators.
func amount(p *message.Printer, v float64) string {
	return p.Sprintf("%.2f", v)
}
