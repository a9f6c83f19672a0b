package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"
	"github.com/nao1215/storeeda/internal/model"
	"github.com/nao1215/storeeda/internal/narrative"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/message"
)

//go:embed templates/report.html.tmpl
var reportTemplate string

var pageTemplate = template.Must(template.New("report").Parse(reportTemplate))

// Default echarts canvas size.
const (
	DefaultCanvasWidth  = "960px"
	DefaultCanvasHeight = "520px"
)

// HTMLWriter outputs a single HTML page with one interactive echarts chart
// per section. Intro and caption text is treated as Markdown.
type HTMLWriter struct {
	baseWriter

	width      string
	height     string
	assetsHost string
	markdown   goldmark.Markdown
}

// HTMLWriterOption configures an HTMLWriter.
type HTMLWriterOption func(*HTMLWriter)

// WithCanvasSize sets the CSS size of every chart canvas, e.g. "100%" and
// "480px". Empty values keep the default.
func WithCanvasSize(width, height string) HTMLWriterOption {
	return func(w *HTMLWriter) {
		if width != "" {
			w.width = width
		}
		if height != "" {
			w.height = height
		}
	}
}

// WithAssetsHost sets the URL prefix the echarts scripts are loaded from.
func WithAssetsHost(host string) HTMLWriterOption {
	return func(w *HTMLWriter) {
		w.assetsHost = host
	}
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer, opts ...HTMLWriterOption) *HTMLWriter {
	w := &HTMLWriter{
		baseWriter: newBaseWriter(output),
		width:      DefaultCanvasWidth,
		height:     DefaultCanvasHeight,
		markdown:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type htmlField struct {
	Name  string
	Value string
}

type htmlTable struct {
	Header []string
	Rows   [][]string
}

type htmlSection struct {
	ID      string
	Heading string
	Intro   template.HTML
	Caption template.HTML
	Skipped bool
	Note    string
	Dropped string
	Element template.HTML
	Script  template.HTML
	Tables  []htmlTable
}

type htmlPage struct {
	Title       string
	Authors     []string
	Description string
	Info        []htmlField
	Warnings    []string
	Sections    []htmlSection
	Scripts     []string
}

// echart is what every go-echarts chart type offers.
type echart interface {
	RenderSnippet() render.ChartSnippet
	GetAssets() opts.Assets
}

// Write outputs the report as HTML.
func (w *HTMLWriter) Write(report *model.Report) (int, error) {
	p := newPrinter()
	page := htmlPage{
		Title:       orDefault(report.Title, narrative.Title),
		Authors:     report.Authors,
		Description: report.Description,
		Info: []htmlField{
			{"Dataset", report.Source},
			{"Records", p.Sprintf("%d", report.RecordCount)},
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Spend by gender", report.SpendMode.String()},
			{"Status", status(report)},
		},
	}
	if report.Fingerprint != "" {
		page.Info = append(page.Info, htmlField{"Fingerprint", report.Fingerprint})
	}
	for _, warn := range report.Warnings {
		page.Warnings = append(page.Warnings, warn.Error())
	}

	seen := make(map[string]bool)
	for i := range report.Sections {
		sec := &report.Sections[i]
		hs, err := w.section(report, sec, i, p)
		if err != nil {
			return 0, err
		}
		if !sec.Skipped && sec.HasData() {
			c := w.chart(sec, i)
			snippet := c.RenderSnippet()
			hs.Element = template.HTML(snippet.Element) //nolint:gosec // generated by go-echarts
			hs.Script = template.HTML(snippet.Script)   //nolint:gosec // generated by go-echarts
			for _, src := range c.GetAssets().JSAssets.Values {
				if !seen[src] {
					seen[src] = true
					page.Scripts = append(page.Scripts, src)
				}
			}
		}
		page.Sections = append(page.Sections, hs)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		return 0, fmt.Errorf("failed to render HTML report: %w", err)
	}
	return w.output.Write(buf.Bytes())
}

// section builds everything of a section except its chart.
func (w *HTMLWriter) section(report *model.Report, sec *model.Section, i int, p *message.Printer) (htmlSection, error) {
	hs := htmlSection{
		ID:      fmt.Sprintf("section-%02d-%s", i+1, sec.Step),
		Heading: orDefault(sec.Heading, sec.Step),
		Skipped: sec.Skipped,
		Note:    orDefault(sec.Note, narrative.NoDataNote),
		Dropped: droppedNote(sec, p),
	}

	var err error
	if hs.Intro, err = w.toHTML(sec.Intro); err != nil {
		return hs, err
	}
	if hs.Caption, err = w.toHTML(sec.Caption); err != nil {
		return hs, err
	}

	switch {
	case sec.Skipped:
	case sec.Chart == model.ChartTable:
		if report.Overview != nil {
			cols := columnsTable(report.Overview, p)
			hs.Tables = append(hs.Tables, htmlTable{Header: cols.header, Rows: cols.rows})
			if len(report.Overview.Statistics) > 0 {
				desc := describeTable(report.Overview, p)
				hs.Tables = append(hs.Tables, htmlTable{Header: desc.header, Rows: desc.rows})
			}
		}
	default:
		t := sectionTable(sec, p)
		hs.Tables = append(hs.Tables, htmlTable{Header: t.header, Rows: t.rows})
	}
	return hs, nil
}

// toHTML converts authored Markdown text.
func (w *HTMLWriter) toHTML(src string) (template.HTML, error) {
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := w.markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // goldmark escapes raw HTML by default
}

// chart builds a fresh echarts chart for a section that has data.
// Violin sections are drawn as box plots.
func (w *HTMLWriter) chart(sec *model.Section, i int) echart {
	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			ChartID:    fmt.Sprintf("chart_%02d", i+1),
			Width:      w.width,
			Height:     w.height,
			AssetsHost: w.assetsHost,
		}),
		charts.WithTitleOpts(opts.Title{Title: sec.ChartTitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
	if len(sec.Colors) > 0 {
		global = append(global, charts.WithColorsOpts(opts.Colors(sec.Colors)))
	}
	axes := []charts.GlobalOpts{
		charts.WithXAxisOpts(opts.XAxis{Name: sec.XLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: sec.YLabel}),
	}
	name := orDefault(sec.YLabel, orDefault(sec.ChartTitle, sec.Step))

	switch sec.Chart {
	case model.ChartLine:
		c := charts.NewLine()
		c.SetGlobalOptions(append(global, axes...)...)
		data := make([]opts.LineData, 0, len(sec.Rows))
		for _, row := range sec.Rows {
			data = append(data, opts.LineData{Name: row.Label, Value: row.Value.InexactFloat64()})
		}
		c.SetXAxis(labels(sec.Rows)).AddSeries(name, data)
		return c
	case model.ChartRadar:
		c := charts.NewRadar()
		top := 0.0
		for _, row := range sec.Rows {
			top = math.Max(top, row.Value.InexactFloat64())
		}
		indicators := make([]*opts.Indicator, 0, len(sec.Rows))
		values := make([]float64, 0, len(sec.Rows))
		for _, row := range sec.Rows {
			indicators = append(indicators, &opts.Indicator{Name: row.Label, Max: float32(top * 1.1)})
			values = append(values, row.Value.InexactFloat64())
		}
		c.SetGlobalOptions(append(global, charts.WithRadarComponentOpts(opts.RadarComponent{
			Indicator: indicators,
			Shape:     "polygon",
		}))...)
		c.AddSeries(name, []opts.RadarData{{Name: name, Value: values}},
			charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.4)}))
		return c
	case model.ChartPie:
		c := charts.NewPie()
		c.SetGlobalOptions(global...)
		data := make([]opts.PieData, 0, len(sec.Rows))
		for _, row := range sec.Rows {
			data = append(data, opts.PieData{Name: row.Label, Value: row.Value.InexactFloat64()})
		}
		c.AddSeries(name, data, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}))
		return c
	case model.ChartWordFrequency:
		c := charts.NewWordCloud()
		c.SetGlobalOptions(global...)
		data := make([]opts.WordCloudData, 0, len(sec.Terms))
		for _, t := range sec.Terms {
			data = append(data, opts.WordCloudData{Name: t.Term, Value: t.Count})
		}
		c.AddSeries(name, data, charts.WithWorldCloudChartOpts(opts.WordCloudChart{
			Shape:     "circle",
			SizeRange: []float32{14, 60},
		}))
		return c
	case model.ChartViolin:
		c := charts.NewBoxPlot()
		c.SetGlobalOptions(append(global, axes...)...)
		keys := make([]string, 0, len(sec.Distributions))
		data := make([]opts.BoxPlotData, 0, len(sec.Distributions))
		for _, d := range sec.Distributions {
			s := d.Summary
			keys = append(keys, d.Key)
			data = append(data, opts.BoxPlotData{Name: d.Key, Value: []float64{s.Min, s.Q1, s.Median, s.Q3, s.Max}})
		}
		c.SetXAxis(keys).AddSeries(name, data)
		return c
	default:
		c := charts.NewBar()
		c.SetGlobalOptions(append(global, axes...)...)
		data := make([]opts.BarData, 0, len(sec.Rows))
		for j, row := range sec.Rows {
			bar := opts.BarData{Name: row.Label, Value: row.Value.InexactFloat64()}
			if len(sec.Colors) > 0 {
				bar.ItemStyle = &opts.ItemStyle{Color: sec.Colors[j%len(sec.Colors)]}
			}
			data = append(data, bar)
		}
		c.SetXAxis(labels(sec.Rows)).AddSeries(name, data,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
		return c
	}
}

func labels(rows []model.AggregateRow) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Label)
	}
	return out
}
