package report

import (
	"io"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/storeeda/internal/model"
	"github.com/nao1215/storeeda/internal/narrative"
	"golang.org/x/text/message"
)

// MarkdownWriter outputs reports as GitHub-flavored Markdown.
// Pie sections become mermaid pie charts, every other section a table.
// Chart artifacts are linked as images.
type MarkdownWriter struct {
	baseWriter

	// chartPrefix is prepended to artifact names in image links.
	chartPrefix string
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithChartPrefix sets the path, relative to the Markdown file, under which
// chart artifacts are linked.
func WithChartPrefix(prefix string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.chartPrefix = prefix
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)
	p := newPrinter()

	w.writeHeader(md, report, p)
	w.writeWarnings(md, report)
	for i := range report.Sections {
		w.writeSection(md, report, &report.Sections[i], p)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title page and the run summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report, p *message.Printer) {
	md.H1(orDefault(report.Title, narrative.Title))
	md.PlainText("")

	if len(report.Authors) > 0 {
		md.PlainText(markdown.Bold(report.Authors[0]))
		md.PlainText("")
		if len(report.Authors) > 1 {
			md.BulletList(report.Authors[1:]...)
			md.PlainText("")
		}
	}
	if report.Description != "" {
		md.PlainText(report.Description)
		md.PlainText("")
	}

	rows := [][]string{
		{"Dataset", "`" + report.Source + "`"},
		{"Records", p.Sprintf("%d", report.RecordCount)},
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		{"Spend by gender", report.SpendMode.String()},
		{"Status", status(report)},
	}
	if report.Fingerprint != "" {
		rows = append(rows, []string{"Fingerprint", "`" + report.Fingerprint + "`"})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeWarnings lists the steps that had nothing to plot.
func (w *MarkdownWriter) writeWarnings(md *markdown.Markdown, report *model.Report) {
	if len(report.Warnings) == 0 {
		return
	}
	lines := make([]string, 0, len(report.Warnings))
	for _, warn := range report.Warnings {
		lines = append(lines, warn.Error())
	}
	md.Warning(strings.Join(lines, "  \n> "))
	md.PlainText("")
}

func (w *MarkdownWriter) writeSection(md *markdown.Markdown, report *model.Report, sec *model.Section, p *message.Printer) {
	md.H2(orDefault(sec.Heading, sec.Step))
	md.PlainText("")
	if sec.Intro != "" {
		md.PlainText(sec.Intro)
		md.PlainText("")
	}

	if sec.Skipped {
		md.Note(orDefault(sec.Note, narrative.NoDataNote))
		md.PlainText("")
		return
	}

	switch sec.Chart {
	case model.ChartTable:
		w.writeOverview(md, report.Overview, p)
	case model.ChartPie:
		w.writePieChart(md, sec)
	default:
		t := sectionTable(sec, p)
		md.Table(markdown.TableSet{Header: t.header, Rows: t.rows})
		md.PlainText("")
	}

	if note := droppedNote(sec, p); note != "" {
		md.PlainText(markdown.Italic(note))
		md.PlainText("")
	}
	for _, name := range sec.Artifacts {
		md.PlainText(markdown.Image(orDefault(sec.ChartTitle, sec.Heading), artifactURL(w.chartPrefix, name)))
		md.PlainText("")
	}
	if sec.Caption != "" {
		md.PlainText(sec.Caption)
		md.PlainText("")
	}
}

// writeOverview writes the column summary and the descriptive statistics.
func (w *MarkdownWriter) writeOverview(md *markdown.Markdown, ov *model.Overview, p *message.Printer) {
	if ov == nil {
		return
	}
	cols := columnsTable(ov, p)
	md.Table(markdown.TableSet{Header: cols.header, Rows: cols.rows})
	md.PlainText("")

	if len(ov.Statistics) == 0 {
		return
	}
	md.H3("Descriptive statistics")
	md.PlainText("")
	desc := describeTable(ov, p)
	md.Table(markdown.TableSet{Header: desc.header, Rows: desc.rows})
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart for a share section.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, sec *model.Section) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle(orDefault(sec.ChartTitle, sec.Heading)),
		piechart.WithShowData(true),
	)

	for _, row := range sec.Rows {
		if row.Value.IsInteger() && !row.Value.IsNegative() {
			chart.LabelAndIntValue(row.Label, uint64(row.Value.IntPart()))
			continue
		}
		chart.LabelAndFloatValue(row.Label, row.Value.InexactFloat64())
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by [storeeda](https://github.com/nao1215/storeeda)*")
}
