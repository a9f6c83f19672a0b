package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/storeeda/internal/model"
	"golang.org/x/text/message"
)

// rulerWidth is the width of the "=" and "-" rulers.
const rulerWidth = 70

// SimpleWriter outputs a plain-text report for terminals and log files.
// Section data is printed as aligned columns. Numbers use thousands
// separators.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether skipped sections are shown.
	showEmpty bool

	// verbose adds each section's intro and caption.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show skipped sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables the authored intro and caption of every section.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder
	p := newPrinter()

	w.writeHeader(&sb, report, p)
	w.writeWarnings(&sb, report)
	for i := range report.Sections {
		w.writeSection(&sb, report, &report.Sections[i], p)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

func ruler(sb *strings.Builder, c string) {
	sb.WriteString(strings.Repeat(c, rulerWidth))
	sb.WriteString("\n")
}

// writeHeader writes the report title and run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.Report, p *message.Printer) {
	sb.WriteString("\n")
	ruler(sb, "=")
	sb.WriteString(centered(strings.ToUpper(orDefault(report.Title, "Sales Report"))))
	ruler(sb, "=")
	sb.WriteString("\n")

	if len(report.Authors) > 0 {
		sb.WriteString(fmt.Sprintf("Authors:        %s\n", strings.Join(report.Authors, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Dataset:        %s\n", report.Source))
	sb.WriteString(p.Sprintf("Records:        %d\n", report.RecordCount))
	sb.WriteString(fmt.Sprintf("Generated:      %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Spend mode:     %s\n", report.SpendMode))
	sb.WriteString(fmt.Sprintf("Status:         %s\n", status(report)))
	sb.WriteString("\n")
}

// centered pads s so it sits in the middle of a ruler line.
func centered(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= rulerWidth {
		return s + "\n"
	}
	return strings.Repeat(" ", (rulerWidth-n)/2) + s + "\n"
}

// writeWarnings lists the steps that had nothing to plot.
func (w *SimpleWriter) writeWarnings(sb *strings.Builder, report *model.Report) {
	if len(report.Warnings) == 0 {
		return
	}
	ruler(sb, "-")
	sb.WriteString("WARNINGS\n")
	ruler(sb, "-")
	sb.WriteString("\n")
	for _, warn := range report.Warnings {
		sb.WriteString(fmt.Sprintf("  [!] %s\n", warn.Error()))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSection(sb *strings.Builder, report *model.Report, sec *model.Section, p *message.Printer) {
	if sec.Skipped && !w.showEmpty {
		return
	}

	ruler(sb, "-")
	sb.WriteString(strings.ToUpper(orDefault(sec.Heading, sec.Step)))
	sb.WriteString("\n")
	ruler(sb, "-")
	sb.WriteString("\n")

	if w.verbose && sec.Intro != "" {
		sb.WriteString(sec.Intro)
		sb.WriteString("\n\n")
	}

	if sec.Skipped {
		sb.WriteString("  " + sec.Note + "\n\n")
		return
	}

	if sec.Chart == model.ChartTable {
		if report.Overview != nil {
			writeColumns(sb, columnsTable(report.Overview, p))
			if len(report.Overview.Statistics) > 0 {
				writeColumns(sb, describeTable(report.Overview, p))
			}
		}
	} else {
		if sec.ChartTitle != "" {
			sb.WriteString("  " + sec.ChartTitle + "\n\n")
		}
		writeColumns(sb, sectionTable(sec, p))
	}

	if note := droppedNote(sec, p); note != "" {
		sb.WriteString("  " + note + "\n\n")
	}
	for _, name := range sec.Artifacts {
		sb.WriteString(fmt.Sprintf("  Chart: %s\n", name))
	}
	if len(sec.Artifacts) > 0 {
		sb.WriteString("\n")
	}
	if w.verbose && sec.Caption != "" {
		sb.WriteString(sec.Caption)
		sb.WriteString("\n\n")
	}
}

// writeColumns prints t with every column padded to its widest cell.
// The first column is left-aligned and the rest right-aligned.
func writeColumns(sb *strings.Builder, t table) {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}

	line := func(cells []string) {
		sb.WriteString(" ")
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			pad := strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell))
			if i == 0 {
				sb.WriteString(" " + cell + pad)
			} else {
				sb.WriteString("  " + pad + cell)
			}
		}
		sb.WriteString("\n")
	}

	line(t.header)
	total := 0
	for _, wd := range widths {
		total += wd + 2
	}
	sb.WriteString("  " + strings.Repeat("-", total-1) + "\n")
	for _, row := range t.rows {
		line(row)
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	ruler(sb, "=")
	sb.WriteString("Report generated by storeeda\n")
	sb.WriteString("https://github.com/nao1215/storeeda\n")
	ruler(sb, "=")
}
