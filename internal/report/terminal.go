package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/nao1215/storeeda/internal/model"
	"golang.org/x/term"
)

// DefaultWordWrap is the column at which terminal output is wrapped.
const DefaultWordWrap = 100

// TerminalWriter renders the Markdown report with glamour for display in a
// terminal.
type TerminalWriter struct {
	baseWriter

	style    string
	wordWrap int
	mdOpts   []MarkdownWriterOption
}

// TerminalWriterOption configures a TerminalWriter.
type TerminalWriterOption func(*TerminalWriter)

// WithStyle selects a glamour standard style such as "dark", "light" or
// "notty".
func WithStyle(style string) TerminalWriterOption {
	return func(w *TerminalWriter) {
		if style != "" {
			w.style = style
		}
	}
}

// WithWordWrap sets the wrap column. Values below one keep the default.
func WithWordWrap(width int) TerminalWriterOption {
	return func(w *TerminalWriter) {
		if width > 0 {
			w.wordWrap = width
		}
	}
}

// WithMarkdownOptions passes options to the underlying MarkdownWriter.
func WithMarkdownOptions(opts ...MarkdownWriterOption) TerminalWriterOption {
	return func(w *TerminalWriter) {
		w.mdOpts = append(w.mdOpts, opts...)
	}
}

// NewTerminalWriter creates a TerminalWriter. The style defaults to "dark"
// when output is a terminal and to "notty" otherwise.
func NewTerminalWriter(output io.Writer, opts ...TerminalWriterOption) *TerminalWriter {
	w := &TerminalWriter{
		baseWriter: newBaseWriter(output),
		style:      defaultStyle(output),
		wordWrap:   DefaultWordWrap,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func defaultStyle(output io.Writer) string {
	if f, ok := output.(interface{ Fd() uintptr }); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
		return styles.DarkStyle
	}
	return styles.NoTTYStyle
}

// Write renders the report and outputs it.
func (w *TerminalWriter) Write(report *model.Report) (int, error) {
	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf, w.mdOpts...).Write(report); err != nil {
		return 0, err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(w.style),
		glamour.WithWordWrap(w.wordWrap),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	out, err := r.Render(buf.String())
	if err != nil {
		return 0, fmt.Errorf("failed to render report for the terminal: %w", err)
	}
	return w.output.Write([]byte(out))
}
