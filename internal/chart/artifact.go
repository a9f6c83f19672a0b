package chart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/storeeda/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultArtifactConcurrency is the number of charts rendered at once.
const DefaultArtifactConcurrency = 4

// ArtifactWriter renders every chart section of a report to files.
type ArtifactWriter struct {
	renderer    *Renderer
	concurrency int
	logger      *slog.Logger
}

// ArtifactOption configures an ArtifactWriter.
type ArtifactOption func(*ArtifactWriter)

// WithArtifactConcurrency sets how many charts are rendered at once.
func WithArtifactConcurrency(n int) ArtifactOption {
	return func(a *ArtifactWriter) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithArtifactLogger sets a custom logger.
func WithArtifactLogger(logger *slog.Logger) ArtifactOption {
	return func(a *ArtifactWriter) {
		a.logger = logger
	}
}

// NewArtifactWriter creates an ArtifactWriter drawing with renderer.
func NewArtifactWriter(renderer *Renderer, opts ...ArtifactOption) *ArtifactWriter {
	a := &ArtifactWriter{
		renderer:    renderer,
		concurrency: DefaultArtifactConcurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// ArtifactName returns the file name of the chart for the section at
// index: "<NN>-<step>.<ext>", with NN counted from 01.
func ArtifactName(index int, step string, format Format) string {
	return fmt.Sprintf("%02d-%s.%s", index+1, step, format.Ext())
}

// WriteAll renders every section that has data into dir and records the
// file names in each section's Artifacts. Skipped sections and tables get
// no file. Sections are rendered concurrently; each goroutine only touches
// its own section.
func (a *ArtifactWriter) WriteAll(ctx context.Context, report *model.Report, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for _, i := range report.ChartSections() {
		sec := &report.Sections[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := a.renderer.Render(sec)
			if errors.Is(err, ErrNoData) {
				return nil
			}
			if err != nil {
				return err
			}

			name := ArtifactName(i, sec.Step, a.renderer.Format())
			if err := os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
				return fmt.Errorf("failed to write chart %s: %w", name, err)
			}
			sec.Artifacts = append(sec.Artifacts, name)

			a.logger.Debug("chart written",
				"step", sec.Step,
				"file", name,
				"bytes", len(data),
			)
			return nil
		})
	}

	return g.Wait()
}
