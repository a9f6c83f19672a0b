package chart

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/nao1215/storeeda/internal/model"
)

func TestArtifactName(t *testing.T) {
	t.Parallel()

	if got := ArtifactName(0, model.StepAgeQuantity, FormatPNG); got != "01-age-quantity.png" {
		t.Errorf("unexpected name %q", got)
	}
	if got := ArtifactName(10, model.StepPaymentMethods, FormatSVG); got != "11-payment-methods.svg" {
		t.Errorf("unexpected name %q", got)
	}
}

func TestArtifactWriterWriteAll(t *testing.T) {
	t.Parallel()

	t.Run("writes one file per chart section", func(t *testing.T) {
		t.Parallel()

		report := model.NewReport("sales.csv")
		report.AddSection(model.Section{Step: model.StepOverview, Chart: model.ChartTable})
		for _, sec := range sections() {
			report.AddSection(sec)
		}
		report.AddSection(model.Section{
			Step:    model.StepShippingSales,
			Chart:   model.ChartRadar,
			Skipped: true,
			Note:    "No data available to plot.",
		})

		r, err := NewRenderer(WithSize(480, 320))
		if err != nil {
			t.Fatal(err)
		}
		dir := filepath.Join(t.TempDir(), "charts")
		if err := NewArtifactWriter(r, WithArtifactConcurrency(2)).WriteAll(context.Background(), report, dir); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(report.Sections[0].Artifacts) != 0 {
			t.Error("table section should have no artifact")
		}
		last := report.Sections[len(report.Sections)-1]
		if len(last.Artifacts) != 0 {
			t.Error("skipped section should have no artifact")
		}

		artifacts := report.Artifacts()
		if len(artifacts) != len(sections()) {
			t.Fatalf("expected %d artifacts, got %d: %v", len(sections()), len(artifacts), artifacts)
		}
		if report.Sections[1].Artifacts[0] != "02-product-sales.png" {
			t.Errorf("unexpected artifact name %q", report.Sections[1].Artifacts[0])
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != len(artifacts) {
			t.Errorf("expected %d files, got %d", len(artifacts), len(entries))
		}
		if runtime.GOOS != "windows" {
			for _, name := range artifacts {
				info, err := os.Stat(filepath.Join(dir, name))
				if err != nil {
					t.Fatal(err)
				}
				if perm := info.Mode().Perm(); perm != 0o600 {
					t.Errorf("%s: expected mode 0600, got %o", name, perm)
				}
			}
		}
	})

	t.Run("stops when cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		report := model.NewReport("sales.csv")
		for _, sec := range sections() {
			report.AddSection(sec)
		}

		r, err := NewRenderer()
		if err != nil {
			t.Fatal(err)
		}
		err = NewArtifactWriter(r).WriteAll(ctx, report, t.TempDir())
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(report.Artifacts()) != 0 {
			t.Error("expected no artifacts after cancellation")
		}
	})
}
