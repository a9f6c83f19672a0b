package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/storeeda/internal/model"
	"github.com/nao1215/storeeda/internal/narrative"
)

// TestNewConfig verifies the defaults so changes to them are intentional.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("chart defaults", func(t *testing.T) {
		t.Parallel()
		if cfg.ChartFormat != "png" || cfg.ChartWidth != 1024 || cfg.ChartHeight != 640 {
			t.Errorf("unexpected chart defaults: %s %dx%d", cfg.ChartFormat, cfg.ChartWidth, cfg.ChartHeight)
		}
		if cfg.ChartDir != "" {
			t.Errorf("expected charts to be off by default, got %q", cfg.ChartDir)
		}
	})

	t.Run("spend mode is total", func(t *testing.T) {
		t.Parallel()
		if cfg.Spend() != model.SpendTotal {
			t.Errorf("expected total, got %s", cfg.Spend())
		}
	})

	t.Run("batch size and history", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 4 {
			t.Errorf("expected BatchSize 4, got %d", cfg.BatchSize)
		}
		if !cfg.SaveToDB || cfg.DBDir != XDGDataDir() {
			t.Error("expected history in the XDG data directory")
		}
	})

	t.Run("default dataset", func(t *testing.T) {
		t.Parallel()
		if got := cfg.Datasets(); len(got) != 1 || got[0] != DefaultDataset {
			t.Errorf("unexpected datasets %v", got)
		}
	})

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

// TestConfigValidate tests one validation rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"blank dataset", func(c *Config) { c.DatasetPaths = []string{" "} }, ErrNoDataset},
		{"json and markdown", func(c *Config) { c.JSONReport, c.MarkdownReport = true, true }, ErrConflictingReportFormats},
		{"html and terminal", func(c *Config) { c.HTMLReport, c.TerminalReport = true, true }, ErrConflictingReportFormats},
		{"one format", func(c *Config) { c.HTMLReport = true }, nil},
		{"spend mode", func(c *Config) { c.SpendMode = "median" }, ErrInvalidSpendMode},
		{"count mode", func(c *Config) { c.SpendMode = "COUNT" }, nil},
		{"zero width", func(c *Config) { c.ChartWidth = 0 }, ErrInvalidChartSize},
		{"negative height", func(c *Config) { c.ChartHeight = -1 }, ErrInvalidChartSize},
		{"chart format", func(c *Config) { c.ChartFormat = "gif" }, ErrInvalidChartFormat},
		{"svg", func(c *Config) { c.ChartFormat = "SVG" }, nil},
		{"batch size", func(c *Config) { c.BatchSize = 0 }, ErrInvalidBatchSize},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, ErrInvalidLogFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestApplyFile(t *testing.T) {
	t.Parallel()

	file := &File{
		Dataset: "from-file.csv",
		Report:  ReportSettings{SpendByGender: "count"},
		Charts:  ChartSettings{Dir: "out", Format: "svg", Width: 800, Height: 600},
	}

	t.Run("file fills unset values", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(file, nil)
		if cfg.File != file {
			t.Error("expected the file to be kept")
		}
		if diff := cmp.Diff([]string{"from-file.csv"}, cfg.DatasetPaths); diff != "" {
			t.Errorf("datasets mismatch (-want +got):\n%s", diff)
		}
		if cfg.ChartDir != "out" || cfg.ChartFormat != "svg" || cfg.ChartWidth != 800 || cfg.ChartHeight != 600 {
			t.Errorf("unexpected chart settings %+v", cfg)
		}
		if cfg.Spend() != model.SpendCount {
			t.Errorf("expected count, got %s", cfg.SpendMode)
		}
	})

	t.Run("explicit flags win", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.DatasetPaths = []string{"arg.csv"}
		cfg.ChartFormat = "png"
		cfg.ApplyFile(file, func(flag string) bool { return flag == "chart-format" || flag == "spend-mode" })
		if cfg.DatasetPaths[0] != "arg.csv" {
			t.Error("positional dataset should win")
		}
		if cfg.ChartFormat != "png" {
			t.Error("explicit chart format should win")
		}
		if cfg.Spend() != model.SpendTotal {
			t.Error("explicit spend mode should win")
		}
		if cfg.ChartDir != "out" {
			t.Error("unset flags still come from the file")
		}
	})

	t.Run("nil file", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(nil, nil)
		if cfg.File != nil || cfg.ChartDir != "" {
			t.Error("nil file should change nothing")
		}
	})
}

func TestFileSectionText(t *testing.T) {
	t.Parallel()

	builtin := narrative.For(model.StepProductSales)
	file := &File{
		Defaults: narrative.Text{Caption: "Default caption."},
		Sections: map[string]narrative.Text{
			model.StepProductSales: {Heading: "Products", Colors: []string{"#000000"}},
		},
	}

	t.Run("section over defaults over builtin", func(t *testing.T) {
		t.Parallel()

		got := file.SectionText(model.StepProductSales, builtin)
		want := builtin
		want.Heading = "Products"
		want.Caption = "Default caption."
		want.Colors = []string{"#000000"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("text mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("defaults reach other sections", func(t *testing.T) {
		t.Parallel()

		got := file.Narrative()
		if len(got) != len(model.Steps) {
			t.Fatalf("expected %d sections, got %d", len(model.Steps), len(got))
		}
		if got[model.StepRatings].Caption != "Default caption." {
			t.Error("expected the default caption on ratings")
		}
		if got[model.StepRatings].Heading != narrative.For(model.StepRatings).Heading {
			t.Error("heading should stay built in")
		}
	})

	t.Run("nil file keeps builtin", func(t *testing.T) {
		t.Parallel()

		var nilFile *File
		if diff := cmp.Diff(builtin, nilFile.SectionText(model.StepProductSales, builtin)); diff != "" {
			t.Errorf("text mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestFileApplyTo(t *testing.T) {
	t.Parallel()

	r := model.NewReport("sales.csv")
	r.Title = narrative.Title
	r.Description = narrative.Description

	file := &File{Report: ReportSettings{Title: "Q3 Sales", Authors: []string{"Analytics"}}}
	file.ApplyTo(r)
	if r.Title != "Q3 Sales" {
		t.Errorf("unexpected title %q", r.Title)
	}
	if diff := cmp.Diff([]string{"Analytics"}, r.Authors); diff != "" {
		t.Errorf("authors mismatch (-want +got):\n%s", diff)
	}
	if r.Description != narrative.Description {
		t.Error("unset description should be kept")
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("loads every setting", func(t *testing.T) {
		t.Parallel()

		path := write(t, `
dataset: sales.csv
report:
  title: Store Report
  authors: [A, B]
  spendByGender: count
charts:
  dir: out
  format: svg
  width: 800
  height: 500
defaults:
  caption: shared
sections:
  ratings:
    heading: Ratings
    colors: ["#ffffff"]
`)
		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := &File{
			Dataset:  "sales.csv",
			Report:   ReportSettings{Title: "Store Report", Authors: []string{"A", "B"}, SpendByGender: "count"},
			Charts:   ChartSettings{Dir: "out", Format: "svg", Width: 800, Height: 500},
			Defaults: narrative.Text{Caption: "shared"},
			Sections: map[string]narrative.Text{
				model.StepRatings: {Heading: "Ratings", Colors: []string{"#ffffff"}},
			},
		}
		if diff := cmp.Diff(want, cf); diff != "" {
			t.Errorf("file mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()

		cf, err := LoadConfigFile(write(t, ""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Dataset != "" || len(cf.Sections) != 0 {
			t.Errorf("expected an empty file, got %+v", cf)
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfigFile(write(t, "chart:\n  dir: x\n")); err == nil {
			t.Error("expected an error for an unknown key")
		}
	})

	t.Run("unknown section", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(write(t, "sections:\n  revenue:\n    heading: x\n"))
		if !errors.Is(err, ErrUnknownSection) {
			t.Errorf("expected ErrUnknownSection, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfigFile(write(t, "dataset: [unclosed\n")); err == nil {
			t.Error("expected a parse error")
		}
	})

	t.Run("embedded template is valid", func(t *testing.T) {
		t.Parallel()

		cf, err := LoadConfigFile(write(t, string(Template)))
		if err != nil {
			t.Fatalf("template does not load: %v", err)
		}
		if cf.Dataset != DefaultDataset {
			t.Errorf("unexpected template dataset %q", cf.Dataset)
		}
		cfg := NewConfig()
		cfg.ApplyFile(cf, nil)
		if err := cfg.Validate(); err != nil {
			t.Errorf("template settings are invalid: %v", err)
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("dataset: x.csv\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit path that does not exist", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}

func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{
		"data":   XDGDataDir(),
		"config": XDGConfigDir(),
		"cache":  XDGCacheDir(),
	} {
		if !strings.HasSuffix(dir, AppName) {
			t.Errorf("%s dir %q should end with %q", name, dir, AppName)
		}
	}
}
