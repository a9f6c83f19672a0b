package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/nao1215/storeeda/internal/chart"
	"github.com/nao1215/storeeda/internal/config"
	"github.com/nao1215/storeeda/internal/database"
	"github.com/nao1215/storeeda/internal/dataset"
	"github.com/nao1215/storeeda/internal/log"
	"github.com/nao1215/storeeda/internal/model"
	"github.com/nao1215/storeeda/internal/pipeline"
	"github.com/nao1215/storeeda/internal/report"
	"github.com/spf13/cobra"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [dataset.csv ...]",
		Short: "Generate the sales report for one or more datasets",
		Long: `Render loads a sales CSV, runs every report step over it, and writes the
report in the requested format.

Without an argument the dataset from the configuration file is used, or
` + config.DefaultDataset + ` in the current directory.

When several datasets are given they are processed concurrently and the
dataset name is inserted into each output file name, so
"-o report.md a.csv b.csv" writes report-a.md and report-b.md.

Examples:
  # Plain text report on stdout
  storeeda render sales.csv

  # Markdown report with PNG charts
  storeeda render -m -o out/report.md --charts out/charts sales.csv

  # Interactive HTML dashboard
  storeeda render --html -o report.html sales.csv

  # Styled report in the terminal
  storeeda render -t sales.csv

  # Count orders instead of summing sales in the spend-by-gender section
  storeeda render --spend-mode count sales.csv`,
		Args: cobra.ArbitraryArgs,
		RunE: runRenderCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .storeeda in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false, "Output JSON report")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown report")
	cmd.Flags().Bool("html", false, "Output an interactive HTML dashboard")
	cmd.Flags().BoolP("terminal", "t", false, "Output a styled report for the terminal")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Chart flags
	cmd.Flags().String("charts", "", "Write chart images into this directory")
	cmd.Flags().String("chart-format", config.DefaultChartFormat, "Chart image format: png or svg")
	cmd.Flags().Int("chart-width", config.DefaultChartWidth, "Chart width in pixels")
	cmd.Flags().Int("chart-height", config.DefaultChartHeight, "Chart height in pixels")

	cmd.Flags().String("spend-mode", string(model.SpendTotal),
		"Spend-by-gender measure: total (sum of sales) or count (number of orders)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize, "Number of datasets processed concurrently")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")
	cmd.Flags().String("log-format", config.DefaultLogFormat, "Log format: text or json")

	return cmd
}

func runRenderCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.New(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runRender(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// buildConfig creates a Config from cobra command flags and the
// configuration file. Flags given on the command line win over the file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.DatasetPaths = args
	cfg.Verbose = getVerboseFlag(cmd)

	flags := cmd.Flags()
	var err error

	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.HTMLReport, err = flags.GetBool("html"); err != nil {
		return nil, err
	}
	if cfg.TerminalReport, err = flags.GetBool("terminal"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.ChartDir, err = flags.GetString("charts"); err != nil {
		return nil, err
	}
	if cfg.ChartFormat, err = flags.GetString("chart-format"); err != nil {
		return nil, err
	}
	if cfg.ChartWidth, err = flags.GetInt("chart-width"); err != nil {
		return nil, err
	}
	if cfg.ChartHeight, err = flags.GetInt("chart-height"); err != nil {
		return nil, err
	}
	if cfg.SpendMode, err = flags.GetString("spend-mode"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.LogFormat, err = flags.GetString("log-format"); err != nil {
		return nil, err
	}
	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory

	// A missing file is only an error when the user named it.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file, flags.Changed)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	return cfg, nil
}

// renderer writes the reports of one render invocation. The batch
// processor calls handle concurrently; mu serializes output so that
// reports printed to stdout never interleave.
type renderer struct {
	cfg       *config.Config
	stdout    io.Writer
	stderr    io.Writer
	logger    *slog.Logger
	db        *database.RunDB
	artifacts *chart.ArtifactWriter
	total     int
	names     []string

	mu   sync.Mutex
	errs []error
}

// runRender reports on every configured dataset.
func runRender(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, logger *slog.Logger) error {
	paths := cfg.Datasets()

	logger.Info("starting render",
		"datasets", paths,
		"batchSize", cfg.BatchSize,
		"charts", cfg.ChartDir,
		"saveToDB", cfg.SaveToDB,
	)

	r := &renderer{
		cfg:    cfg,
		stdout: stdout,
		stderr: stderr,
		logger: logger,
		total:  len(paths),
		names:  datasetNames(paths),
	}

	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		r.db = db
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	if cfg.ChartDir != "" {
		format, err := chart.ParseFormat(cfg.ChartFormat)
		if err != nil {
			return err
		}
		cr, err := chart.NewRenderer(
			chart.WithSize(cfg.ChartWidth, cfg.ChartHeight),
			chart.WithFormat(format),
		)
		if err != nil {
			return fmt.Errorf("failed to create chart renderer: %w", err)
		}
		r.artifacts = chart.NewArtifactWriter(cr, chart.WithArtifactLogger(logger))
	}

	narrativeSet := cfg.File.Narrative()
	spend := cfg.Spend()
	bp := pipeline.NewBatchProcessor(
		func(rs *dataset.RecordSet) *pipeline.Pipeline {
			return pipeline.DefaultPipeline(rs,
				[]pipeline.Option{pipeline.WithLogger(logger)},
				pipeline.WithPipelineSpendMode(spend),
				pipeline.WithPipelineNarrative(narrativeSet),
			)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	startTime := time.Now()
	err := bp.ProcessBatchWithCallback(ctx, paths, func(rep *model.Report, index int) {
		r.handle(ctx, rep, index)
	})

	logger.Info("render complete",
		"datasets", len(paths),
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)

	if err != nil {
		return err
	}
	return errors.Join(r.errs...)
}

// handle finishes one report: it fingerprints the dataset, draws charts,
// writes the report and records the run. A failed report produces no
// output; only its run is recorded.
func (r *renderer) handle(ctx context.Context, rep *model.Report, index int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rep.Error != nil {
		r.fail(rep.Source, rep.Error)
		r.saveRun(ctx, rep, nil)
		return
	}

	fp, err := database.FingerprintFile(rep.Source)
	if err != nil {
		r.logger.Warn("failed to fingerprint dataset", "source", rep.Source, "error", err)
	}
	rep.Fingerprint = fp
	r.cfg.File.ApplyTo(rep)

	var outputs []string
	chartDir := ""
	if r.artifacts != nil {
		chartDir = insertName(r.cfg.ChartDir, r.names[index])
		if err := r.artifacts.WriteAll(ctx, rep, chartDir); err != nil {
			r.fail(rep.Source, fmt.Errorf("failed to write charts: %w", err))
		}
		for _, name := range rep.Artifacts() {
			outputs = append(outputs, filepath.Join(chartDir, name))
		}
	}

	reportFile := insertName(r.cfg.ReportFile, r.names[index])
	if err := r.writeReport(rep, reportFile, chartDir); err != nil {
		r.fail(rep.Source, err)
	} else if reportFile != "" {
		outputs = append(outputs, reportFile)
		fmt.Fprintf(r.stderr, "[%d/%d] %s -> %s\n", index+1, r.total, rep.Source, reportFile)
	}

	r.saveRun(ctx, rep, outputs)
}

// saveRun records rep in the run ledger when history is enabled.
func (r *renderer) saveRun(ctx context.Context, rep *model.Report, outputs []string) {
	if r.db == nil {
		return
	}
	if err := r.db.SaveRun(ctx, database.NewRun(rep, outputs, time.Now())); err != nil {
		r.logger.Error("failed to save run", "source", rep.Source, "error", err)
		return
	}
	r.logger.Info("run saved to database", "source", rep.Source)
}

func (r *renderer) fail(source string, err error) {
	r.logger.Error("render failed", "source", source, "error", err)
	r.errs = append(r.errs, fmt.Errorf("%s: %w", source, err))
}

// writeReport writes rep to path, or to stdout when path is empty.
func (r *renderer) writeReport(rep *model.Report, path, chartDir string) error {
	output := r.stdout
	if path != "" {
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	if _, err := newWriter(r.cfg, output, chartPrefix(path, chartDir)).Write(rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// newWriter returns the report writer selected by the configuration.
func newWriter(cfg *config.Config, output io.Writer, chartPrefix string) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output, report.WithChartPrefix(chartPrefix))
	case cfg.HTMLReport:
		return report.NewHTMLWriter(output)
	case cfg.TerminalReport:
		return report.NewTerminalWriter(output,
			report.WithMarkdownOptions(report.WithChartPrefix(chartPrefix)))
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}

// datasetNames returns the name inserted into output paths for each
// dataset. A single dataset gets no name. Base names shared by several
// datasets get the dataset's position appended, so "a/sales.csv" and
// "b/sales.csv" give "sales-1" and "sales-2".
func datasetNames(paths []string) []string {
	names := make([]string, len(paths))
	if len(paths) <= 1 {
		return names
	}
	seen := make(map[string]int, len(paths))
	for i, p := range paths {
		names[i] = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		seen[names[i]]++
	}
	for i, name := range names {
		if seen[name] > 1 {
			names[i] = fmt.Sprintf("%s-%d", name, i+1)
		}
	}
	return names
}

// insertName returns path with name inserted before its extension.
// "out/report.md" and "sep" give "out/report-sep.md".
func insertName(path, name string) string {
	if path == "" || name == "" {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + name + ext
}

// chartPrefix returns the chart directory as seen from the report file, so
// that image links in the report resolve.
func chartPrefix(reportFile, chartDir string) string {
	if chartDir == "" {
		return ""
	}
	if reportFile == "" {
		return filepath.ToSlash(chartDir)
	}
	rel, err := filepath.Rel(filepath.Dir(reportFile), chartDir)
	if err != nil {
		return filepath.ToSlash(chartDir)
	}
	return filepath.ToSlash(rel)
}
