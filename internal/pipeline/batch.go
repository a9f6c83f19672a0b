package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/storeeda/internal/dataset"
	"github.com/nao1215/storeeda/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of datasets processed at once when no
// limit is given.
const DefaultConcurrency = 4

// Factory builds the pipeline for one loaded dataset.
type Factory func(rs *dataset.RecordSet) *Pipeline

// BatchProcessor handles concurrent processing of several datasets.
// Each dataset is loaded and run through its own pipeline; at most
// concurrency datasets are in flight.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each dataset.
	pipelineFactory Factory

	// concurrency is the maximum number of datasets processed at once.
	concurrency int

	// loadOpts are passed to dataset.Load.
	loadOpts []dataset.LoadOption

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed reports.
	// Access is synchronized via mutex.
	results []*model.Report
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of datasets processed at once.
// Default is DefaultConcurrency if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithLoadOptions sets the options used to load each dataset.
func WithLoadOptions(opts ...dataset.LoadOption) BatchOption {
	return func(b *BatchProcessor) {
		b.loadOpts = append(b.loadOpts, opts...)
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called once per dataset, after loading,
// so pipeline state never leaks between datasets.
func NewBatchProcessor(pipelineFactory Factory, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
		results:         make([]*model.Report, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch loads and reports on several datasets concurrently.
//
// Returns one report per path, in path order, even for datasets that
// failed: a load or step error is recorded in that report's Error field.
// The returned error is non-nil only when the batch itself was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, paths []string) ([]*model.Report, error) {
	bp.logger.Info("starting batch processing",
		"total_datasets", len(paths),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	bp.results = make([]*model.Report, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("processing dataset",
				"source", path,
				"index", i+1,
				"total", len(paths),
			)

			report, err := bp.run(ctx, path)

			bp.mu.Lock()
			bp.results[i] = report
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("dataset failed",
					"source", path,
					"error", err,
				)
				return nil
			}

			bp.logger.Info("dataset completed",
				"source", path,
			)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_datasets", len(paths),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback processes several datasets and calls callback
// for each finished report. This is useful for writing reports as soon as
// they are ready.
//
// The callback receives the report and the index of the path in the
// original slice. It is called from the goroutine that produced the
// report, so it must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	paths []string,
	callback func(report *model.Report, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_datasets", len(paths),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report, _ := bp.run(ctx, path) //nolint:errcheck // Error is stored in report
			callback(report, i)
			return nil
		})
	}

	return g.Wait()
}

// run loads one dataset and executes its pipeline. The returned report is
// never nil.
func (bp *BatchProcessor) run(ctx context.Context, path string) (*model.Report, error) {
	rs, err := dataset.Load(ctx, path, bp.loadOpts...)
	if err != nil {
		report := model.NewReport(path)
		report.SetError(err)
		return report, err
	}

	report := NewReport(rs)
	err = bp.pipelineFactory(rs).Execute(ctx, report)
	return report, err
}
