package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/storeeda/internal/dataset"
	"github.com/nao1215/storeeda/internal/model"
)

func noopFactory(_ *dataset.RecordSet) *Pipeline {
	p := New()
	p.AddStep(&mockStep{name: "noop"})
	return p
}

// TestBatchProcessorNew tests the BatchProcessor constructor.
func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(noopFactory)

		if bp == nil {
			t.Fatal("expected non-nil processor")
		}
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
		if bp.logger == nil {
			t.Error("expected non-nil logger")
		}
	})

	t.Run("applies WithConcurrency option", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(noopFactory, WithConcurrency(2))

		if bp.concurrency != 2 {
			t.Errorf("expected concurrency 2, got %d", bp.concurrency)
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(noopFactory, WithConcurrency(0))

		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
	})

	t.Run("applies WithLoadOptions", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(noopFactory, WithLoadOptions(dataset.WithDateLayouts("2006-01-02")))

		if len(bp.loadOpts) != 1 {
			t.Errorf("expected 1 load option, got %d", len(bp.loadOpts))
		}
	})
}

// TestBatchProcessorProcessBatch tests batch processing.
func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("runs the default pipeline per dataset", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func(rs *dataset.RecordSet) *Pipeline {
			return DefaultPipeline(rs, nil)
		})

		results, err := bp.ProcessBatch(context.Background(), []string{samplePath, samplePath})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 reports, got %d", len(results))
		}
		for i, r := range results {
			if r.Error != nil {
				t.Errorf("report %d: unexpected error %v", i, r.Error)
			}
			if len(r.Sections) != len(model.Steps) {
				t.Errorf("report %d: expected %d sections, got %d", i, len(model.Steps), len(r.Sections))
			}
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		var maxConcurrent atomic.Int32
		var currentConcurrent atomic.Int32
		var mu sync.Mutex

		bp := NewBatchProcessor(
			func(_ *dataset.RecordSet) *Pipeline {
				p := New()
				p.AddStep(&mockStep{
					name: "concurrent-counter",
					doFunc: func(_ context.Context, _ *model.Report) error {
						current := currentConcurrent.Add(1)

						mu.Lock()
						if current > maxConcurrent.Load() {
							maxConcurrent.Store(current)
						}
						mu.Unlock()

						time.Sleep(20 * time.Millisecond)

						currentConcurrent.Add(-1)
						return nil
					},
				})
				return p
			},
			WithConcurrency(2),
		)

		paths := make([]string, 6)
		for i := range paths {
			paths[i] = samplePath
		}

		if _, err := bp.ProcessBatch(context.Background(), paths); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if maxConcurrent.Load() > 2 {
			t.Errorf("max concurrent was %d, expected <= 2", maxConcurrent.Load())
		}
	})

	t.Run("keeps going after a dataset fails to load", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "missing.csv")
		bp := NewBatchProcessor(noopFactory)

		results, err := bp.ProcessBatch(context.Background(), []string{missing, samplePath})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if results[0].Source != missing {
			t.Errorf("result order lost: got %q", results[0].Source)
		}
		if !errors.Is(results[0].Error, dataset.ErrSourceMissing) {
			t.Errorf("expected ErrSourceMissing, got %v", results[0].Error)
		}
		var loadErr *dataset.LoadError
		if !errors.As(results[0].Error, &loadErr) {
			t.Error("expected a *dataset.LoadError")
		}
		if results[1].Error != nil {
			t.Errorf("second dataset should succeed, got %v", results[1].Error)
		}
		if results[1].RecordCount != 10 {
			t.Errorf("expected 10 records, got %d", results[1].RecordCount)
		}
	})

	t.Run("handles context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var calls atomic.Int32
		bp := NewBatchProcessor(func(rs *dataset.RecordSet) *Pipeline {
			calls.Add(1)
			return noopFactory(rs)
		}, WithConcurrency(1))

		_, err := bp.ProcessBatch(ctx, []string{samplePath, samplePath, samplePath})

		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if calls.Load() != 0 {
			t.Errorf("expected no pipelines after cancellation, got %d", calls.Load())
		}
	})
}

// TestBatchProcessorProcessBatchWithCallback tests callback-based processing.
func TestBatchProcessorProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	bp := NewBatchProcessor(noopFactory)

	var mu sync.Mutex
	seen := make(map[int]*model.Report)

	paths := []string{samplePath, filepath.Join(t.TempDir(), "missing.csv")}
	err := bp.ProcessBatchWithCallback(context.Background(), paths, func(report *model.Report, index int) {
		mu.Lock()
		defer mu.Unlock()
		seen[index] = report
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("expected 2 callbacks, got %d", len(seen))
	}
	if seen[0].Error != nil {
		t.Errorf("expected first report to succeed, got %v", seen[0].Error)
	}
	if seen[1].Error == nil {
		t.Error("expected second report to carry the load error")
	}
}
