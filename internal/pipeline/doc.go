// Package pipeline runs the report steps over one dataset.
//
// Each step reads the shared, read-only record set, computes one aggregate
// and appends a section to the report. Steps run one after another in the
// order they were added; the pipeline checks for cancellation between steps
// and records which steps finished.
//
// Several datasets can be processed at once with BatchProcessor, which gives
// every dataset its own pipeline and bounds the number of datasets in flight
// with errgroup.
package pipeline
