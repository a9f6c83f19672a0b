// Package model defines the data structures shared by the storeeda packages.
//
// The main types are:
//   - Report: the ordered output of one pipeline run
//   - Section: one heading, chart and caption of the report
//   - AggregateRow, TermFrequency and Distribution: step results
//   - Overview: the dataset summary printed before the charts
//
// Models live in their own package so that the aggregate, pipeline, chart
// and report packages can share them without import cycles. Every type is
// JSON serializable.
package model
