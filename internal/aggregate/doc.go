// Package aggregate implements the grouped computations behind each report
// section.
//
// Every function is pure: it reads a *dataset.RecordSet, works on its own
// copy of the record set's dataframe, and returns fresh slices. Calling a
// function twice on the same record set yields identical results.
//
// Grouping is done with gota. Sums are exact decimal sums of each group's
// value column and are rounded to cents; counts use gota's COUNT
// aggregation. Rows are ordered deterministically:
//   - sums by key ascending
//   - counts by count descending, then key
//   - age buckets in bucket order
//   - months chronologically
//
// Empty categorical values never form a group.
package aggregate
