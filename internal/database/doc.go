// Package database keeps a ledger of report runs in SQLite.
//
// Each render stores one row per dataset: where the data came from, a
// blake2b fingerprint of the file, how many records were loaded, which
// steps ran, which produced warnings, and which files were written.
// Aggregates are never stored; a report is always recomputed from its CSV.
//
// The ledger lets `storeeda history` show when a dataset was last reported
// on and whether the file changed between two runs.
package database
