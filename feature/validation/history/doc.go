// Package history persists the outcome of comparison runs.
//
// Every table compared by a run is stored as a ValidationRecord tagged with
// the run's batch id; a ValidationSummary row per day aggregates the runs of
// that day. Both live in the record-side database and are created with
// gorm's AutoMigrate.
package history
