// Package validation exposes table reconciliation as a service and an HTTP API.
//
// The Service wraps a reconcile.Engine with everything a run needs around it:
// batch ids, history persistence, report files, the report archive and the
// run lock. Full runs continue past tables that fail; those tables are listed
// in Run.Errors and stored in history with an error remark.
//
// # Routes
//
// All routes live under /validation:
//
//	POST /compare-all                   full run of every configured table
//	POST /compare-table/:table          full comparison of one table
//	POST /table-count-comparison        row counts, optional time window
//	POST /table-data-comparison/:table  one table, extra ignored fields and window
//	GET  /report/:format                text, compact, json, xlsx or trend
//	GET  /history                       stored records (batch_id, table, days, limit)
//	GET  /history/summary               daily summaries
//	GET  /schema                        column drift between both sides
//	GET  /archive, /archive/:name       reports kept in object storage
//	GET  /health                        liveness
//
// Identifier errors (unknown table, invalid column) map to 400, a run already
// in progress to 409 and everything else to 500.
package validation
