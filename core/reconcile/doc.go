// Package reconcile implements the table reconciliation engine that audits a
// table kept in two independently operated relational sources: the record
// side (source of truth) and the replica side.
//
// For one table the engine:
//
//  1. counts rows on both sides
//  2. extracts the primary-key sets of both sides
//  3. diffs the key sets (only-in-record, only-in-replica, common)
//  4. fetches the common rows in batches and compares them field by field
//  5. assembles a ComparisonResult
//
// Each step issues the record and replica queries concurrently and joins on
// both before moving on. Tables are processed one after another.
//
// # Normalization
//
// Values are compared after Normalize, which widens numbers to float64,
// trims strings and turns timestamps into epoch milliseconds. Reported
// FieldValuePairs always carry the raw values.
//
// # Sources
//
// The engine depends only on the Source interface. Implementations for gorm
// (MySQL, SQLite) and pgx (PostgreSQL) live in core/datasource. Each source
// declares the column-name casing of its rows through ColumnName.
//
// # Identifiers
//
// Table and column names end up in generated SQL, so the engine validates
// them before any query runs: identifier syntax, membership of the table in
// Config.Tables, and existence of the key and time columns in the record
// side's schema.
//
// # Usage
//
//	engine := reconcile.NewEngine(recordSrc, replicaSrc, logger)
//	result, err := engine.CompareTable(ctx, "orders", reconcile.Config{
//	    Tables:       []string{"orders"},
//	    PrimaryKey:   "id",
//	    BatchSize:    1000,
//	    IgnoreFields: []string{"updated_at"},
//	})
package reconcile
