// Package datasource provides the concrete reconcile.Source implementations.
//
// GormSource serves MySQL and SQLite through gorm. PostgresSource serves
// Postgres through pgx. Both quote every identifier with their dialect's
// quoting and pass every value as a bound parameter; the engine has already
// validated identifiers against the configured table list and the table's
// columns before any query is built.
//
// # Column casing
//
// Databases disagree on the casing of unquoted column names in result sets.
// Each source is constructed with a reconcile.CaseFunc that tells the engine
// how to look fields up in its rows. Configure it per side with
// column_case = upper | lower | preserve.
//
// # Usage
//
//	record, err := datasource.Open(ctx, "record", cfg.Record)
//	if err != nil {
//	    return err
//	}
//	defer record.Close()
package datasource
