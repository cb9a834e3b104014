// Package database handles database connections and schema inspection.
//
// Each side of a comparison is described by a Config. MySQL and SQLite are
// opened through GORM (with the otelgorm tracing plugin installed); Postgres
// is opened as a pgx connection pool.
//
// # Connect
//
// Connect returns a *gorm.DB for the mysql and sqlite drivers, ConnectPostgres
// a *pgxpool.Pool. Both verify the connection with a ping bounded by
// TimeoutSeconds.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table. The comparison engine uses it
// to check that key and time columns exist before they are placed in a query,
// and the schema drift check compares the column sets of both sides.
//
// # Usage
//
//	db, err := database.Connect(cfg.Record)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "user_info")
package database
