package datasource

import (
	"context"
	"fmt"

	"db-validator/core/database"
	"db-validator/core/reconcile"
)

// Handle is an opened source together with the function that releases its
// connection.
type Handle struct {
	reconcile.Source
	Close func()
}

// Open connects to the database described by cfg and returns it as a
// reconcile.Source named name.
func Open(ctx context.Context, name string, cfg database.Config) (*Handle, error) {
	switch cfg.Driver {
	case database.DriverPostgres:
		pool, err := database.ConnectPostgres(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		casing := reconcile.LowerCase
		if cfg.ColumnCase != "" {
			casing = reconcile.CaseByName(cfg.ColumnCase)
		}
		return &Handle{
			Source: NewPostgresSource(name, pool, casing),
			Close:  pool.Close,
		}, nil
	default:
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return &Handle{
			Source: NewGormSource(name, db, reconcile.CaseByName(cfg.ColumnCase)),
			Close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil
	}
}
