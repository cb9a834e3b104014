package cmd

import (
	"context"
	"fmt"

	"db-validator/core/config"
	"db-validator/core/datasource"
	"db-validator/core/lock"
	"db-validator/core/logger"
	"db-validator/core/reconcile"
	"db-validator/core/storage"
	"db-validator/feature/validation"
	"db-validator/feature/validation/history"

	"go.uber.org/zap"
)

// runtime holds everything a command needs to run comparisons.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *validation.Service
	closers []func()
}

// newRuntime loads configuration, connects both sides and wires the
// validation service with its optional history, archive and lock.
func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logg = logg.With(zap.String("environment", cfg.Server.Environment))

	rt := &runtime{cfg: cfg, logger: logg}
	if err := rt.wire(ctx); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func (rt *runtime) wire(ctx context.Context) error {
	cfg, logg := rt.cfg, rt.logger

	record, err := datasource.Open(ctx, "record", cfg.Record)
	if err != nil {
		return fmt.Errorf("record database connection required: %w", err)
	}
	rt.closers = append(rt.closers, record.Close)

	replica, err := datasource.Open(ctx, "replica", cfg.Replica)
	if err != nil {
		return fmt.Errorf("replica database connection required: %w", err)
	}
	rt.closers = append(rt.closers, replica.Close)

	logg.Info("Connected to both databases",
		zap.String("record", cfg.Record.Driver),
		zap.String("replica", cfg.Replica.Driver))

	opts := validation.Options{
		LockKey: cfg.Redis.Key,
		LockTTL: cfg.Redis.TTL(),
	}

	if cfg.Validator.History {
		if gs, ok := record.Source.(*datasource.GormSource); ok {
			repo := history.NewRepository(gs.DB(), logg)
			if err := repo.Migrate(); err != nil {
				logg.Warn("Validation history disabled", zap.Error(err))
			} else {
				opts.History = repo
			}
		} else {
			logg.Info("Validation history disabled, record side is not a gorm connection")
		}
	}

	if cfg.Storage.Enabled {
		archive, err := storage.NewArchiveFromConfig(cfg.Storage, logg)
		if err != nil {
			return fmt.Errorf("failed to create report archive: %w", err)
		}
		opts.Archive = archive
	}

	locker, closeLock, err := lock.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	rt.closers = append(rt.closers, func() {
		if err := closeLock(); err != nil {
			logg.Warn("Failed to close redis connection", zap.Error(err))
		}
	})
	opts.Locker = locker

	engine := reconcile.NewEngine(record.Source, replica.Source, logg)
	rt.service = validation.NewService(engine, cfg.Validator, logg, opts)
	return nil
}

// Close releases connections in reverse order of opening.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
	_ = rt.logger.Sync()
}
