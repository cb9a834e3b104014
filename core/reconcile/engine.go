package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Engine compares tables between a record source and a replica source.
// It holds no per-comparison state and is safe for concurrent use as long as
// the sources are.
type Engine struct {
	record  Source
	replica Source
	logger  *zap.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

// NewEngine creates an engine over the two sources.
func NewEngine(record, replica Source, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		record:  record,
		replica: replica,
		logger:  logger,
		tracer:  otel.Tracer("db-validator/reconcile"),
		now:     time.Now,
	}
}

// Record returns the record-side source.
func (e *Engine) Record() Source { return e.record }

// Replica returns the replica-side source.
func (e *Engine) Replica() Source { return e.replica }

// CompareAll compares every configured table, strictly in configured order.
// It stops at the first failing table and returns the results gathered so
// far together with the error; whether to continue is the caller's call.
func (e *Engine) CompareAll(ctx context.Context, cfg Config) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(cfg.Tables))
	for _, table := range cfg.Tables {
		e.logger.Info("Comparing table", zap.String("table", table))
		result, err := e.CompareTable(ctx, table, cfg)
		if err != nil {
			return results, err
		}
		results = append(results, *result)
		e.logger.Info("Table compared", zap.String("table", table), zap.Bool("consistent", result.Consistent))
	}
	return results, nil
}

// CompareTable performs a full comparison of one table, honouring
// cfg.TimeFilter when set.
func (e *Engine) CompareTable(ctx context.Context, table string, cfg Config) (*ComparisonResult, error) {
	return e.compare(ctx, table, cfg, nil)
}

// CompareTableData compares one table with an extra per-request ignore list
// and time window, returning the lighter data-comparison shape.
func (e *Engine) CompareTableData(ctx context.Context, table string, cfg Config, ignoredFields []string, filter *TimeFilter) (*TableDataComparison, error) {
	cfg.TimeFilter = filter
	result, err := e.compare(ctx, table, cfg, ignoredFields)
	if err != nil {
		return nil, err
	}
	return &TableDataComparison{
		TableName:        result.TableName,
		RecordCount:      result.RecordCount,
		ReplicaCount:     result.ReplicaCount,
		Ratio:            Ratio(result.RecordCount, result.ReplicaCount),
		Consistent:       result.Consistent,
		OnlyInRecord:     result.OnlyInRecord,
		OnlyInReplica:    result.OnlyInReplica,
		FieldDifferences: result.FieldDifferences,
	}, nil
}

// CompareCount compares only the row counts of one table within filter.
func (e *Engine) CompareCount(ctx context.Context, table string, cfg Config, filter *TimeFilter) (*TableCountComparison, error) {
	cfg = cfg.WithDefaults()

	ctx, span := e.tracer.Start(ctx, "reconcile.CompareCount", trace.WithAttributes(attribute.String("table", table)))
	defer span.End()

	if err := e.validateRequest(ctx, table, cfg, filter); err != nil {
		return nil, spanError(span, err)
	}

	recordCount, replicaCount, err := e.counts(ctx, table, filter)
	if err != nil {
		return nil, spanError(span, err)
	}

	out := &TableCountComparison{
		TableName:    table,
		RecordCount:  recordCount,
		ReplicaCount: replicaCount,
		Ratio:        Ratio(recordCount, replicaCount),
		ComparedAt:   e.now(),
	}
	if filter != nil {
		out.StartTime = filter.Start
		out.EndTime = filter.End
	}
	return out, nil
}

// CompareCounts runs CompareCount for each table in order. Like CompareAll
// it returns partial results on the first error.
func (e *Engine) CompareCounts(ctx context.Context, tables []string, cfg Config, filter *TimeFilter) ([]TableCountComparison, error) {
	results := make([]TableCountComparison, 0, len(tables))
	for _, table := range tables {
		result, err := e.CompareCount(ctx, table, cfg, filter)
		if err != nil {
			return results, err
		}
		results = append(results, *result)
		e.logger.Info("Table count compared",
			zap.String("table", table),
			zap.Int64("record", result.RecordCount),
			zap.Int64("replica", result.ReplicaCount),
			zap.Float64("ratio", result.Ratio),
		)
	}
	return results, nil
}

// compare is the single-table pipeline:
// counts -> key sets -> key diff -> batched row diff -> result.
func (e *Engine) compare(ctx context.Context, table string, cfg Config, extraIgnore []string) (*ComparisonResult, error) {
	started := e.now()
	cfg = cfg.WithDefaults()

	ctx, span := e.tracer.Start(ctx, "reconcile.CompareTable", trace.WithAttributes(
		attribute.String("table", table),
		attribute.Int("batch_size", cfg.BatchSize),
		attribute.Bool("time_filtered", cfg.TimeFilter.Active()),
	))
	defer span.End()

	if err := e.validateRequest(ctx, table, cfg, cfg.TimeFilter); err != nil {
		return nil, spanError(span, err)
	}

	recordCount, replicaCount, err := e.counts(ctx, table, cfg.TimeFilter)
	if err != nil {
		return nil, spanError(span, err)
	}
	e.logger.Info("Row counts",
		zap.String("table", table),
		zap.Int64(e.record.Name(), recordCount),
		zap.Int64(e.replica.Name(), replicaCount),
	)

	recordKeys, replicaKeys, err := paired(ctx, e.record, e.replica, func(ctx context.Context, src Source) ([]any, error) {
		keys, err := src.Keys(ctx, table, cfg.PrimaryKey, cfg.TimeFilter)
		if err != nil {
			return nil, fmt.Errorf("%s keys %s: %w", src.Name(), table, err)
		}
		return keys, nil
	})
	if err != nil {
		return nil, spanError(span, err)
	}

	keys := DiffKeys(recordKeys, replicaKeys)

	diffs, err := e.diffCommon(ctx, table, cfg, keys.Common, ignoreSet(cfg.IgnoreFields, extraIgnore))
	if err != nil {
		return nil, spanError(span, fmt.Errorf("rows %s: %w", table, err))
	}

	elapsed := e.now().Sub(started)
	result := &ComparisonResult{
		TableName:        table,
		RecordCount:      recordCount,
		ReplicaCount:     replicaCount,
		OnlyInRecord:     keys.OnlyInRecord,
		OnlyInReplica:    keys.OnlyInReplica,
		FieldDifferences: diffs,
		Duration:         elapsed,
		DurationMs:       elapsed.Milliseconds(),
		ComparedAt:       started,
	}
	result.Consistent = result.IsConsistent()

	span.SetAttributes(
		attribute.Int("only_in_record", len(result.OnlyInRecord)),
		attribute.Int("only_in_replica", len(result.OnlyInReplica)),
		attribute.Int("field_differences", len(result.FieldDifferences)),
	)
	return result, nil
}

func (e *Engine) counts(ctx context.Context, table string, filter *TimeFilter) (int64, int64, error) {
	return paired(ctx, e.record, e.replica, func(ctx context.Context, src Source) (int64, error) {
		n, err := src.Count(ctx, table, filter)
		if err != nil {
			return 0, fmt.Errorf("%s count %s: %w", src.Name(), table, err)
		}
		return n, nil
	})
}

// paired runs fn against both sources concurrently and waits for both.
func paired[T any](ctx context.Context, record, replica Source, fn func(context.Context, Source) (T, error)) (T, T, error) {
	var recordOut, replicaOut T
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recordOut, err = fn(gctx, record)
		return err
	})
	g.Go(func() error {
		var err error
		replicaOut, err = fn(gctx, replica)
		return err
	})
	if err := g.Wait(); err != nil {
		var zero T
		return zero, zero, err
	}
	return recordOut, replicaOut, nil
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
