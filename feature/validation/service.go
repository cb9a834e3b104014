package validation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"db-validator/core/lock"
	"db-validator/core/reconcile"
	"db-validator/core/storage"
	"db-validator/feature/validation/checks"
	"db-validator/feature/validation/history"
	"db-validator/feature/validation/report"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrRunInProgress is returned when another full run holds the run lock.
	ErrRunInProgress = errors.New("a full comparison is already running")

	// ErrHistoryDisabled is returned by history queries without a repository.
	ErrHistoryDisabled = errors.New("validation history is not configured")

	// ErrArchiveDisabled is returned by archive queries without object storage.
	ErrArchiveDisabled = errors.New("report archive is not configured")
)

// TableError records a table that could not be compared during a full run.
type TableError struct {
	Table string `json:"table_name"`
	Error string `json:"error"`
}

// Run is the outcome of one full comparison.
type Run struct {
	BatchID    string                       `json:"batch_id"`
	StartedAt  time.Time                    `json:"started_at"`
	FinishedAt time.Time                    `json:"finished_at"`
	Summary    report.Summary               `json:"summary"`
	Results    []reconcile.ComparisonResult `json:"results"`
	Errors     []TableError                 `json:"errors"`
	ReportPath string                       `json:"report_path,omitempty"`
	ArchiveKey string                       `json:"archive_key,omitempty"`
}

// CountRequest selects tables and an optional window for a count comparison.
type CountRequest struct {
	Tables    []string `json:"table_names" validate:"omitempty,dive,required"`
	StartTime string   `json:"start_time" validate:"required_with=EndTime"`
	EndTime   string   `json:"end_time"`
	TimeField string   `json:"time_field"`
}

// DataRequest carries per-request options for a single-table data comparison.
type DataRequest struct {
	IgnoredFields []string `json:"ignored_fields" validate:"omitempty,dive,required"`
	StartTime     string   `json:"start_time" validate:"required_with=EndTime"`
	EndTime       string   `json:"end_time"`
	TimeField     string   `json:"time_field"`
}

// HistoryQuery selects stored validation records. BatchID wins over Table;
// without either the records of the last Days days are returned.
type HistoryQuery struct {
	Table        string
	BatchID      string
	Days         int
	Limit        int
	Inconsistent bool
}

// Options carries the optional collaborators of a Service.
type Options struct {
	History *history.Repository
	Archive *storage.Archive
	Locker  lock.Locker
	LockKey string
	LockTTL time.Duration
}

// Service runs comparisons and keeps their side effects (history, reports,
// archive) in one place.
type Service struct {
	engine  *reconcile.Engine
	cfg     Config
	opts    Options
	logger  *zap.Logger
	group   singleflight.Group
	now     func() time.Time
	batchID func() string

	mu   sync.RWMutex
	last *Run
}

// NewService creates a validation service.
func NewService(engine *reconcile.Engine, cfg Config, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.LockKey == "" {
		opts.LockKey = "db-validator:compare-all"
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = time.Hour
	}
	return &Service{
		engine:  engine,
		cfg:     cfg,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
		batchID: uuid.NewString,
	}
}

// Config returns the validation configuration.
func (s *Service) Config() Config { return s.cfg }

// CompareAll compares every configured table under one batch id. A table
// that fails is logged and listed in Run.Errors; the remaining tables are
// still compared. Identical concurrent calls share one run.
func (s *Service) CompareAll(ctx context.Context) (*Run, error) {
	v, err, shared := s.group.Do("compare-all", func() (any, error) {
		return s.compareAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("Joined running comparison")
	}
	return v.(*Run), nil
}

func (s *Service) compareAll(ctx context.Context) (*Run, error) {
	if s.opts.Locker != nil {
		held, err := s.opts.Locker.Obtain(ctx, s.opts.LockKey, s.opts.LockTTL)
		if errors.Is(err, lock.ErrHeld) {
			return nil, fmt.Errorf("%w: %v", ErrRunInProgress, err)
		}
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := held.Release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("Failed to release run lock", zap.Error(err))
			}
		}()
	}

	cfg := s.cfg.Reconcile()
	run := &Run{
		BatchID:   s.batchID(),
		StartedAt: s.now(),
		Results:   make([]reconcile.ComparisonResult, 0, len(cfg.Tables)),
		Errors:    []TableError{},
	}
	s.logger.Info("Starting full comparison",
		zap.String("batch_id", run.BatchID),
		zap.Strings("tables", cfg.Tables))

	for _, table := range cfg.Tables {
		result, err := s.engine.CompareTable(ctx, table, cfg)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Error("Table comparison failed",
				zap.String("batch_id", run.BatchID),
				zap.String("table", table),
				zap.Error(err))
			run.Errors = append(run.Errors, TableError{Table: table, Error: err.Error()})
			continue
		}
		run.Results = append(run.Results, *result)
	}

	run.FinishedAt = s.now()
	run.Summary = report.Summarize(run.Results)
	s.logSummary(run)

	s.writeReports(ctx, run)
	s.saveHistory(ctx, run)

	s.mu.Lock()
	s.last = run
	s.mu.Unlock()

	return run, nil
}

// LatestRun returns the latest full run while it is younger than the
// configured report TTL and starts a new one otherwise.
func (s *Service) LatestRun(ctx context.Context, refresh bool) (*Run, error) {
	if !refresh {
		s.mu.RLock()
		last := s.last
		s.mu.RUnlock()
		if last != nil && s.now().Sub(last.FinishedAt) < s.cfg.ReportTTL {
			return last, nil
		}
	}
	return s.CompareAll(ctx)
}

// CompareTable compares a single configured table and records it in history
// under its own batch id.
func (s *Service) CompareTable(ctx context.Context, table string) (*reconcile.ComparisonResult, error) {
	v, err, _ := s.group.Do("table:"+table, func() (any, error) {
		return s.engine.CompareTable(ctx, table, s.cfg.Reconcile())
	})
	if err != nil {
		return nil, err
	}
	result := v.(*reconcile.ComparisonResult)

	if s.opts.History != nil {
		rec := history.FromResult(*result, s.batchID())
		rec.Remarks = "single table"
		if err := s.opts.History.Save(ctx, &rec); err != nil {
			s.logger.Warn("Failed to save validation record", zap.String("table", table), zap.Error(err))
		}
	}
	return result, nil
}

// CompareSelected compares tables, or every configured table when none are
// given, with extra ignored fields and an optional window. Like CompareAll it
// continues past failing tables. Nothing is persisted.
func (s *Service) CompareSelected(ctx context.Context, tables []string, req DataRequest) ([]reconcile.ComparisonResult, []TableError) {
	cfg := s.cfg.Reconcile()
	cfg.IgnoreFields = append(cfg.IgnoreFields, req.IgnoredFields...)
	cfg.TimeFilter = s.filter(req.TimeField, req.StartTime, req.EndTime)
	if len(tables) == 0 {
		tables = cfg.Tables
	}

	results := make([]reconcile.ComparisonResult, 0, len(tables))
	errs := []TableError{}
	for _, table := range tables {
		result, err := s.engine.CompareTable(ctx, table, cfg)
		if err != nil {
			errs = append(errs, TableError{Table: table, Error: err.Error()})
			if ctx.Err() != nil {
				break
			}
			continue
		}
		results = append(results, *result)
	}
	return results, errs
}

// CompareCounts compares row counts of req.Tables, or of every configured
// table when none are given, within the optional window.
func (s *Service) CompareCounts(ctx context.Context, req CountRequest) ([]reconcile.TableCountComparison, error) {
	cfg := s.cfg.Reconcile()
	tables := req.Tables
	if len(tables) == 0 {
		tables = cfg.Tables
	}
	return s.engine.CompareCounts(ctx, tables, cfg, s.filter(req.TimeField, req.StartTime, req.EndTime))
}

// CompareTableData compares one table with per-request ignored fields and
// window.
func (s *Service) CompareTableData(ctx context.Context, table string, req DataRequest) (*reconcile.TableDataComparison, error) {
	return s.engine.CompareTableData(ctx, table, s.cfg.Reconcile(), req.IgnoredFields,
		s.filter(req.TimeField, req.StartTime, req.EndTime))
}

// CheckSchema reports column drift for every configured table.
func (s *Service) CheckSchema(ctx context.Context) (*checks.SchemaReport, error) {
	return checks.CheckSchema(ctx, s.engine.Record(), s.engine.Replica(), s.cfg.Reconcile().Tables)
}

// History returns stored validation records selected by q.
func (s *Service) History(ctx context.Context, q HistoryQuery) ([]history.ValidationRecord, error) {
	repo := s.opts.History
	if repo == nil {
		return nil, ErrHistoryDisabled
	}
	days := q.Days
	if days <= 0 {
		days = 7
	}

	switch {
	case q.BatchID != "":
		return repo.FindByBatch(ctx, q.BatchID)
	case q.Table != "":
		return repo.FindByTable(ctx, q.Table, q.Limit)
	case q.Inconsistent:
		return repo.FindInconsistent(ctx, days)
	default:
		now := s.now()
		return repo.FindByDateRange(ctx, now.AddDate(0, 0, -days), now)
	}
}

// Summaries returns the latest daily summaries.
func (s *Service) Summaries(ctx context.Context, limit int) ([]history.ValidationSummary, error) {
	if s.opts.History == nil {
		return nil, ErrHistoryDisabled
	}
	return s.opts.History.FindSummaries(ctx, limit)
}

// Trend renders per-table consistency over the last days days.
func (s *Service) Trend(ctx context.Context, days int) (string, error) {
	records, err := s.History(ctx, HistoryQuery{Days: days})
	if err != nil {
		return "", err
	}
	return report.Trend(records, s.now()), nil
}

// ArchivedReports lists reports stored in object storage, newest first.
func (s *Service) ArchivedReports(ctx context.Context) ([]storage.ArchivedObject, error) {
	if s.opts.Archive == nil {
		return nil, ErrArchiveDisabled
	}
	return s.opts.Archive.List(ctx)
}

// ArchivedReport returns the content of one archived report.
func (s *Service) ArchivedReport(ctx context.Context, name string) ([]byte, error) {
	if s.opts.Archive == nil {
		return nil, ErrArchiveDisabled
	}
	return s.opts.Archive.Get(ctx, name)
}

func (s *Service) filter(column, start, end string) *reconcile.TimeFilter {
	if column == "" {
		column = s.cfg.TimeField
	}
	f := &reconcile.TimeFilter{Column: column, Start: start, End: end}
	if !f.Active() {
		return nil
	}
	return f
}

func (s *Service) logSummary(run *Run) {
	s.logger.Info("Full comparison finished",
		zap.String("batch_id", run.BatchID),
		zap.Int("tables", run.Summary.TotalTables),
		zap.Int("consistent", run.Summary.ConsistentTables),
		zap.Int("inconsistent", run.Summary.InconsistentTables),
		zap.Int("failed", len(run.Errors)),
		zap.Duration("duration", run.FinishedAt.Sub(run.StartedAt)))

	for _, r := range run.Results {
		if r.Consistent {
			continue
		}
		s.logger.Warn("Table inconsistent",
			zap.String("table", r.TableName),
			zap.Int64("record_count", r.RecordCount),
			zap.Int64("replica_count", r.ReplicaCount),
			zap.Int("only_in_record", len(r.OnlyInRecord)),
			zap.Int("only_in_replica", len(r.OnlyInReplica)),
			zap.Int("field_differences", len(r.FieldDifferences)))
	}
}

// writeReports stores the text and JSON reports of run locally and in the
// archive. Failures are logged; the run itself already succeeded. The text
// report is kept even when the JSON report cannot be rendered.
func (s *Service) writeReports(ctx context.Context, run *Run) {
	text := []byte(report.Text(run.Results, run.FinishedAt))
	data, err := report.JSON(run.Results)
	if err != nil {
		s.logger.Error("Failed to render JSON report", zap.Error(err))
		data = nil
	}

	if s.cfg.ReportDir != "" {
		path, err := report.SaveToFile(s.cfg.ReportDir, report.FileName(run.FinishedAt, "txt"), text)
		if err != nil {
			s.logger.Error("Failed to save text report", zap.Error(err))
		} else {
			run.ReportPath = path
			s.logger.Info("Report saved", zap.String("path", path))
		}
		if data != nil {
			if _, err := report.SaveToFile(s.cfg.ReportDir, report.FileName(run.FinishedAt, "json"), data); err != nil {
				s.logger.Error("Failed to save JSON report", zap.Error(err))
			}
		}
	}

	if s.opts.Archive == nil {
		return
	}
	key, err := s.opts.Archive.Put(ctx, run.BatchID+".txt", "text/plain; charset=utf-8", text)
	if err != nil {
		s.logger.Error("Failed to archive report", zap.String("batch_id", run.BatchID), zap.Error(err))
		return
	}
	run.ArchiveKey = key
	if data != nil {
		if key, err := s.opts.Archive.Put(ctx, run.BatchID+".json", "application/json", data); err != nil {
			s.logger.Warn("Failed to archive JSON report", zap.Error(err))
		} else {
			run.ArchiveKey = key
		}
	}
	if removed, err := s.opts.Archive.Prune(ctx); err != nil {
		s.logger.Warn("Failed to prune report archive", zap.Error(err))
	} else if removed > 0 {
		s.logger.Info("Pruned archived reports", zap.Int("removed", removed))
	}
}

func (s *Service) saveHistory(ctx context.Context, run *Run) {
	repo := s.opts.History
	if repo == nil {
		return
	}

	records := make([]history.ValidationRecord, 0, len(run.Results)+len(run.Errors))
	for _, r := range run.Results {
		rec := history.FromResult(r, run.BatchID)
		rec.ReportPath = run.ReportPath
		records = append(records, rec)
	}
	for _, e := range run.Errors {
		records = append(records, history.FailedRecord(run.BatchID, e.Table, e.Error, run.FinishedAt))
	}
	if err := repo.BatchSave(ctx, records); err != nil {
		s.logger.Error("Failed to save validation history", zap.Error(err))
		return
	}

	if err := repo.SaveDailySummary(ctx, run.FinishedAt, run.Summary.TotalTables, run.Summary.ConsistentTables,
		run.Summary.DurationMs, run.Summary.Differences); err != nil {
		s.logger.Error("Failed to save daily summary", zap.Error(err))
	}
}
