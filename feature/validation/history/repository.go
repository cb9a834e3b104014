package history

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultLimit is used by FindByTable when no positive limit is given.
const DefaultLimit = 10

const dateLayout = "2006-01-02"

// Repository persists validation history in the record-side database.
type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewRepository creates a history repository over db.
func NewRepository(db *gorm.DB, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{db: db, logger: logger, now: time.Now}
}

// Migrate creates or updates the history tables.
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(&ValidationRecord{}, &ValidationSummary{}); err != nil {
		return fmt.Errorf("failed to migrate history tables: %w", err)
	}
	return nil
}

// Save stores a single record.
func (r *Repository) Save(ctx context.Context, record *ValidationRecord) error {
	record.ValidationTime = r.timestamp(record.ValidationTime)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to save validation record for %s: %w", record.Table, err)
	}
	r.logger.Debug("Validation record saved",
		zap.String("batch_id", record.BatchID),
		zap.String("table", record.Table))
	return nil
}

// BatchSave stores records in one round trip per 100 rows.
func (r *Repository) BatchSave(ctx context.Context, records []ValidationRecord) error {
	if len(records) == 0 {
		return nil
	}
	for i := range records {
		records[i].ValidationTime = r.timestamp(records[i].ValidationTime)
	}
	if err := r.db.WithContext(ctx).CreateInBatches(records, 100).Error; err != nil {
		return fmt.Errorf("failed to save %d validation records: %w", len(records), err)
	}
	r.logger.Info("Validation records saved", zap.Int("count", len(records)))
	return nil
}

// FindByDateRange returns records validated on any day from start to end
// inclusive, newest first.
func (r *Repository) FindByDateRange(ctx context.Context, start, end time.Time) ([]ValidationRecord, error) {
	from := startOfDay(start)
	to := startOfDay(end).AddDate(0, 0, 1)

	var records []ValidationRecord
	err := r.db.WithContext(ctx).
		Where("validation_time >= ? AND validation_time < ?", from, to).
		Order("validation_time DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query history by date: %w", err)
	}
	return records, nil
}

// FindByTable returns the latest limit records of table, newest first.
func (r *Repository) FindByTable(ctx context.Context, table string, limit int) ([]ValidationRecord, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	var records []ValidationRecord
	err := r.db.WithContext(ctx).
		Where("table_name = ?", table).
		Order("validation_time DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query history of %s: %w", table, err)
	}
	return records, nil
}

// FindByBatch returns every record of one run ordered by table name.
func (r *Repository) FindByBatch(ctx context.Context, batchID string) ([]ValidationRecord, error) {
	var records []ValidationRecord
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("table_name").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query batch %s: %w", batchID, err)
	}
	return records, nil
}

// FindInconsistent returns inconsistent records of the last days days.
// Failed comparisons are not included.
func (r *Repository) FindInconsistent(ctx context.Context, days int) ([]ValidationRecord, error) {
	since := r.now().UTC().AddDate(0, 0, -days)

	var records []ValidationRecord
	err := r.db.WithContext(ctx).
		Where("is_consistent = ? AND is_failed = ? AND validation_time >= ?", false, false, since).
		Order("validation_time DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query inconsistent history: %w", err)
	}
	return records, nil
}

// SaveDailySummary inserts or replaces the summary of date's UTC day.
func (r *Repository) SaveDailySummary(ctx context.Context, date time.Time, totalTables, consistentTables int, totalDurationMs int64, totalDifferences int) error {
	summary := ValidationSummary{
		ValidationDate:     date.UTC().Format(dateLayout),
		TotalTables:        totalTables,
		ConsistentTables:   consistentTables,
		InconsistentTables: totalTables - consistentTables,
		TotalDurationMs:    totalDurationMs,
		TotalDifferences:   totalDifferences,
		CreatedTime:        r.now().UTC(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "validation_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_tables", "consistent_tables", "inconsistent_tables",
			"total_duration_ms", "total_differences",
		}),
	}).Create(&summary).Error
	if err != nil {
		return fmt.Errorf("failed to save daily summary for %s: %w", summary.ValidationDate, err)
	}
	r.logger.Info("Daily summary saved", zap.String("date", summary.ValidationDate))
	return nil
}

// FindSummaries returns the latest limit daily summaries, newest first.
func (r *Repository) FindSummaries(ctx context.Context, limit int) ([]ValidationSummary, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	var summaries []ValidationSummary
	err := r.db.WithContext(ctx).Order("validation_date DESC").Limit(limit).Find(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query daily summaries: %w", err)
	}
	return summaries, nil
}

func (r *Repository) timestamp(t time.Time) time.Time {
	if t.IsZero() {
		t = r.now()
	}
	return t.UTC()
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
