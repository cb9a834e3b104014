package history

import (
	"time"
	"unicode/utf8"

	"db-validator/core/reconcile"
)

// ValidationRecord is one persisted table comparison.
type ValidationRecord struct {
	ID                   uint      `gorm:"column:id;primaryKey" json:"id"`
	BatchID              string    `gorm:"column:batch_id;size:64;index" json:"batch_id"`
	Table                string    `gorm:"column:table_name;size:128;index" json:"table_name"`
	RecordCount          int64     `gorm:"column:record_count" json:"record_count"`
	ReplicaCount         int64     `gorm:"column:replica_count" json:"replica_count"`
	Consistent           bool      `gorm:"column:is_consistent;index" json:"consistent"`
	Failed               bool      `gorm:"column:is_failed;index" json:"failed"`
	OnlyInRecordCount    int       `gorm:"column:only_in_record_count" json:"only_in_record_count"`
	OnlyInReplicaCount   int       `gorm:"column:only_in_replica_count" json:"only_in_replica_count"`
	FieldDifferenceCount int       `gorm:"column:field_difference_count" json:"field_difference_count"`
	DurationMs           int64     `gorm:"column:duration_ms" json:"duration_ms"`
	ValidationTime       time.Time `gorm:"column:validation_time;index" json:"validation_time"`
	ReportPath           string    `gorm:"column:report_file_path;size:512" json:"report_file_path,omitempty"`
	Remarks              string    `gorm:"column:remarks;size:1024" json:"remarks,omitempty"`
}

// TableName overrides the table name.
func (ValidationRecord) TableName() string {
	return "validation_history"
}

// ValidationSummary aggregates all runs of one calendar day.
type ValidationSummary struct {
	ID                 uint      `gorm:"column:id;primaryKey" json:"id"`
	ValidationDate     string    `gorm:"column:validation_date;size:10;uniqueIndex" json:"validation_date"` // YYYY-MM-DD
	TotalTables        int       `gorm:"column:total_tables" json:"total_tables"`
	ConsistentTables   int       `gorm:"column:consistent_tables" json:"consistent_tables"`
	InconsistentTables int       `gorm:"column:inconsistent_tables" json:"inconsistent_tables"`
	TotalDurationMs    int64     `gorm:"column:total_duration_ms" json:"total_duration_ms"`
	TotalDifferences   int       `gorm:"column:total_differences" json:"total_differences"`
	CreatedTime        time.Time `gorm:"column:created_time" json:"created_time"`
}

// TableName overrides the table name.
func (ValidationSummary) TableName() string {
	return "validation_summary"
}

// FromResult converts a comparison result into a record of batch batchID.
func FromResult(result reconcile.ComparisonResult, batchID string) ValidationRecord {
	validated := result.ComparedAt
	if validated.IsZero() {
		validated = time.Now()
	}
	return ValidationRecord{
		BatchID:              batchID,
		Table:                result.TableName,
		RecordCount:          result.RecordCount,
		ReplicaCount:         result.ReplicaCount,
		Consistent:           result.Consistent,
		OnlyInRecordCount:    len(result.OnlyInRecord),
		OnlyInReplicaCount:   len(result.OnlyInReplica),
		FieldDifferenceCount: len(result.FieldDifferences),
		DurationMs:           result.DurationMs,
		ValidationTime:       validated.UTC(),
	}
}

// maxRemarks is the size of the remarks column.
const maxRemarks = 1024

// FailedRecord records a table whose comparison errored in batch batchID.
// It is neither consistent nor inconsistent.
func FailedRecord(batchID, table, message string, at time.Time) ValidationRecord {
	return ValidationRecord{
		BatchID:        batchID,
		Table:          table,
		Failed:         true,
		ValidationTime: at.UTC(),
		Remarks:        truncate("error: "+message, maxRemarks),
	}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
