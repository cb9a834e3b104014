package reconcile

import (
	"strings"
	"time"
)

// DefaultBatchSize is used when Config.BatchSize is not positive.
const DefaultBatchSize = 1000

// DefaultPrimaryKey is used when Config.PrimaryKey is empty.
const DefaultPrimaryKey = "id"

// Row is a single table row as returned by a Source, keyed by column name
// in that source's own casing.
type Row map[string]any

// TimeFilter restricts every query of a comparison to a time window.
// The filter is applied only when both Column and Start are set; End is optional.
type TimeFilter struct {
	// Column is the time column the window applies to (e.g. "created_at").
	Column string `json:"time_field,omitempty"`

	// Start is the inclusive lower bound.
	Start string `json:"start_time,omitempty"`

	// End is the inclusive upper bound. Empty means unbounded.
	End string `json:"end_time,omitempty"`
}

// Active reports whether the filter should be applied to queries.
func (f *TimeFilter) Active() bool {
	return f != nil && strings.TrimSpace(f.Column) != "" && strings.TrimSpace(f.Start) != ""
}

// HasEnd reports whether an upper bound is applied.
func (f *TimeFilter) HasEnd() bool {
	return f.Active() && strings.TrimSpace(f.End) != ""
}

// Config carries everything a comparison needs. It is passed explicitly into
// every Engine call; there is no process-wide reconcile state.
type Config struct {
	// Tables is the ordered list of tables to audit. It doubles as the
	// allow-list for table identifiers.
	Tables []string

	// PrimaryKey is the single key column used to align rows.
	PrimaryKey string

	// BatchSize bounds the number of keys per row-fetch query.
	BatchSize int

	// IgnoreFields are never reported as differences (case-insensitive).
	IgnoreFields []string

	// TimeFilter is an optional window for partial audits.
	TimeFilter *TimeFilter
}

// WithDefaults returns a copy of c with zero values replaced by defaults.
func (c Config) WithDefaults() Config {
	if strings.TrimSpace(c.PrimaryKey) == "" {
		c.PrimaryKey = DefaultPrimaryKey
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	return c
}

// FieldValuePair holds the raw values of one differing field.
type FieldValuePair struct {
	FieldName    string `json:"field_name"`
	RecordValue  any    `json:"record_value"`
	ReplicaValue any    `json:"replica_value"`
}

// FieldDifference describes one row that exists on both sides but differs
// in at least one non-ignored field.
type FieldDifference struct {
	// PrimaryKey is the raw key value.
	PrimaryKey any `json:"primary_key"`

	// RecordData is the full row as read from the record side.
	RecordData Row `json:"record_data"`

	// ReplicaData is the full row as read from the replica side.
	ReplicaData Row `json:"replica_data"`

	// DifferentFields maps lower-cased field names to their raw values.
	DifferentFields map[string]FieldValuePair `json:"different_fields"`
}

// ComparisonResult is the outcome of comparing a single table.
type ComparisonResult struct {
	TableName    string `json:"table_name"`
	RecordCount  int64  `json:"record_count"`
	ReplicaCount int64  `json:"replica_count"`
	Consistent   bool   `json:"consistent"`

	// OnlyInRecord lists keys missing from the replica side.
	OnlyInRecord []any `json:"only_in_record"`

	// OnlyInReplica lists keys missing from the record side.
	OnlyInReplica []any `json:"only_in_replica"`

	// FieldDifferences is keyed by the string form of the primary key
	// (see KeyString); the raw key is kept in FieldDifference.PrimaryKey.
	FieldDifferences map[string]FieldDifference `json:"field_differences"`

	Duration   time.Duration `json:"-"`
	DurationMs int64         `json:"duration_ms"`
	ComparedAt time.Time     `json:"compared_at"`
}

// IsConsistent recomputes the consistency flag from the result contents.
func (r *ComparisonResult) IsConsistent() bool {
	return len(r.OnlyInRecord) == 0 && len(r.OnlyInReplica) == 0 && len(r.FieldDifferences) == 0
}

// TableCountComparison is the count-only view of a (possibly time-filtered) table.
type TableCountComparison struct {
	TableName    string    `json:"table_name"`
	StartTime    string    `json:"start_time,omitempty"`
	EndTime      string    `json:"end_time,omitempty"`
	RecordCount  int64     `json:"record_count"`
	ReplicaCount int64     `json:"replica_count"`
	Ratio        float64   `json:"ratio"`
	ComparedAt   time.Time `json:"compared_at"`
}

// TableDataComparison is the filtered single-table view, produced by the same
// mechanics as ComparisonResult.
type TableDataComparison struct {
	TableName        string                     `json:"table_name"`
	RecordCount      int64                      `json:"record_count"`
	ReplicaCount     int64                      `json:"replica_count"`
	Ratio            float64                    `json:"ratio"`
	Consistent       bool                       `json:"consistent"`
	OnlyInRecord     []any                      `json:"only_in_record"`
	OnlyInReplica    []any                      `json:"only_in_replica"`
	FieldDifferences map[string]FieldDifference `json:"field_differences"`
}

// Ratio returns replica/record, or 0 when the record side is empty.
func Ratio(recordCount, replicaCount int64) float64 {
	if recordCount <= 0 {
		return 0.0
	}
	return float64(replicaCount) / float64(recordCount)
}
