package reconcile

import (
	"context"
	"strings"
)

// Source is a read-only view over one of the two relational data sources.
// The engine is written against this interface only; concrete sources live
// in core/datasource.
//
// Identifiers passed to a Source have already been validated by the engine.
// Implementations must still quote them and bind all values as parameters.
// Errors are returned unchanged; sources never retry.
type Source interface {
	// Name identifies the source in logs (e.g. "record", "replica").
	Name() string

	// Count returns the number of rows in table matching filter.
	Count(ctx context.Context, table string, filter *TimeFilter) (int64, error)

	// Keys returns the primary-key values of table matching filter,
	// ordered by key.
	Keys(ctx context.Context, table, keyColumn string, filter *TimeFilter) ([]any, error)

	// Rows returns the full rows whose key is in keys and that match filter.
	Rows(ctx context.Context, table, keyColumn string, keys []any, filter *TimeFilter) ([]Row, error)

	// ColumnName maps a canonical (lower-case) field name to the casing this
	// source uses in returned rows.
	ColumnName(field string) string

	// Columns lists the column names of table, in this source's casing.
	Columns(ctx context.Context, table string) ([]string, error)
}

// CaseFunc converts a canonical field name into a source-specific casing.
type CaseFunc func(string) string

var (
	// UpperCase is used by dialects that report identifiers upper-cased.
	UpperCase CaseFunc = strings.ToUpper
	// LowerCase is used by dialects that report identifiers lower-cased.
	LowerCase CaseFunc = strings.ToLower
	// PreserveCase leaves the name as given.
	PreserveCase CaseFunc = func(s string) string { return s }
)

// CaseByName resolves a configured case convention ("upper", "lower",
// "preserve"). Unknown names fall back to PreserveCase.
func CaseByName(name string) CaseFunc {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "upper":
		return UpperCase
	case "lower":
		return LowerCase
	default:
		return PreserveCase
	}
}

// lookupField reads field from row using the source's casing first and a
// case-insensitive scan as fallback.
func lookupField(row Row, src Source, field string) (any, bool) {
	if v, ok := row[src.ColumnName(field)]; ok {
		return v, true
	}
	for name, v := range row {
		if strings.EqualFold(name, field) {
			return v, true
		}
	}
	return nil, false
}
