package reconcile

import (
	"context"
	"maps"
	"strings"

	"go.uber.org/zap"
)

// ignoreSet merges the configured and per-request ignore lists into a
// lower-cased lookup set.
func ignoreSet(lists ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, list := range lists {
		for _, f := range list {
			f = strings.ToLower(strings.TrimSpace(f))
			if f != "" {
				set[f] = struct{}{}
			}
		}
	}
	return set
}

// indexRows builds a key -> row lookup, reading the key column with the
// source's own casing.
func indexRows(rows []Row, src Source, keyColumn string) map[any]Row {
	index := make(map[any]Row, len(rows))
	for _, row := range rows {
		key, ok := lookupField(row, src, keyColumn)
		if !ok {
			continue
		}
		index[hashKey(key)] = row
	}
	return index
}

// CompareRows aligns the rows of one batch by key and returns the rows that
// differ in at least one non-ignored field. Keys missing on either side are
// skipped: with no snapshot isolation a concurrent delete between key
// extraction and row fetch is expected and is not a divergence.
func CompareRows(keys []any, keyColumn string, record Source, recordRows []Row, replica Source, replicaRows []Row, ignore map[string]struct{}) map[string]FieldDifference {
	recordIndex := indexRows(recordRows, record, keyColumn)
	replicaIndex := indexRows(replicaRows, replica, keyColumn)

	out := make(map[string]FieldDifference)
	for _, key := range keys {
		h := hashKey(key)
		recordRow, ok := recordIndex[h]
		if !ok {
			continue
		}
		replicaRow, ok := replicaIndex[h]
		if !ok {
			continue
		}
		if diff, ok := compareRow(key, recordRow, replicaRow, record, replica, ignore); ok {
			out[KeyString(key)] = diff
		}
	}
	return out
}

// compareRow compares two rows field by field over the union of their
// (case-folded) field names. A field present on one side only compares
// against nil.
func compareRow(key any, recordRow, replicaRow Row, record, replica Source, ignore map[string]struct{}) (FieldDifference, bool) {
	fields := make(map[string]struct{}, len(recordRow))
	for name := range recordRow {
		fields[strings.ToLower(name)] = struct{}{}
	}
	for name := range replicaRow {
		fields[strings.ToLower(name)] = struct{}{}
	}

	differing := make(map[string]FieldValuePair)
	for field := range fields {
		if _, skip := ignore[field]; skip {
			continue
		}
		recordValue, _ := lookupField(recordRow, record, field)
		replicaValue, _ := lookupField(replicaRow, replica, field)
		if Equivalent(recordValue, replicaValue) {
			continue
		}
		differing[field] = FieldValuePair{
			FieldName:    field,
			RecordValue:  recordValue,
			ReplicaValue: replicaValue,
		}
	}

	if len(differing) == 0 {
		return FieldDifference{}, false
	}
	return FieldDifference{
		PrimaryKey:      key,
		RecordData:      recordRow,
		ReplicaData:     replicaRow,
		DifferentFields: differing,
	}, true
}

// diffCommon runs the common keys through CompareRows in chunks of
// cfg.BatchSize, fetching each chunk from both sides concurrently.
func (e *Engine) diffCommon(ctx context.Context, table string, cfg Config, common []any, ignore map[string]struct{}) (map[string]FieldDifference, error) {
	out := make(map[string]FieldDifference)
	for start := 0; start < len(common); start += cfg.BatchSize {
		end := min(start+cfg.BatchSize, len(common))
		batch := common[start:end]

		recordRows, replicaRows, err := paired(ctx, e.record, e.replica, func(ctx context.Context, src Source) ([]Row, error) {
			return src.Rows(ctx, table, cfg.PrimaryKey, batch, cfg.TimeFilter)
		})
		if err != nil {
			return nil, err
		}

		diffs := CompareRows(batch, cfg.PrimaryKey, e.record, recordRows, e.replica, replicaRows, ignore)
		e.logger.Debug("Batch compared",
			zap.String("table", table),
			zap.Int("from", start),
			zap.Int("to", end),
			zap.Int("differences", len(diffs)),
		)
		maps.Copy(out, diffs)
	}
	return out, nil
}
