package reconcile

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// memSource is an in-memory Source. Rows are stored in the source's own
// column casing, ordered by key.
type memSource struct {
	name    string
	casing  CaseFunc
	rows    map[string][]Row
	columns map[string][]string

	countErr error
	keysErr  error
	rowsErr  error

	// vanish lists keys that disappear between key extraction and row fetch.
	vanish map[any]bool

	mu          sync.Mutex
	rowBatches  [][]any
	lastFilters []*TimeFilter
}

func newMemSource(name string, casing CaseFunc) *memSource {
	return &memSource{
		name:    name,
		casing:  casing,
		rows:    make(map[string][]Row),
		columns: make(map[string][]string),
		vanish:  make(map[any]bool),
	}
}

// add stores rows for table using canonical lower-case field names, which
// are converted into the source's casing.
func (m *memSource) add(table string, rows ...map[string]any) *memSource {
	for _, r := range rows {
		row := make(Row, len(r))
		for k, v := range r {
			row[m.casing(k)] = v
		}
		m.rows[table] = append(m.rows[table], row)
		for k := range r {
			if !slices.Contains(m.columns[table], m.casing(k)) {
				m.columns[table] = append(m.columns[table], m.casing(k))
			}
		}
	}
	return m
}

func (m *memSource) Name() string { return m.name }

func (m *memSource) ColumnName(field string) string { return m.casing(field) }

func (m *memSource) Columns(_ context.Context, table string) ([]string, error) {
	return m.columns[table], nil
}

func (m *memSource) matches(row Row, filter *TimeFilter) bool {
	if !filter.Active() {
		return true
	}
	v := fmt.Sprint(row[m.casing(filter.Column)])
	if v < filter.Start {
		return false
	}
	if filter.HasEnd() && v > filter.End {
		return false
	}
	return true
}

func (m *memSource) record(filter *TimeFilter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilters = append(m.lastFilters, filter)
}

func (m *memSource) Count(_ context.Context, table string, filter *TimeFilter) (int64, error) {
	m.record(filter)
	if m.countErr != nil {
		return 0, m.countErr
	}
	var n int64
	for _, row := range m.rows[table] {
		if m.matches(row, filter) {
			n++
		}
	}
	return n, nil
}

func (m *memSource) Keys(_ context.Context, table, keyColumn string, filter *TimeFilter) ([]any, error) {
	m.record(filter)
	if m.keysErr != nil {
		return nil, m.keysErr
	}
	keys := []any{}
	for _, row := range m.rows[table] {
		if m.matches(row, filter) {
			keys = append(keys, row[m.casing(keyColumn)])
		}
	}
	return keys, nil
}

func (m *memSource) Rows(_ context.Context, table, keyColumn string, keys []any, filter *TimeFilter) ([]Row, error) {
	m.record(filter)
	m.mu.Lock()
	m.rowBatches = append(m.rowBatches, slices.Clone(keys))
	m.mu.Unlock()
	if m.rowsErr != nil {
		return nil, m.rowsErr
	}
	wanted := make(map[any]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}
	var out []Row
	for _, row := range m.rows[table] {
		key := row[m.casing(keyColumn)]
		if wanted[key] && !m.vanish[key] && m.matches(row, filter) {
			out = append(out, row)
		}
	}
	return out, nil
}
