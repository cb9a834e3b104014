package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDiffKeys(t *testing.T) {
	tests := []struct {
		name          string
		record        []any
		replica       []any
		onlyInRecord  []any
		onlyInReplica []any
		common        []any
	}{
		{
			name:          "disjoint tails",
			record:        []any{1, 2, 3, 4, 5},
			replica:       []any{1, 2, 3, 4, 6},
			onlyInRecord:  []any{5},
			onlyInReplica: []any{6},
			common:        []any{1, 2, 3, 4},
		},
		{
			name:          "identical",
			record:        []any{"a", "b"},
			replica:       []any{"b", "a"},
			onlyInRecord:  []any{},
			onlyInReplica: []any{},
			common:        []any{"a", "b"},
		},
		{
			name:          "empty sides",
			record:        nil,
			replica:       nil,
			onlyInRecord:  []any{},
			onlyInReplica: []any{},
			common:        []any{},
		},
		{
			name:          "duplicates collapse",
			record:        []any{1, 1, 2},
			replica:       []any{2, 2, 3},
			onlyInRecord:  []any{1},
			onlyInReplica: []any{3},
			common:        []any{2},
		},
		{
			name:          "types are not normalized",
			record:        []any{int64(7)},
			replica:       []any{"7"},
			onlyInRecord:  []any{int64(7)},
			onlyInReplica: []any{"7"},
			common:        []any{},
		},
		{
			name:          "byte slice keys",
			record:        []any{[]byte("k1"), []byte("k2")},
			replica:       []any{[]byte("k2")},
			onlyInRecord:  []any{[]byte("k1")},
			onlyInReplica: []any{},
			common:        []any{[]byte("k2")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := DiffKeys(tt.record, tt.replica)
			assert.Equal(t, tt.onlyInRecord, diff.OnlyInRecord)
			assert.Equal(t, tt.onlyInReplica, diff.OnlyInReplica)
			assert.Equal(t, tt.common, diff.Common)
		})
	}
}

func TestDiffKeys_Deterministic(t *testing.T) {
	record := []any{9, 3, 7, 1, 5}
	replica := []any{2, 4, 6, 8}

	first := DiffKeys(record, replica)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DiffKeys(record, replica))
	}
	assert.Equal(t, []any{9, 3, 7, 1, 5}, first.OnlyInRecord)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "42", KeyString(int64(42)))
	assert.Equal(t, "abc", KeyString([]byte("abc")))
	assert.Equal(t, "abc", KeyString("abc"))
}

func TestDiffKeys_ValueKeyedTypes(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	diff := DiffKeys(
		[]any{decimal.RequireFromString("10.50"), ts},
		[]any{decimal.RequireFromString("10.5"), ts.In(time.FixedZone("UTC+2", 7200))},
	)

	assert.Empty(t, diff.OnlyInRecord)
	assert.Empty(t, diff.OnlyInReplica)
	assert.Len(t, diff.Common, 2)
}
