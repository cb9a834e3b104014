package reconcile

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareRows_CasingAcrossDialects(t *testing.T) {
	record := newMemSource("record", UpperCase)
	replica := newMemSource("replica", LowerCase)

	recordRows := []Row{
		{"ID": int64(1), "NAME": "Alice", "EMAIL": "a@example.com"},
		{"ID": int64(2), "NAME": "Bob", "EMAIL": "b@example.com"},
	}
	replicaRows := []Row{
		{"id": int64(1), "name": "Alice ", "email": "a@example.com"},
		{"id": int64(2), "name": "Bobby", "email": "b@example.com"},
	}

	diffs := CompareRows([]any{int64(1), int64(2)}, "id", record, recordRows, replica, replicaRows, ignoreSet())

	require.Len(t, diffs, 1)
	diff, ok := diffs["2"]
	require.True(t, ok)
	assert.Equal(t, int64(2), diff.PrimaryKey)
	assert.Equal(t, recordRows[1], diff.RecordData)
	assert.Equal(t, replicaRows[1], diff.ReplicaData)
	assert.Equal(t, map[string]FieldValuePair{
		"name": {FieldName: "name", RecordValue: "Bob", ReplicaValue: "Bobby"},
	}, diff.DifferentFields)
}

func TestCompareRows_TrimsButKeepsCase(t *testing.T) {
	src := newMemSource("s", PreserveCase)
	recordRows := []Row{{"id": 7, "name": "Alice"}}
	replicaRows := []Row{{"id": 7, "name": "alice "}}

	diffs := CompareRows([]any{7}, "id", src, recordRows, src, replicaRows, ignoreSet())

	require.Contains(t, diffs, "7")
	pair := diffs["7"].DifferentFields["name"]
	assert.Equal(t, "Alice", pair.RecordValue)
	assert.Equal(t, "alice ", pair.ReplicaValue, "raw value is reported, not the normalized one")
}

func TestCompareRows_IgnoreFields(t *testing.T) {
	src := newMemSource("s", PreserveCase)
	recordRows := []Row{{"id": 1, "updated_at": "2024-01-01", "Note": "x"}}
	replicaRows := []Row{{"id": 1, "updated_at": "2024-02-02", "note": "y"}}

	diffs := CompareRows([]any{1}, "id", src, recordRows, src, replicaRows, ignoreSet([]string{"UPDATED_AT"}, []string{" note "}))
	assert.Empty(t, diffs)

	diffs = CompareRows([]any{1}, "id", src, recordRows, src, replicaRows, ignoreSet([]string{"updated_at"}))
	require.Contains(t, diffs, "1")
	assert.NotContains(t, diffs["1"].DifferentFields, "updated_at")
	assert.Contains(t, diffs["1"].DifferentFields, "note")
}

func TestCompareRows_SchemaDriftIsAFieldDifference(t *testing.T) {
	src := newMemSource("s", PreserveCase)
	recordRows := []Row{{"id": 1, "name": "a", "legacy": "v"}}
	replicaRows := []Row{{"id": 1, "name": "a"}}

	diffs := CompareRows([]any{1}, "id", src, recordRows, src, replicaRows, ignoreSet())

	require.Contains(t, diffs, "1")
	assert.Equal(t, FieldValuePair{FieldName: "legacy", RecordValue: "v", ReplicaValue: nil}, diffs["1"].DifferentFields["legacy"])
}

func TestCompareRows_ReadSkewIsSkipped(t *testing.T) {
	src := newMemSource("s", PreserveCase)
	recordRows := []Row{{"id": 1, "v": "a"}, {"id": 2, "v": "b"}}
	replicaRows := []Row{{"id": 1, "v": "changed"}}

	diffs := CompareRows([]any{1, 2}, "id", src, recordRows, src, replicaRows, ignoreSet())

	assert.Len(t, diffs, 1)
	assert.Contains(t, diffs, "1")
	assert.NotContains(t, diffs, "2")
}

func TestCompareRows_NormalizedEqualValues(t *testing.T) {
	src := newMemSource("s", PreserveCase)
	recordRows := []Row{{"id": 1, "amount": int64(5), "label": " x "}}
	replicaRows := []Row{{"id": 1, "amount": 5.0, "label": "x"}}

	assert.Empty(t, CompareRows([]any{1}, "id", src, recordRows, src, replicaRows, ignoreSet()))
}

func TestCompareRows_NaNOnBothSides(t *testing.T) {
	src := newMemSource("s", PreserveCase)
	recordRows := []Row{{"id": 1, "score": math.NaN()}}
	replicaRows := []Row{{"id": 1, "score": math.NaN()}}

	assert.Empty(t, CompareRows([]any{1}, "id", src, recordRows, src, replicaRows, ignoreSet()))
}

func TestFieldDifference_JSONWithNonFiniteFloats(t *testing.T) {
	src := newMemSource("s", PreserveCase)
	recordRows := []Row{{"id": 1, "score": math.NaN(), "ratio": math.Inf(1)}}
	replicaRows := []Row{{"id": 1, "score": 2.5, "ratio": math.Inf(1)}}

	diffs := CompareRows([]any{1}, "id", src, recordRows, src, replicaRows, ignoreSet())
	require.Contains(t, diffs, "1")

	data, err := json.Marshal(diffs)
	require.NoError(t, err)

	var decoded map[string]struct {
		RecordData      map[string]any            `json:"record_data"`
		DifferentFields map[string]map[string]any `json:"different_fields"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "NaN", decoded["1"].RecordData["score"])
	assert.Equal(t, "+Inf", decoded["1"].RecordData["ratio"])
	assert.Equal(t, "NaN", decoded["1"].DifferentFields["score"]["record_value"])
	assert.Equal(t, 2.5, decoded["1"].DifferentFields["score"]["replica_value"])
}
