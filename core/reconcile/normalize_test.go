package reconcile

import (
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	str := " x "

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"int", 5, 5.0},
		{"int64", int64(-7), -7.0},
		{"uint8", uint8(3), 3.0},
		{"float32", float32(1.5), 1.5},
		{"float64", 2.25, 2.25},
		{"decimal", decimal.RequireFromString("12.50"), 12.5},
		{"string trimmed", "  abc \t", "abc"},
		{"string case kept", "Alice", "Alice"},
		{"bytes", []byte(" abc "), "abc"},
		{"time", ts, float64(ts.UnixMilli())},
		{"bool untouched", true, true},
		{"pointer", &str, "x"},
		{"nil pointer", (*string)(nil), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_PgNumeric(t *testing.T) {
	var n pgtype.Numeric
	assert.NoError(t, n.Scan("42.5"))
	assert.Equal(t, 42.5, Normalize(n))

	assert.Nil(t, Normalize(pgtype.Numeric{}))
}

func TestEquivalent(t *testing.T) {
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	local := ts.In(time.FixedZone("UTC+8", 8*3600))

	assert.True(t, Equivalent(5, 5.0), "int and float")
	assert.True(t, Equivalent(int32(5), decimal.NewFromInt(5)), "int and decimal")
	assert.True(t, Equivalent(" abc ", "abc"), "untrimmed string")
	assert.True(t, Equivalent(ts, ts.UnixMilli()), "timestamp and epoch millis")
	assert.True(t, Equivalent(ts, local), "same instant, different zone")
	assert.True(t, Equivalent(nil, nil))

	assert.False(t, Equivalent("Alice", "alice "), "case is preserved")
	assert.False(t, Equivalent(nil, ""), "null is not empty string")
	assert.False(t, Equivalent(nil, 0))
	assert.False(t, Equivalent(1, 2))
}

func TestEquivalent_NaN(t *testing.T) {
	assert.True(t, Equivalent(math.NaN(), math.NaN()))
	assert.True(t, Equivalent(float32(math.NaN()), math.NaN()))
	assert.False(t, Equivalent(math.NaN(), 0.0))
	assert.False(t, Equivalent(1.5, math.NaN()))
}
