package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	assert.Equal(t, 7, ToInt(int64(7)))
	assert.Equal(t, 3, ToInt(3.9))
	assert.Equal(t, 12, ToInt(" 12 "))
	assert.Equal(t, 5, ToInt([]byte("5")))
	assert.Equal(t, 0, ToInt("abc"))
}

func TestToIntOr(t *testing.T) {
	assert.Equal(t, 50, ToIntOr("", 50))
	assert.Equal(t, 50, ToIntOr("-3", 50))
	assert.Equal(t, 10, ToIntOr("10", 50))
}

func TestToString(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 5_000_000, time.UTC)

	assert.Equal(t, "NULL", ToString(nil))
	assert.Equal(t, "abc", ToString([]byte("abc")))
	assert.Equal(t, "2024-01-15 10:30:00.005", ToString(ts))
	assert.Equal(t, "12.5", ToString(decimal.RequireFromString("12.50")))
	assert.Equal(t, "42", ToString(int64(42)))
	assert.Equal(t, " padded ", ToString(" padded "))
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool("true"))
	assert.True(t, ToBool("TRUE"))
	assert.True(t, ToBool(1))
	assert.False(t, ToBool("yes"))
	assert.False(t, ToBool(nil))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitList("a, b,,", " c "))
	assert.Nil(t, SplitList("", " , "))
}
