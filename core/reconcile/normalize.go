package reconcile

import (
	"math"
	"math/big"
	"reflect"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Normalize maps a raw column value to its comparison form so that the same
// logical value read through two different dialects compares equal:
//
//   - any integer, float or decimal value becomes a float64
//   - strings (and []byte) are whitespace-trimmed; case is preserved
//   - time.Time becomes float64 epoch milliseconds
//   - nil stays nil
//
// Every other value is returned unchanged. Normalize never fails.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	case decimal.Decimal:
		return x.InexactFloat64()
	case *big.Int:
		if x == nil {
			return nil
		}
		f, _ := new(big.Float).SetInt(x).Float64()
		return f
	case pgtype.Numeric:
		if !x.Valid {
			return nil
		}
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return x
		}
		return f.Float64
	case string:
		return strings.TrimSpace(x)
	case []byte:
		return strings.TrimSpace(string(x))
	case time.Time:
		return float64(x.UnixMilli())
	}

	// Dereference pointers produced by some scanners.
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	}
	return v
}

// Equivalent reports whether a and b are equal after normalization. NaN is
// equal to NaN.
func Equivalent(a, b any) bool {
	na, nb := Normalize(a), Normalize(b)
	if fa, ok := na.(float64); ok {
		if fb, ok := nb.(float64); ok && math.IsNaN(fa) && math.IsNaN(fb) {
			return true
		}
	}
	return reflect.DeepEqual(na, nb)
}
