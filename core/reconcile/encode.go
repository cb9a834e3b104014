package reconcile

import (
	"encoding/json"
	"math"
	"strconv"
)

// MarshalJSON encodes r with non-finite floats written as strings
// ("NaN", "+Inf", "-Inf"), which encoding/json rejects otherwise.
func (r Row) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = jsonSafe(v)
	}
	return json.Marshal(out)
}

// MarshalJSON encodes p with non-finite floats written as strings.
func (p FieldValuePair) MarshalJSON() ([]byte, error) {
	type pair FieldValuePair
	return json.Marshal(pair{
		FieldName:    p.FieldName,
		RecordValue:  jsonSafe(p.RecordValue),
		ReplicaValue: jsonSafe(p.ReplicaValue),
	})
}

func jsonSafe(v any) any {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case *float64:
		if x == nil {
			return v
		}
		f = *x
	default:
		return v
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return v
}
