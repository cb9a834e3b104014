package reconcile

import (
	"fmt"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

// KeyDiff is the result of comparing the key sets of both sides.
type KeyDiff struct {
	OnlyInRecord  []any
	OnlyInReplica []any
	Common        []any
}

// DiffKeys computes record−replica, replica−record and record∩replica.
// Keys are compared with native equality; no normalization is applied, so
// the same logical key stored with different types on each side surfaces as
// a pair of one-sided keys. Output order follows input order and duplicates
// are collapsed.
func DiffKeys(record, replica []any) KeyDiff {
	recordSet := make(map[any]struct{}, len(record))
	for _, k := range record {
		recordSet[hashKey(k)] = struct{}{}
	}
	replicaSet := make(map[any]struct{}, len(replica))
	for _, k := range replica {
		replicaSet[hashKey(k)] = struct{}{}
	}

	diff := KeyDiff{
		OnlyInRecord:  []any{},
		OnlyInReplica: []any{},
		Common:        []any{},
	}

	seen := make(map[any]struct{}, len(record))
	for _, k := range record {
		h := hashKey(k)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		if _, ok := replicaSet[h]; ok {
			diff.Common = append(diff.Common, k)
		} else {
			diff.OnlyInRecord = append(diff.OnlyInRecord, k)
		}
	}

	seen = make(map[any]struct{}, len(replica))
	for _, k := range replica {
		h := hashKey(k)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		if _, ok := recordSet[h]; !ok {
			diff.OnlyInReplica = append(diff.OnlyInReplica, k)
		}
	}

	return diff
}

// KeyString renders a key for use as a map key in serialisable results.
func KeyString(k any) string {
	if b, ok := k.([]byte); ok {
		return string(b)
	}
	return fmt.Sprint(k)
}

// unhashable wraps a non-comparable key so it can live in a Go map.
type unhashable struct {
	typ  string
	repr string
}

// hashKey returns a comparable stand-in for k. Comparable keys are returned
// as-is so native equality (including type) applies; decimals and
// timestamps are keyed by value.
func hashKey(k any) any {
	if k == nil {
		return nil
	}
	switch x := k.(type) {
	case []byte:
		return unhashable{typ: "[]byte", repr: string(x)}
	case decimal.Decimal:
		// holds a *big.Int, so struct equality would compare pointers
		return unhashable{typ: "decimal", repr: x.String()}
	case time.Time:
		return unhashable{typ: "time", repr: x.UTC().Format(time.RFC3339Nano)}
	}
	if !reflect.TypeOf(k).Comparable() {
		return unhashable{typ: reflect.TypeOf(k).String(), repr: fmt.Sprintf("%#v", k)}
	}
	return k
}
