package checks

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"db-validator/core/reconcile"
)

// Table status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// SchemaReport strictly types the result of a schema drift check.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport lists the columns present on one side only. Column names are
// lower-cased.
type TableReport struct {
	OnlyInRecord  []string `json:"only_in_record"`
	OnlyInReplica []string `json:"only_in_replica"`
	Status        string   `json:"status"` // "ok", "error"
}

// CheckSchema compares the column sets of every table on both sources,
// ignoring case. A table that cannot be inspected is reported in Errors and
// the remaining tables are still checked.
func CheckSchema(ctx context.Context, record, replica reconcile.Source, tables []string) (*SchemaReport, error) {
	if record == nil || replica == nil {
		return nil, fmt.Errorf("both sources are required")
	}

	report := &SchemaReport{
		Matched: true,
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
	}

	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := reconcile.ValidateIdentifier(table); err != nil {
			report.Errors = append(report.Errors, err.Error())
			report.Matched = false
			continue
		}

		recordCols, err := columnSet(ctx, record, table)
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
			report.Matched = false
			continue
		}
		replicaCols, err := columnSet(ctx, replica, table)
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
			report.Matched = false
			continue
		}

		tbl := TableReport{
			OnlyInRecord:  difference(recordCols, replicaCols),
			OnlyInReplica: difference(replicaCols, recordCols),
			Status:        StatusOK,
		}
		if len(tbl.OnlyInRecord) > 0 || len(tbl.OnlyInReplica) > 0 {
			tbl.Status = StatusError
			report.Matched = false
		}
		report.Tables[table] = tbl
	}

	return report, nil
}

func columnSet(ctx context.Context, src reconcile.Source, table string) (map[string]struct{}, error) {
	cols, err := src.Columns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %s on %s: %v", table, src.Name(), err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s not found on %s", table, src.Name())
	}
	set := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		set[strings.ToLower(c)] = struct{}{}
	}
	return set, nil
}

func difference(a, b map[string]struct{}) []string {
	out := []string{}
	for c := range a {
		if _, ok := b[c]; !ok {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
