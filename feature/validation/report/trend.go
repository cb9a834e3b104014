package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"db-validator/feature/validation/history"
)

// Trend renders per-table consistency over a set of historical records.
func Trend(records []history.ValidationRecord, generatedAt time.Time) string {
	var b strings.Builder
	header(&b, "Consistency Trend Report", generatedAt)

	byTable := make(map[string][]history.ValidationRecord)
	for _, r := range records {
		byTable[r.Table] = append(byTable[r.Table], r)
	}
	tables := make([]string, 0, len(byTable))
	for t := range byTable {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	if len(tables) == 0 {
		b.WriteString("No history recorded\n")
		return b.String()
	}

	for _, table := range tables {
		runs := byTable[table]
		sort.SliceStable(runs, func(i, j int) bool {
			return runs[i].ValidationTime.Before(runs[j].ValidationTime)
		})

		consistent, failed := 0, 0
		for _, r := range runs {
			switch {
			case r.Failed:
				failed++
			case r.Consistent:
				consistent++
			}
		}
		latest := runs[len(runs)-1]

		// Failed runs compared nothing and do not count towards the rate.
		fmt.Fprintf(&b, "Table: %s\n", table)
		fmt.Fprintf(&b, "  Runs: %d\n", len(runs))
		fmt.Fprintf(&b, "  Consistent: %d (%.2f%%)\n", consistent, percent(consistent, len(runs)-failed))
		if failed > 0 {
			fmt.Fprintf(&b, "  Failed: %d\n", failed)
		}
		if latest.Failed {
			fmt.Fprintf(&b, "  Latest: FAILED at %s\n", latest.ValidationTime.Format(TimeLayout))
			fmt.Fprintf(&b, "    %s\n", latest.Remarks)
		} else {
			fmt.Fprintf(&b, "  Latest: %s at %s\n", status(latest.Consistent), latest.ValidationTime.Format(TimeLayout))
		}
		if !latest.Consistent && !latest.Failed {
			fmt.Fprintf(&b, "    Only in record: %d\n", latest.OnlyInRecordCount)
			fmt.Fprintf(&b, "    Only in replica: %d\n", latest.OnlyInReplicaCount)
			fmt.Fprintf(&b, "    Field differences: %d\n", latest.FieldDifferenceCount)
		}
		b.WriteString("\n")
	}
	return b.String()
}
