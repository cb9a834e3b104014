package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"db-validator/core/reconcile"
	"db-validator/core/utils"
)

const (
	// TimeLayout is used for the generation timestamp in rendered reports.
	TimeLayout = "2006-01-02 15:04:05"

	heavyRule = "================================================================================"
	lightRule = "--------------------------------------------------------------------------------"
)

// Summary holds run-wide totals of a set of results.
type Summary struct {
	TotalTables        int   `json:"total_tables"`
	ConsistentTables   int   `json:"consistent_tables"`
	InconsistentTables int   `json:"inconsistent_tables"`
	RecordRows         int64 `json:"record_rows"`
	ReplicaRows        int64 `json:"replica_rows"`
	DurationMs         int64 `json:"duration_ms"`
	Differences        int   `json:"differences"`
}

// Summarize computes the totals of results.
func Summarize(results []reconcile.ComparisonResult) Summary {
	s := Summary{TotalTables: len(results)}
	for _, r := range results {
		if r.Consistent {
			s.ConsistentTables++
		}
		s.RecordRows += r.RecordCount
		s.ReplicaRows += r.ReplicaCount
		s.DurationMs += r.DurationMs
		s.Differences += len(r.OnlyInRecord) + len(r.OnlyInReplica) + len(r.FieldDifferences)
	}
	s.InconsistentTables = s.TotalTables - s.ConsistentTables
	return s
}

// Text renders the full human-readable report.
func Text(results []reconcile.ComparisonResult, generatedAt time.Time) string {
	var b strings.Builder
	header(&b, "Dual-Write Validation Report", generatedAt)

	s := Summarize(results)
	fmt.Fprintf(&b, "Total tables: %d\n", s.TotalTables)
	fmt.Fprintf(&b, "Consistent tables: %d\n", s.ConsistentTables)
	fmt.Fprintf(&b, "Inconsistent tables: %d\n\n", s.InconsistentTables)

	for i := range results {
		writeTable(&b, &results[i])
	}
	return b.String()
}

func header(b *strings.Builder, title string, generatedAt time.Time) {
	b.WriteString(heavyRule + "\n")
	b.WriteString(title + "\n")
	b.WriteString("Generated: " + generatedAt.Format(TimeLayout) + "\n")
	b.WriteString(heavyRule + "\n\n")
}

func writeTable(b *strings.Builder, r *reconcile.ComparisonResult) {
	b.WriteString(lightRule + "\n")
	fmt.Fprintf(b, "Table: %s\n", r.TableName)
	fmt.Fprintf(b, "Consistency: %s\n", status(r.Consistent))
	fmt.Fprintf(b, "Duration: %d ms\n\n", r.DurationMs)

	fmt.Fprintf(b, "Record count: %d\n", r.RecordCount)
	fmt.Fprintf(b, "Replica count: %d\n\n", r.ReplicaCount)

	if len(r.OnlyInRecord) > 0 {
		fmt.Fprintf(b, "Only in record: %d\n", len(r.OnlyInRecord))
		fmt.Fprintf(b, "Keys: %s\n\n", keyList(r.OnlyInRecord))
	}
	if len(r.OnlyInReplica) > 0 {
		fmt.Fprintf(b, "Only in replica: %d\n", len(r.OnlyInReplica))
		fmt.Fprintf(b, "Keys: %s\n\n", keyList(r.OnlyInReplica))
	}

	if len(r.FieldDifferences) > 0 {
		fmt.Fprintf(b, "Rows with field differences: %d\n\n", len(r.FieldDifferences))
		for _, key := range SortedKeys(r.FieldDifferences) {
			diff := r.FieldDifferences[key]
			fmt.Fprintf(b, "  Key: %s\n", key)
			for _, field := range sortedFields(diff.DifferentFields) {
				pair := diff.DifferentFields[field]
				fmt.Fprintf(b, "    Field [%s]:\n", pair.FieldName)
				fmt.Fprintf(b, "      Record:  %s\n", utils.ToString(pair.RecordValue))
				fmt.Fprintf(b, "      Replica: %s\n", utils.ToString(pair.ReplicaValue))
			}
			b.WriteString("\n")
		}
	}

	if r.Consistent {
		b.WriteString("All rows match\n")
	}
	b.WriteString("\n")
}

// Compact renders totals plus one short block per inconsistent table.
func Compact(results []reconcile.ComparisonResult, generatedAt time.Time) string {
	var b strings.Builder
	header(&b, "Dual-Write Validation Summary", generatedAt)

	s := Summarize(results)
	fmt.Fprintf(&b, "Tables: %d\n", s.TotalTables)
	fmt.Fprintf(&b, "Consistent: %d (%.2f%%)\n", s.ConsistentTables, percent(s.ConsistentTables, s.TotalTables))
	fmt.Fprintf(&b, "Inconsistent: %d\n", s.InconsistentTables)
	fmt.Fprintf(&b, "Record rows: %d\n", s.RecordRows)
	fmt.Fprintf(&b, "Replica rows: %d\n", s.ReplicaRows)
	fmt.Fprintf(&b, "Total duration: %.2f s\n\n", float64(s.DurationMs)/1000)

	if s.InconsistentTables == 0 {
		b.WriteString("All tables consistent\n")
		return b.String()
	}

	for _, r := range results {
		if r.Consistent {
			continue
		}
		fmt.Fprintf(&b, "Table: %s\n", r.TableName)
		fmt.Fprintf(&b, "  Record: %d | Replica: %d | Duration: %d ms\n", r.RecordCount, r.ReplicaCount, r.DurationMs)
		if n := len(r.OnlyInRecord); n > 0 {
			fmt.Fprintf(&b, "  Only in record: %d\n", n)
		}
		if n := len(r.OnlyInReplica); n > 0 {
			fmt.Fprintf(&b, "  Only in replica: %d\n", n)
		}
		if n := len(r.FieldDifferences); n > 0 {
			fmt.Fprintf(&b, "  Field differences: %d\n", n)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// JSON renders results as indented JSON.
func JSON(results []reconcile.ComparisonResult) ([]byte, error) {
	if results == nil {
		results = []reconcile.ComparisonResult{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return data, nil
}

// FileName returns a timestamped report file name such as
// validation_report_20240102_150405.txt.
func FileName(at time.Time, ext string) string {
	return fmt.Sprintf("validation_report_%s.%s", at.Format("20060102_150405"), strings.TrimPrefix(ext, "."))
}

// SaveToFile writes data to dir/name, creating dir when needed, and returns
// the absolute path written.
func SaveToFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}
	path, err := filepath.Abs(filepath.Join(dir, filepath.Base(name)))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return path, nil
}

// SortedKeys returns the keys of diffs in a stable order. Keys that are
// all integers sort numerically; otherwise keys sort as strings.
func SortedKeys(diffs map[string]reconcile.FieldDifference) []string {
	keys := make([]string, 0, len(diffs))
	for k := range diffs {
		keys = append(keys, k)
	}
	nums := make(map[string]int64, len(keys))
	for _, k := range keys {
		n, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			sort.Strings(keys)
			return keys
		}
		nums[k] = n
	}
	sort.Slice(keys, func(i, j int) bool { return nums[keys[i]] < nums[keys[j]] })
	return keys
}

func sortedFields(fields map[string]reconcile.FieldValuePair) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func keyList(keys []any) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = reconcile.KeyString(k)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func status(consistent bool) string {
	if consistent {
		return "CONSISTENT"
	}
	return "INCONSISTENT"
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}
