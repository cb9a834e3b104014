package report

import (
	"fmt"

	"db-validator/core/reconcile"
	"db-validator/core/utils"

	"github.com/xuri/excelize/v2"
)

const (
	// SummarySheet lists one row per table.
	SummarySheet = "Summary"
	// DifferencesSheet lists one row per missing key or differing field.
	DifferencesSheet = "Differences"

	// ContentTypeXLSX is the MIME type of XLSX output.
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Kinds of rows on the differences sheet.
const (
	KindMissingInReplica = "missing in replica"
	KindMissingInRecord  = "missing in record"
	KindFieldMismatch    = "field mismatch"
)

// XLSX renders results as a workbook with a summary sheet and a
// differences sheet.
func XLSX(results []reconcile.ComparisonResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to prepare workbook: %w", err)
	}
	if _, err := f.NewSheet(DifferencesSheet); err != nil {
		return nil, fmt.Errorf("failed to prepare workbook: %w", err)
	}

	summary := [][]any{{"Table", "Status", "Record count", "Replica count", "Only in record", "Only in replica", "Field differences", "Duration (ms)"}}
	differences := [][]any{{"Table", "Key", "Field", "Record value", "Replica value", "Type"}}

	for _, r := range results {
		summary = append(summary, []any{
			r.TableName, status(r.Consistent), r.RecordCount, r.ReplicaCount,
			len(r.OnlyInRecord), len(r.OnlyInReplica), len(r.FieldDifferences), r.DurationMs,
		})
		for _, k := range r.OnlyInRecord {
			differences = append(differences, []any{r.TableName, reconcile.KeyString(k), "*", "present", "absent", KindMissingInReplica})
		}
		for _, k := range r.OnlyInReplica {
			differences = append(differences, []any{r.TableName, reconcile.KeyString(k), "*", "absent", "present", KindMissingInRecord})
		}
		for _, key := range SortedKeys(r.FieldDifferences) {
			diff := r.FieldDifferences[key]
			for _, field := range sortedFields(diff.DifferentFields) {
				pair := diff.DifferentFields[field]
				differences = append(differences, []any{
					r.TableName, key, pair.FieldName,
					utils.ToString(pair.RecordValue), utils.ToString(pair.ReplicaValue), KindFieldMismatch,
				})
			}
		}
	}

	if err := writeRows(f, SummarySheet, summary); err != nil {
		return nil, err
	}
	if err := writeRows(f, DifferencesSheet, differences); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
