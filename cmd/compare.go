package cmd

import (
	"fmt"
	"os"
	"time"

	"db-validator/core/reconcile"
	"db-validator/feature/validation"
	"db-validator/feature/validation/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare [table...]",
	Short: "Compare tables between record and replica",
	Long: `Compares the given tables, or every configured table when none are given.

Without tables, ignored fields or a time window this is a full run: it gets a
batch id, is stored in history and archived like a scheduled run. Otherwise
the comparison is ad hoc and nothing is persisted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		flags := cmd.Flags()
		format, _ := flags.GetString("format")
		out, _ := flags.GetString("out")
		failOnDiff, _ := flags.GetBool("fail-on-diff")
		ignore, _ := flags.GetStringSlice("ignore")
		start, _ := flags.GetString("start")
		end, _ := flags.GetString("end")
		timeField, _ := flags.GetString("time-field")

		if format == "xlsx" && out == "" {
			return fmt.Errorf("--format xlsx requires --out")
		}

		rt, err := newRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		var (
			results []reconcile.ComparisonResult
			errs    []validation.TableError
		)
		if len(args) == 0 && len(ignore) == 0 && start == "" {
			run, err := rt.service.CompareAll(ctx)
			if err != nil {
				return err
			}
			results, errs = run.Results, run.Errors
			rt.logger.Info("Full run completed", zap.String("batch_id", run.BatchID))
		} else {
			results, errs = rt.service.CompareSelected(ctx, args, validation.DataRequest{
				IgnoredFields: ignore,
				StartTime:     start,
				EndTime:       end,
				TimeField:     timeField,
			})
		}

		data, err := render(format, results)
		if err != nil {
			return err
		}
		if out == "" {
			if _, err := os.Stdout.Write(data); err != nil {
				return err
			}
		} else {
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			rt.logger.Info("Report written", zap.String("file", out))
		}

		for _, e := range errs {
			rt.logger.Error("Table not compared", zap.String("table", e.Table), zap.String("error", e.Error))
		}
		if len(errs) > 0 {
			return fmt.Errorf("%d table(s) could not be compared", len(errs))
		}
		if s := report.Summarize(results); failOnDiff && s.InconsistentTables > 0 {
			return fmt.Errorf("%d of %d table(s) inconsistent", s.InconsistentTables, s.TotalTables)
		}
		return nil
	},
}

func render(format string, results []reconcile.ComparisonResult) ([]byte, error) {
	switch format {
	case "text", "":
		return []byte(report.Text(results, time.Now())), nil
	case "compact":
		return []byte(report.Compact(results, time.Now())), nil
	case "json":
		return report.JSON(results)
	case "xlsx":
		return report.XLSX(results)
	default:
		return nil, fmt.Errorf("unknown format %q (text, compact, json, xlsx)", format)
	}
}

func init() {
	compareCmd.Flags().StringP("format", "f", "text", "Output format: text, compact, json, xlsx")
	compareCmd.Flags().StringP("out", "o", "", "Write the report to a file instead of stdout")
	compareCmd.Flags().StringSlice("ignore", nil, "Extra fields to ignore (comma separated)")
	compareCmd.Flags().String("start", "", "Inclusive window start (requires a time field)")
	compareCmd.Flags().String("end", "", "Inclusive window end")
	compareCmd.Flags().String("time-field", "", "Time column of the window (default validator.time_field)")
	compareCmd.Flags().Bool("fail-on-diff", false, "Exit non-zero when any table is inconsistent")
	RootCmd.AddCommand(compareCmd)
}
