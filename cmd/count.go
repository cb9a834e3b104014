package cmd

import (
	"encoding/json"
	"fmt"

	"db-validator/feature/validation"

	"github.com/spf13/cobra"
)

// countCmd represents the count command
var countCmd = &cobra.Command{
	Use:   "count [table...]",
	Short: "Compare row counts between record and replica",
	Long:  `Compares row counts of the given tables (default: every configured table), optionally within a time window.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		jsonOutput, _ := cmd.Flags().GetBool("json")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")
		timeField, _ := cmd.Flags().GetString("time-field")

		rt, err := newRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		results, err := rt.service.CompareCounts(ctx, validation.CountRequest{
			Tables:    args,
			StartTime: start,
			EndTime:   end,
			TimeField: timeField,
		})
		if err != nil {
			return fmt.Errorf("count comparison failed: %w", err)
		}

		if jsonOutput {
			data, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Println("\n=== Table Counts ===")
		for _, r := range results {
			marker := "OK"
			if r.RecordCount != r.ReplicaCount {
				marker = "DRIFT"
			}
			fmt.Printf("%-5s %-32s record=%d replica=%d ratio=%.4f\n", marker, r.TableName, r.RecordCount, r.ReplicaCount, r.Ratio)
		}
		return nil
	},
}

func init() {
	countCmd.Flags().Bool("json", false, "Print results as JSON")
	countCmd.Flags().String("start", "", "Inclusive window start (requires a time field)")
	countCmd.Flags().String("end", "", "Inclusive window end")
	countCmd.Flags().String("time-field", "", "Time column of the window (default validator.time_field)")
	RootCmd.AddCommand(countCmd)
}
