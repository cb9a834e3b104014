package cmd

import (
	"encoding/json"
	"fmt"

	"db-validator/feature/validation"

	"github.com/spf13/cobra"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show stored validation history",
	Long:  `Prints stored validation records as JSON, or a per-table trend report with --trend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		flags := cmd.Flags()
		table, _ := flags.GetString("table")
		batch, _ := flags.GetString("batch")
		days, _ := flags.GetInt("days")
		limit, _ := flags.GetInt("limit")
		inconsistent, _ := flags.GetBool("inconsistent")
		trend, _ := flags.GetBool("trend")

		rt, err := newRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		if trend {
			text, err := rt.service.Trend(ctx, days)
			if err != nil {
				return err
			}
			fmt.Print(text)
			return nil
		}

		records, err := rt.service.History(ctx, validation.HistoryQuery{
			Table:        table,
			BatchID:      batch,
			Days:         days,
			Limit:        limit,
			Inconsistent: inconsistent,
		})
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	historyCmd.Flags().String("table", "", "Only records of this table")
	historyCmd.Flags().String("batch", "", "Only records of this batch id")
	historyCmd.Flags().Int("days", 7, "Age window in days")
	historyCmd.Flags().Int("limit", 10, "Max records when filtering by table")
	historyCmd.Flags().Bool("inconsistent", false, "Only inconsistent records")
	historyCmd.Flags().Bool("trend", false, "Print a per-table trend report")
	RootCmd.AddCommand(historyCmd)
}
