package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/finopsguard/finopsguard/pkg/finops"
)

var (
	historySince  string
	historyLimit  int
	historyCursor string
)

// historyCmd lists previously persisted analyses.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently persisted analyses",
	Long: `history lists AnalysisRecords persisted by prior check runs, newest
first.

Examples:
  finopsguard history
  finopsguard history --since 2026-07-01 --limit 20`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historySince, "since", "", "only show analyses started at or after this RFC3339 or YYYY-MM-DD timestamp")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "maximum number of analyses to return (default 50)")
	historyCmd.Flags().StringVar(&historyCursor, "cursor", "", "resume from a prior page's next_cursor")
}

func runHistory(cmd *cobra.Command, args []string) error {
	query := finops.ListQuery{Limit: historyLimit, Cursor: historyCursor}

	if historySince != "" {
		since, err := parseTimestamp(historySince)
		if err != nil {
			return fmt.Errorf("invalid --since: %w", err)
		}
		query.Since = since
	}

	list, err := core.ListRecentAnalyses(context.Background(), query)
	if err != nil {
		return err
	}

	if len(list.Items) == 0 {
		fmt.Println("No analyses recorded.")
		return nil
	}

	for _, record := range list.Items {
		fmt.Printf("%-27s %-10s %-12s $%-12s %s\n",
			record.RequestID, record.Environment, record.PolicyStatus,
			record.EstimatedMonthlyCost.StringFixed(2), record.StartedAt.Format(time.RFC3339))
	}

	if list.NextCursor != "" {
		fmt.Printf("\nmore results available; resume with --cursor %s\n", list.NextCursor)
	}
	return nil
}

func parseTimestamp(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", value)
}
