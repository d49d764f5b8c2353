package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cocowutech/placement/internal/llm"
	"github.com/cocowutech/placement/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session history and LLM usage",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().Int("limit", 20, "Number of recent sessions to show")
}

func runStats(cmd *cobra.Command, args []string) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return err
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	repo := db.EventRepo()
	limit, _ := cmd.Flags().GetInt("limit")

	sessions, err := repo.RecentSessions(ctx, limit)
	if err != nil {
		return err
	}
	fmt.Println("Recent sessions:")
	if len(sessions) == 0 {
		fmt.Println("  (none)")
	}
	for _, s := range sessions {
		fmt.Printf("  %s  %-10s %s -> %-3s %d/%d",
			s.Timestamp.Format("2006-01-02 15:04"), s.Track, s.StartLevel, s.FinalLevel, s.Correct, s.Asked)
		if s.FinalScore > 0 {
			fmt.Printf("  score %d", s.FinalScore)
		}
		fmt.Println()
	}

	usage, err := repo.LLMUsage(ctx)
	if err != nil {
		return err
	}
	fmt.Println("\nLLM usage:")
	if len(usage) == 0 {
		fmt.Println("  (none)")
	}
	var total float64
	for _, u := range usage {
		fmt.Printf("  %-28s %5d requests  %9d in  %9d out",
			u.Model, u.Requests, u.InputTokens, u.OutputTokens)
		if c := llm.LookupCost(u.Model); c != nil {
			cost := c.Cost(u.InputTokens, u.OutputTokens)
			total += cost
			fmt.Printf("  ~$%.4f", cost)
		}
		fmt.Println()
	}
	if total > 0 {
		fmt.Printf("  estimated total: ~$%.4f\n", total)
	}
	return nil
}
