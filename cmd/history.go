package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Arizalb/jokicbt/internal/screens/result"
	"github.com/Arizalb/jokicbt/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List submitted tests and their scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		results, err := e.store.ResultRepo().Recent(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}
		if len(results) == 0 {
			fmt.Println("No tests submitted yet.")
			return nil
		}

		fmt.Printf("%-19s  %-12s  %-12s  %7s  %-9s  %s\n",
			"Submitted", "Code", "User", "Score", "Answered", "Session")
		fmt.Println(strings.Repeat("─", 100))
		for _, r := range results {
			fmt.Printf("%-19s  %-12s  %-12s  %7s  %-9s  %s\n",
				r.SubmittedAt.Local().Format("2006-01-02 15:04:05"),
				r.Code,
				truncate(r.UserID, 12),
				result.FormatScore(r.TotalScore),
				fmt.Sprintf("%d/%d", r.Answered, r.QuestionCount),
				r.SessionID,
			)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the lifecycle events of one test session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		events, err := e.store.EventRepo().QuerySessionEvents(ctx, store.QueryOpts{SessionID: args[0]})
		if err != nil {
			return fmt.Errorf("query session events: %w", err)
		}
		if len(events) == 0 {
			return fmt.Errorf("session %s not found", args[0])
		}

		fmt.Printf("Session: %s\n", args[0])
		fmt.Printf("Code:    %s\n\n", events[0].Code)
		for _, ev := range events {
			fmt.Printf("%s  %-14s  %s\n",
				ev.Timestamp.Local().Format("2006-01-02 15:04:05"), ev.Action, ev.Detail)
		}

		requests, err := e.store.EventRepo().QueryRequests(ctx, store.QueryOpts{SessionID: args[0]})
		if err != nil {
			return fmt.Errorf("query requests: %w", err)
		}
		if len(requests) > 0 {
			fmt.Println()
			printRequests(requests)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of results")
	historyCmd.AddCommand(historyShowCmd)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
