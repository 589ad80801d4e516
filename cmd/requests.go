package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Arizalb/jokicbt/internal/store"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List recent calls to the test service",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		since, _ := cmd.Flags().GetDuration("since")
		failed, _ := cmd.Flags().GetBool("failed")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		opts := store.QueryOpts{Limit: limit}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		events, err := e.store.EventRepo().QueryRequests(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if failed {
			kept := events[:0]
			for _, ev := range events {
				if !ev.Success {
					kept = append(kept, ev)
				}
			}
			events = kept
		}

		if len(events) == 0 {
			fmt.Println("No requests found.")
			return nil
		}
		printRequests(events)
		return nil
	},
}

var requestsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show call counts, failures and latency per endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.store.EventRepo().QueryRequests(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No requests recorded yet.")
			return nil
		}

		stats := summarizeRequests(events)
		fmt.Printf("%-6s  %-36s  %6s  %6s  %8s\n", "Method", "Path", "Calls", "Failed", "Avg Ms")
		fmt.Println(strings.Repeat("─", 72))
		var calls, failures int
		for _, s := range stats {
			fmt.Printf("%-6s  %-36s  %6d  %6d  %8d\n",
				s.Method, truncate(s.Path, 36), s.Calls, s.Failures, s.AvgLatencyMs)
			calls += s.Calls
			failures += s.Failures
		}
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-6s  %-36s  %6d  %6d\n", "TOTAL", "", calls, failures)
		return nil
	},
}

func init() {
	requestsCmd.Flags().Int("limit", 50, "Maximum number of events")
	requestsCmd.Flags().Duration("since", 0, "Only show events newer than this (e.g. 24h)")
	requestsCmd.Flags().Bool("failed", false, "Only show failed calls")
	requestsCmd.AddCommand(requestsStatsCmd)
}

func printRequests(events []store.RequestEvent) {
	fmt.Printf("%-5s  %-19s  %-6s  %-36s  %-6s  %-7s  %s\n",
		"ID", "Timestamp", "Method", "Path", "Status", "Ms", "OK")
	fmt.Println(strings.Repeat("─", 100))

	for _, ev := range events {
		ok := "✓"
		if !ev.Success {
			ok = "✗ " + truncate(ev.ErrorMessage, 30)
		}
		status := "-"
		if ev.Status > 0 {
			status = fmt.Sprint(ev.Status)
		}
		fmt.Printf("%-5d  %-19s  %-6s  %-36s  %-6s  %-7d  %s\n",
			ev.ID,
			ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
			ev.Method,
			truncate(ev.Path, 36),
			status,
			ev.LatencyMs,
			ok,
		)
	}
}

// endpointStats aggregates request events for one method and path.
type endpointStats struct {
	Method       string
	Path         string
	Calls        int
	Failures     int
	AvgLatencyMs int64
}

func summarizeRequests(events []store.RequestEvent) []endpointStats {
	type key struct{ method, path string }
	byKey := make(map[key]*endpointStats)
	totals := make(map[key]int64)

	for _, ev := range events {
		k := key{ev.Method, ev.Path}
		s, ok := byKey[k]
		if !ok {
			s = &endpointStats{Method: ev.Method, Path: ev.Path}
			byKey[k] = s
		}
		s.Calls++
		if !ev.Success {
			s.Failures++
		}
		totals[k] += ev.LatencyMs
	}

	out := make([]endpointStats, 0, len(byKey))
	for k, s := range byKey {
		s.AvgLatencyMs = totals[k] / int64(s.Calls)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Calls != out[j].Calls {
			return out[i].Calls > out[j].Calls
		}
		return out[i].Path < out[j].Path
	})
	return out
}
