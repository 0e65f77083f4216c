package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/spf13/cobra"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the attendance leaderboards",
	Long: `Print the four leaderboards computed over the whole attendance ledger:
most late arrivals, most early departures, most attendance and most overtime.`,
	RunE: runLeaderboard,
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)

	leaderboardCmd.Flags().Bool("json", false, "Output as JSON")
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")

	ctx := context.Background()
	app, err := newApplication(ctx, false)
	if err != nil {
		return err
	}
	defer app.Close()

	boards, err := app.attendanceService.TopPerformers(ctx)
	if err != nil {
		return fmt.Errorf("computing leaderboards: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(boards); err != nil {
			return fmt.Errorf("encoding JSON output: %w", err)
		}
		return nil
	}

	printBoard("Most late arrivals", boards.TopLate, func(e attendance.LeaderboardEntry) string {
		return fmt.Sprintf("%d", e.LateCount)
	})
	printBoard("Most early departures", boards.TopEarly, func(e attendance.LeaderboardEntry) string {
		return fmt.Sprintf("%d", e.EarlyCount)
	})
	printBoard("Most attendance", boards.TopAttendance, func(e attendance.LeaderboardEntry) string {
		return fmt.Sprintf("%d", e.AttendanceCount)
	})
	printBoard("Most overtime (hours)", boards.TopOvertime, func(e attendance.LeaderboardEntry) string {
		return fmt.Sprintf("%.2f", e.OvertimeHours)
	})
	return nil
}

func printBoard(title string, entries []attendance.LeaderboardEntry, value func(attendance.LeaderboardEntry) string) {
	fmt.Printf("\n%s\n", title)
	if len(entries) == 0 {
		fmt.Println("  (no records)")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tNAME\tVALUE")
	fmt.Fprintln(w, "-\t--\t----\t-----")
	for i, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, e.ID, e.Name, value(e))
	}
	w.Flush()
}
