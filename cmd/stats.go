package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/methodo/internal/practice"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		st, err := svc.users.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("compute stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}
		printStats(out, st)
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print statistics as JSON")
}

func printStats(out io.Writer, st practice.Stats) {
	fmt.Fprintf(out, "Practices:      %d\n", st.TotalPractices)
	fmt.Fprintf(out, "Methodologies:  %d\n", st.TotalMethodologies)
	fmt.Fprintf(out, "Last 7 days:    %d\n", st.RecentActivity)
	fmt.Fprintf(out, "Streak:         %d day(s)\n", st.PracticeStreak)
	if st.FavoriteMethodology != "" {
		fmt.Fprintf(out, "Favorite:       %s\n", st.FavoriteMethodology)
	}

	maxCount := 0
	for _, d := range st.DailyActivity {
		maxCount = max(maxCount, d.Count)
	}
	fmt.Fprintln(out, "\nDaily activity")
	fmt.Fprintln(out, strings.Repeat("─", 40))
	for _, d := range st.DailyActivity {
		bar := 0
		if maxCount > 0 {
			bar = d.Count * 20 / maxCount
		}
		fmt.Fprintf(out, "%s  %-20s  %d\n", d.Date, strings.Repeat("█", bar), d.Count)
	}

	if len(st.TopMethodologies) > 0 {
		fmt.Fprintln(out, "\nTop methodologies")
		fmt.Fprintln(out, strings.Repeat("─", 40))
		for i, tm := range st.TopMethodologies {
			fmt.Fprintf(out, "%d. %-24s  %-8s  %d\n", i+1, tm.Name, tm.Category, tm.Count)
		}
	}
}
