package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EmmanuelR15/portfolio/internal/analytics"
	"github.com/EmmanuelR15/portfolio/internal/db"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print visitor and contact statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		database, err := db.Open(cfg.Data.DBPath)
		if err != nil {
			return err
		}
		defer database.Close()

		tracker, err := analytics.NewTracker(database, log)
		if err != nil {
			return err
		}
		stats, err := tracker.Stats(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if statsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}

		fmt.Fprintf(out, "Visits:        %d (%d unique)\n", stats.TotalVisitors, stats.UniqueVisitors)
		fmt.Fprintf(out, "Today:         %d\n", stats.VisitorsToday)
		fmt.Fprintf(out, "This week:     %d\n", stats.VisitorsThisWeek)
		fmt.Fprintf(out, "Messages:      %d delivered, %d failed, %d pending\n",
			stats.Messages.Delivered, stats.Messages.Failed, stats.Messages.Pending)
		for _, sc := range stats.SectionViews {
			fmt.Fprintf(out, "  %-10s %d\n", sc.Section, sc.Views)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print JSON")
	rootCmd.AddCommand(statsCmd)
}
