package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/civickit/permitgraph/pkg/staleness"
)

var flagThresholdDays int

var staleCmd = &cobra.Command{
	Use:   "stale",
	Short: "List facts and graph nodes with stale verification dates",
	Long: `Stale scans every stored fact and every citation-bearing graph
node for a last_verified date older than the threshold. The scan is
advisory: it changes nothing, and evaluation stays unaffected unless
run with --strict.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, reg, g, err := loadStores()
		if err != nil {
			return err
		}
		defer store.Detach()

		records := staleness.New(slog.Default()).Scan(
			time.Now().UTC(), flagThresholdDays, reg.Snapshot(), g.Snapshot())

		if flagJSON {
			return printJSON(records)
		}
		if len(records) == 0 {
			fmt.Println("No stale citations")
			return nil
		}
		for _, r := range records {
			fmt.Printf("%s %s (verified %s)\n  %s\n",
				r.EntityKind, r.ID, r.LastVerified.Format("2006-01-02"), r.SourceURL)
		}
		return nil
	},
}

func init() {
	staleCmd.Flags().IntVar(&flagThresholdDays, "days", 0, "verification-age threshold in days (default 90)")
}
