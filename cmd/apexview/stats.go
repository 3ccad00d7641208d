package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newStatsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache and analytics statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(*configPath)
			if err != nil {
				return err
			}
			defer client.Close()

			snap := client.Stats(context.Background())

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIER\tITEMS\tBYTES")
			fmt.Fprintf(w, "fast\t%d\t-\n", snap.FastItems)
			fmt.Fprintf(w, "durable\t%d\t%d\n", snap.Durable.Items, snap.Durable.Bytes)
			w.Flush()

			fmt.Printf("\nhit rate: %.2f  avg response: %s  errors: %d\n",
				snap.Analytics.HitRate, snap.Analytics.AverageResponseTime, snap.Analytics.ErrorCount)
			fmt.Printf("health: %s\n", snap.Health.Status)
			for _, rec := range snap.Health.Recommendations {
				fmt.Printf("  - %s\n", rec)
			}
			return nil
		},
	}
}
