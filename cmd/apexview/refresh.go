package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newRefreshCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <key>",
		Short: "Force a re-fetch of a well-known resource (races, driver-standings, constructor-standings, news)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(*configPath)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Refresh(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("refreshed %q\n", args[0])
			return nil
		},
	}
}
