package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newPrefetchCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "prefetch",
		Short: "Warm the cache with the configured high-value resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(*configPath)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Warmup(context.Background()); err != nil {
				return err
			}
			fmt.Println("warmup complete")
			return nil
		},
	}
}
