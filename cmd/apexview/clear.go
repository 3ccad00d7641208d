package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newClearCmd(configPath *string) *cobra.Command {
	var resourceType string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cached data (everything, or one resource type)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(*configPath)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx := context.Background()
			if resourceType != "" {
				client.ClearByType(ctx, resourceType)
				fmt.Printf("cleared %q entries\n", resourceType)
				return nil
			}
			client.ClearAll(ctx)
			fmt.Println("cleared all tiers and the event log")
			return nil
		},
	}
	cmd.Flags().StringVarP(&resourceType, "type", "t", "", "resource type prefix (races, drivers, ...)")
	return cmd
}
