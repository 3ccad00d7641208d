package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func newFetchCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a resource through the cache and print it as JSON",
	}
	cmd.AddCommand(
		newFetchRacesCmd(configPath),
		newFetchStandingsCmd(configPath),
		newFetchNewsCmd(configPath),
	)
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newFetchRacesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "races <year>",
		Short: "Fetch the season schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
			client, err := newClient(*configPath)
			if err != nil {
				return err
			}
			defer client.Close()

			events, err := client.API().Races(context.Background(), year)
			if err != nil {
				return err
			}
			return printJSON(events)
		},
	}
}

func newFetchStandingsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "standings <year>",
		Short: "Fetch the driver championship standings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
			client, err := newClient(*configPath)
			if err != nil {
				return err
			}
			defer client.Close()

			standings, err := client.API().SeasonDriverStandings(context.Background(), year)
			if err != nil {
				return err
			}
			return printJSON(standings)
		},
	}
}

func newFetchNewsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "news",
		Short: "Fetch the latest headlines",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(*configPath)
			if err != nil {
				return err
			}
			defer client.Close()

			news, err := client.API().News(context.Background())
			if err != nil {
				return err
			}
			return printJSON(news)
		},
	}
}
