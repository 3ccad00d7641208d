// Command apexview is a thin operational console over the data-access
// layer: it can inspect cache statistics, clear tiers, force-refresh
// well-known resources and fetch individual resources for inspection.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apexview "github.com/apexview/apexview-go"
	"github.com/apexview/apexview-go/config"
)

var version = "dev"

func main() {
	// A .env file is optional; system environment wins otherwise.
	godotenv.Load()

	var configPath string

	root := &cobra.Command{
		Use:     "apexview",
		Short:   "ApexView F1 data cache console",
		Version: version,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config")

	root.AddCommand(
		newStatsCmd(&configPath),
		newClearCmd(&configPath),
		newRefreshCmd(&configPath),
		newFetchCmd(&configPath),
		newPrefetchCmd(&configPath),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newClient builds a client from the config file (or defaults) with a
// development logger.
func newClient(configPath string) (*apexview.Client, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if base := os.Getenv("APEXVIEW_BASE_URL"); base != "" {
		cfg.BaseURL = base
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return apexview.New(
		apexview.WithConfig(cfg),
		apexview.WithLogger(logger),
	)
}
