// Package main is the hypergigs command: the REST API server plus operational subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/hypergigs/internal/config"
	"github.com/jonathan/hypergigs/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "hypergigs",
	Short:         "Hypergigs marketplace API server",
	Long:          "Hypergigs matches AI talent with teams and consulting firms, and tracks engagements, verification and billing.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ./config.yaml or ./configs/config.yaml)")
}

// setup loads the configuration and builds the logger shared by every subcommand.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

func requireDatabaseURL(cfg *config.Config) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("database URL is required (set %s_DATABASE_URL)", config.EnvPrefix)
	}
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
