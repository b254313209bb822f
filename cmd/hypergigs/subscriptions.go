package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/hypergigs/internal/billing"
	"github.com/jonathan/hypergigs/internal/db"
)

var expiringDays int

var subscriptionsCmd = &cobra.Command{
	Use:   "subscriptions",
	Short: "Subscription maintenance commands",
}

var expiringCmd = &cobra.Command{
	Use:   "expiring",
	Short: "List active subscriptions whose period ends soon, as JSON",
	RunE:  runExpiring,
}

func init() {
	expiringCmd.Flags().IntVar(&expiringDays, "days", 7, "Look-ahead window in days")
	subscriptionsCmd.AddCommand(expiringCmd)
	rootCmd.AddCommand(subscriptionsCmd)
}

func runExpiring(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := requireDatabaseURL(cfg); err != nil {
		return err
	}
	database, err := db.Connect(cmd.Context(), cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	svc := billing.NewSubscriptionService(database, cfg.Marketplace.DefaultCurrency, logger)
	subs, err := svc.ExpiringWithin(cmd.Context(), expiringDays)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(subs)
}
