package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/hypergigs/internal/db"
	"github.com/jonathan/hypergigs/internal/suggestion"
)

var (
	suggestTeam  string
	suggestUser  string
	suggestLimit int
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Print member suggestions for a team as JSON",
	Long:  "Scores every candidate outside the team against the team's keywords and prints the best matches. The user must be a member of the team.",
	RunE:  runSuggest,
}

func init() {
	suggestCmd.Flags().StringVar(&suggestTeam, "team", "", "Team ID (required)")
	suggestCmd.Flags().StringVar(&suggestUser, "user", "", "Requesting user ID, must be a team member (required)")
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 0, "Maximum number of suggestions (default from config)")

	if err := suggestCmd.MarkFlagRequired("team"); err != nil {
		panic(fmt.Sprintf("failed to mark team flag as required: %v", err))
	}
	if err := suggestCmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}

	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, _ []string) error {
	teamID, err := uuid.Parse(suggestTeam)
	if err != nil {
		return fmt.Errorf("invalid team ID %q: %w", suggestTeam, err)
	}
	userID, err := uuid.Parse(suggestUser)
	if err != nil {
		return fmt.Errorf("invalid user ID %q: %w", suggestUser, err)
	}

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

	svc := suggestion.NewService(database, suggestion.OptionsFrom(cfg.Marketplace), logger)
	results, err := svc.SuggestMembers(cmd.Context(), teamID, userID, suggestLimit)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
