package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/hypergigs/internal/schemas"
)

var validateEvidenceCmd = &cobra.Command{
	Use:   "validate-evidence <file>",
	Short: "Validate a verification evidence document",
	Long:  "Checks a JSON file against the verification evidence schema used by admin review updates.",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidateEvidence,
}

func init() {
	rootCmd.AddCommand(validateEvidenceCmd)
}

func runValidateEvidence(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read evidence file: %w", err)
	}

	err = schemas.Validate(schemas.VerificationEvidence, content)
	var validationErr *schemas.ValidationError
	switch {
	case err == nil:
		fmt.Fprintln(cmd.OutOrStdout(), "Validation passed")
		return nil
	case errors.As(err, &validationErr):
		fmt.Fprintln(cmd.OutOrStdout(), "Validation failed:")
		for _, field := range validationErr.Fields() {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", field)
		}
		return fmt.Errorf("evidence does not match schema (%d errors)", len(validationErr.Errors))
	default:
		return err
	}
}
