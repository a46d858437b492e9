package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-evaluator/internal/schemas"
)

var validateProfileCmd = &cobra.Command{
	Use:   "validate-profile",
	Short: "Validate a profile JSON file against the NormalizedProfile schema",
	RunE:  runValidateProfile,
}

var validateProfileInput string

func init() {
	validateProfileCmd.Flags().StringVarP(&validateProfileInput, "in", "i", "", "Path to NormalizedProfile JSON (required)")

	if err := validateProfileCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateProfileCmd)
}

func runValidateProfile(cmd *cobra.Command, _ []string) error {
	err := schemas.ValidateProfileFile(validateProfileInput)
	if err == nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is a valid profile\n", validateProfileInput)
		return nil
	}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✗ %s has %d schema violations\n", validateProfileInput, len(validationErr.Errors))
		for _, fe := range validationErr.Errors {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", fe.Field, fe.Message)
		}
		return fmt.Errorf("profile does not match schema")
	}
	return err
}
