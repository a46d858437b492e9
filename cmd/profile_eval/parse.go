package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse résumé text into a NormalizedProfile",
	Long:  "Normalizes and parses a résumé into NormalizedProfile JSON, through the language model when use_llm is set and the heuristic parser otherwise. --save stores the profile for --user-id.",
	RunE:  runParse,
}

var (
	parseInput  string
	parseOutput string
	parseSave   bool
	parseUserID string
)

func init() {
	parseCmd.Flags().StringVarP(&parseInput, "in", "i", "", "Path to résumé text file (required)")
	parseCmd.Flags().StringVarP(&parseOutput, "out", "o", "", "Path to output profile JSON (default stdout)")
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "Save the profile to the database")
	parseCmd.Flags().StringVar(&parseUserID, "user-id", "", "User UUID (overrides PROFILE_USER_ID)")

	if err := parseCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, _ []string) error {
	raw, err := readText(parseInput)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, cmd, appOptions{needStore: parseSave})
	if err != nil {
		return err
	}
	defer a.Close()

	profile, outcome := a.service.ParseText(ctx, raw)
	if a.cfg.Verbose {
		a.printer.PrintProfile(profile, string(outcome.Source))
	}

	if parseSave {
		userID, err := a.userID(parseUserID)
		if err != nil {
			return err
		}
		if err := a.database.SaveProfile(ctx, userID, profile, string(outcome.Source)); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Saved profile for user %s\n", userID)
	}

	return writeJSON(cmd.OutOrStdout(), parseOutput, profile)
}
