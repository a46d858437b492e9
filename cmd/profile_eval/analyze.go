package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-evaluator/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Report bullet quality for a profile",
	Long:  "Runs the detectors over a profile and reports metric density, verbs, length, keyword coverage, duplicates, date consistency and the bullets most worth rewriting.",
	RunE:  runAnalyze,
}

var (
	analyzeProfile string
	analyzeText    string
	analyzeTrack   string
	analyzeOutput  string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeProfile, "in", "i", "", "Path to NormalizedProfile JSON")
	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "Path to raw résumé text (parsed first)")
	analyzeCmd.Flags().StringVarP(&analyzeTrack, "track", "t", "", "Target track for keyword coverage")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "out", "o", "", "Path to output JSON (default stdout)")
	analyzeCmd.MarkFlagsMutuallyExclusive("in", "text")
	analyzeCmd.MarkFlagsOneRequired("in", "text")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, cmd, appOptions{noLLM: analyzeText == ""})
	if err != nil {
		return err
	}
	defer a.Close()

	profile, err := loadInputProfile(ctx, a, analyzeProfile, analyzeText)
	if err != nil {
		return err
	}

	opts := a.options("", analyzeTrack)
	out := a.service.Analyze(profile, opts.Track)
	if a.cfg.Verbose {
		a.printer.PrintAnalysis(&out)
	}
	return writeJSON(cmd.OutOrStdout(), analyzeOutput, out)
}

// loadInputProfile reads a profile JSON file, or parses a raw text file
func loadInputProfile(ctx context.Context, a *app, profilePath, textPath string) (*types.NormalizedProfile, error) {
	if profilePath != "" {
		return readProfile(profilePath)
	}
	raw, err := readText(textPath)
	if err != nil {
		return nil, err
	}
	profile, outcome := a.service.ParseText(ctx, raw)
	if a.cfg.Verbose {
		a.printer.PrintProfile(profile, string(outcome.Source))
	}
	return profile, nil
}
