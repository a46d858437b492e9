package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-evaluator/internal/types"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score MBA readiness for a profile",
	Long: `Scores a profile on academics, test readiness, work impact, leadership,
extracurriculars and international exposure, bands the weighted aggregate and
lists gaps, plans and essay angles.

The profile comes from --in (profile JSON), --text (raw résumé) or --user
(the stored profile of --user-id, in which case the result is saved).`,
	RunE: runEvaluate,
}

var (
	evaluateProfile string
	evaluateText    string
	evaluateUser    bool
	evaluateUserID  string
	evaluatePersona string
	evaluateTrack   string
	evaluateOutput  string
)

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateProfile, "in", "i", "", "Path to NormalizedProfile JSON")
	evaluateCmd.Flags().StringVar(&evaluateText, "text", "", "Path to raw résumé text (parsed first)")
	evaluateCmd.Flags().BoolVar(&evaluateUser, "user", false, "Evaluate the stored profile of --user-id and save the result")
	evaluateCmd.Flags().StringVar(&evaluateUserID, "user-id", "", "User UUID (overrides PROFILE_USER_ID)")
	evaluateCmd.Flags().StringVarP(&evaluatePersona, "persona", "p", "", "Applicant persona (full_time, executive, deferred, switcher, international, reapplicant)")
	evaluateCmd.Flags().StringVarP(&evaluateTrack, "track", "t", "", "Target post-MBA track")
	evaluateCmd.Flags().StringVarP(&evaluateOutput, "out", "o", "", "Path to output JSON (default stdout)")
	evaluateCmd.MarkFlagsMutuallyExclusive("in", "text", "user")
	evaluateCmd.MarkFlagsOneRequired("in", "text", "user")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, cmd, appOptions{needStore: evaluateUser, noLLM: evaluateText == ""})
	if err != nil {
		return err
	}
	defer a.Close()

	opts := a.options(evaluatePersona, evaluateTrack)

	var out types.EvaluationOutput
	switch {
	case evaluateUser:
		userID, err := a.userID(evaluateUserID)
		if err != nil {
			return err
		}
		id, result, err := a.service.EvaluateUser(ctx, userID, opts)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Saved evaluation %s\n", id)
		out = result
	case evaluateText != "":
		raw, err := readText(evaluateText)
		if err != nil {
			return err
		}
		profile, outcome, result := a.service.EvaluateText(ctx, raw, opts)
		if a.cfg.Verbose {
			a.printer.PrintProfile(profile, string(outcome.Source))
		}
		out = result
	default:
		profile, err := readProfile(evaluateProfile)
		if err != nil {
			return err
		}
		out = a.service.Evaluate(ctx, profile, opts)
	}

	if a.cfg.Verbose {
		a.printer.PrintEvaluation(&out)
	}
	return writeJSON(cmd.OutOrStdout(), evaluateOutput, out)
}
