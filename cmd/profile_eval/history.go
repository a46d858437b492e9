package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or show stored evaluations",
	Long:  "Lists the stored evaluations of --user-id, newest first, or prints one evaluation in full with --id.",
	RunE:  runHistory,
}

var (
	historyUserID string
	historyID     string
	historyLimit  int
	historyDelete bool
)

func init() {
	historyCmd.Flags().StringVar(&historyUserID, "user-id", "", "User UUID (overrides PROFILE_USER_ID)")
	historyCmd.Flags().StringVar(&historyID, "id", "", "Evaluation UUID to print in full")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum evaluations to list")
	historyCmd.Flags().BoolVar(&historyDelete, "delete", false, "Delete the user's profile and all their evaluations")
	historyCmd.MarkFlagsMutuallyExclusive("id", "delete")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, cmd, appOptions{needStore: true, noLLM: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if historyID != "" {
		id, err := uuid.Parse(historyID)
		if err != nil {
			return fmt.Errorf("invalid evaluation id: %w", err)
		}
		record, err := a.database.GetEvaluation(ctx, id)
		if err != nil {
			return err
		}
		if record == nil {
			return fmt.Errorf("evaluation not found: %s", id)
		}
		if a.cfg.Verbose {
			a.printer.PrintEvaluation(&record.Output)
		}
		return writeJSON(cmd.OutOrStdout(), "", record)
	}

	userID, err := a.userID(historyUserID)
	if err != nil {
		return err
	}

	if historyDelete {
		if err := a.database.DeleteProfile(ctx, userID); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile and evaluations for user %s\n", userID)
		return nil
	}

	summaries, err := a.database.ListEvaluations(ctx, userID, historyLimit)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No evaluations for user %s\n", userID)
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tCREATED\tPERSONA\tTRACK\tSCORE\tBAND")
	for _, s := range summaries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%s\n",
			s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.Persona, s.Track, s.Score, s.Band)
	}
	return tw.Flush()
}
