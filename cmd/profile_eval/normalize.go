package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-evaluator/internal/ingestion"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize raw résumé text",
	Long:  "Strips markup, contact noise and stray whitespace from a résumé file. Writes the normalized text and its metadata to --out, or the text to stdout.",
	RunE:  runNormalize,
}

var (
	normalizeInput  string
	normalizeOutDir string
)

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeInput, "in", "i", "", "Path to résumé text or HTML file (required)")
	normalizeCmd.Flags().StringVarP(&normalizeOutDir, "out", "o", "", "Output directory for profile.normalized.txt and profile.meta.json")

	if err := normalizeCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	normalized, metadata, err := ingestion.IngestFromFile(normalizeInput)
	if err != nil {
		return err
	}

	if normalizeOutDir == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), normalized)
		return err
	}

	if err := ingestion.WriteOutput(normalizeOutDir, normalized, metadata); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Normalized %d lines (%d words), hash %s\n", metadata.Lines, metadata.Words, metadata.Hash)
	return nil
}
