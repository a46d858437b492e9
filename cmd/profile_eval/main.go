// Package main implements the profile_eval CLI: résumé normalization,
// profile parsing and MBA readiness evaluation.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "profile_eval",
	Short:        "MBA profile evaluation engine",
	Long:         "Turns résumé text or a structured profile into auditable signals, banded readiness subscores, gaps and fix priorities for MBA admissions coaching.",
	SilenceUsage: true,
}

var (
	configPath  string
	verbose     bool
	logLevel    string
	metricsFile string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print formatted summaries to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file on exit")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
