package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tutorloop",
	Short: "Adaptive AI tutoring service",
	Long:  "Tutorloop — session orchestration and adaptive practice engine: ingest study material, chat about it, and drill it with generated mini-games until it sticks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("addr", "", "Listen address (overrides TUTORLOOP_ADDR)")
	rootCmd.PersistentFlags().String("events-db", "", "Path to SQLite event log (overrides TUTORLOOP_EVENTS_DB)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
