package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cocowutech/placement/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "placement",
	Short: "Adaptive English placement testing",
	Long:  "Placement — adaptive CEFR (A1-C2) English assessment across reading, listening, speaking, vocabulary and writing, with AI-generated content.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PLACEMENT_DB env var)")
	rootCmd.PersistentFlags().String("llm-provider", "", "LLM provider: gemini, openai, anthropic (default gemini)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then PLACEMENT_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
