package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/revisely/dkt/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "dkt",
	Short: "Deep knowledge tracing service",
	Long:  "dkt — the mastery-tracking backend for O-/A-Level tutoring: per-skill mastery estimation, spaced review scheduling, and learning insights.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// .env is optional; real deployments configure via file or environment.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().String("config", "config.yaml", "Path to config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file named by --config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}
