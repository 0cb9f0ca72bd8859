package commands

import (
	"github.com/spf13/cobra"

	"github.com/Ajinkya236/course-questing-72-sub001/pkg/config"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "questboard",
	Short: "Questboard - learning leaderboard backend",
	Long: `Questboard Unified CLI

Ranks learners and teams by learning points, serves leaderboard views,
and proxies skill-assessment generation.

Usage:
  go run ./cmd/questboard [command]

Examples:
  go run ./cmd/questboard api
  go run ./cmd/questboard seed --users 50 --teams 8
  go run ./cmd/questboard board --viewer <id> --detailed
  go run ./cmd/questboard scheduler start`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "env file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadConfig applies the global flags on top of the environment
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return nil, err
	}
	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}
