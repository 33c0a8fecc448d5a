// Package cmd defines the command-line interface for aces.
package cmd

import (
	"github.com/Recnoss/A.C.E.S/internal/contract"
	"github.com/Recnoss/A.C.E.S/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Int("days", contract.DefaultLookbackDays, "Number of days to look back from now")
	rootCmd.PersistentFlags().String("quarter", "", "Calendar quarter to analyze (e.g. Q3-2025, takes precedence over --days)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent fetch workers")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Bool("clear-cache", false, "Drop cached contribution data before fetching")
	rootCmd.PersistentFlags().String("token", "", "GitHub API token (falls back to GITHUB_TOKEN)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of teamsCmd to Viper
	teamsCmd.Flags().Int("top-teams", contract.DefaultTopTeams, "Number of teams to expand with member detail")
	if err := viper.BindPFlags(teamsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding teams flags", err)
	}
}
