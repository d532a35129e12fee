// Package cmd defines the command-line interface for sinphase.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/obinexus/sinphase/internal/contract"
	"github.com/obinexus/sinphase/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(displayCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(divisionsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("org", "o", "", "GitHub organization to analyze")
	rootCmd.PersistentFlags().String("token", "", "GitHub API token (prefer SINPHASE_TOKEN env var)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of repositories to analyze")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Bool("include-forks", false, "Score forked repositories")
	rootCmd.PersistentFlags().Bool("include-archived", false, "Score archived repositories")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Metrics cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", "", "Metrics cache freshness window (e.g., 6h, 30m)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("division", "", "Restrict reports to one division")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of analyzeCmd to Viper
	analyzeCmd.Flags().Bool("validate-only", false, "Validate GitHub connectivity and configuration, then exit")
	analyzeCmd.Flags().String("report-file", defaultReportFile, "Path for the JSON report written next to the main output ('' disables)")
	if err := viper.BindPFlags(analyzeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analyze flags", err)
	}

	// Bind all flags of displayCmd to Viper
	displayCmd.Flags().String("input-file", defaultReportFile, "Path of the JSON report to display")
	displayCmd.Flags().Bool("isolation", false, "Show only the repositories that require isolation")
	if err := viper.BindPFlags(displayCmd.Flags()); err != nil {
		contract.LogFatal("Error binding display flags", err)
	}

	// Bind all flags of checkCmd to Viper
	checkCmd.Flags().Float64("max-score", 0, "Fail when any repository's normalized score is at or above this value (0 disables)")
	checkCmd.Flags().Float64("min-compliance-rate", 0, "Fail when the organization compliance rate is below this value (0 disables)")
	checkCmd.Flags().Bool("fail-on-isolation", false, "Fail when any repository requires isolation")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	// Bind all flags of initCmd to Viper
	initCmd.Flags().String("template", "basic", "Config template: basic or enterprise")
	initCmd.Flags().Bool("validate", false, "Validate an existing config file instead of writing one")
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	if err := viper.BindPFlags(initCmd.Flags()); err != nil {
		contract.LogFatal("Error binding init flags", err)
	}

	// Bind all flags of historyListCmd to Viper
	historyListCmd.Flags().Int("runs", 10, "Number of runs to list")
	if err := viper.BindPFlags(historyListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history list flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
