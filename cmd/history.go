package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/obinexus/sinphase/internal/contract"
	"github.com/obinexus/sinphase/internal/iocache"
	"github.com/obinexus/sinphase/internal/outwriter"
	"github.com/obinexus/sinphase/schema"
)

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get history-related config values
	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export and list commands)
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")

	// Initialize stores with the loaded config (no metrics caching for history commands)
	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history store: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get history-related config values
	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on run history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by analysis commands. This avoids GitHub token
// validation and complex config processing for simple history operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage historical run tracking and exports",
	Long: `Manage historical analysis data used for trend tracking and reporting.

When enabled, Sinphasé records every analysis run, storing:
- Run metadata (organization, timestamp, compliance rate)
- Per-repository scores, governance alerts and isolation decisions

This enables longitudinal governance review and data export for BI tools.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  list    - List recorded analysis runs
  show    - Show the scored repositories of one run
  status  - Show history tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  sinphase history status

  # Export for analysis in pandas/DuckDB
  sinphase history export --output-file data`,
}

// historyListCmd lists recorded analysis runs.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded analysis runs for an organization",
	Long: `List the most recent analysis runs recorded for an organization,
newest first.

Each row shows the run ID, repository count, compliance rate and timestamp.
Use the run ID with 'sinphase history show' to inspect a single run.

Examples:
  # Show the last ten runs
  sinphase history list --org obinexus

  # Show more runs as CSV
  sinphase history list --org obinexus --runs 50 --output csv`,
	PreRunE: historySetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		org := viper.GetString("org")
		if org == "" {
			return fmt.Errorf("organization is required, use --org or SINPHASE_ORG")
		}
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			return fmt.Errorf("history tracking is disabled, set --history-backend")
		}
		runs, err := store.ListRuns(org, viper.GetInt("runs"))
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteHistoryRuns(runs, cfg)
	},
}

// historyShowCmd shows the scored repositories of a single run.
var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the scored repositories of one recorded run",
	Long: `Show every repository score recorded for a single analysis run.

The run ID comes from 'sinphase history list'.

Examples:
  # Inspect a run
  sinphase history show obinexus-20260801T120000Z

  # Export one run as JSON
  sinphase history show obinexus-20260801T120000Z --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: historySetupWrapper,
	RunE: func(_ *cobra.Command, args []string) error {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			return fmt.Errorf("history tracking is disabled, set --history-backend")
		}
		records, err := store.GetRunRecords(args[0])
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("no records found for run %s", args[0])
		}
		return outwriter.NewOutWriter().WriteRunRecords(args[0], records, cfg)
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history tracking statistics and connection details",
	Long: `Show detailed information about historical run tracking.

Displays:
- Backend type and connection status
- Total number of runs stored
- Total repository score records
- Last run timestamp

Use this to:
- Verify history tracking is enabled and working
- Monitor data accumulation over time
- Check database connection health

Examples:
  # Check history tracking status
  sinphase history status`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			fmt.Println("History tracking is disabled.")
			return
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(status)
	},
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all historical run tracking data",
	Long: `Delete all stored analysis runs and repository score history.

This removes:
- All run metadata
- Per-repository scores and governance decisions

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  sinphase history export --output-file backup
  sinphase history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.HistoryBackend, contract.GetHistoryDBFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history data", err)
		}
		fmt.Println("History data cleared successfully.")
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export historical data to Parquet for BI tools and analytics",
	Long: `Export all stored run history to Parquet format for use with analytics tools.

Exports two datasets:
- Runs - metadata about each analysis execution
- Repository scores - detailed governance results per repository

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter

Examples:
  # Export all data (writes data.runs.parquet and data.scores.parquet)
  sinphase history export --output-file data

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('data.runs.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history data", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history tracking store.

Migrations allow:
- Upgrading to new schema versions when Sinphasé is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  sinphase history migrate

  # Migrate to specific version
  sinphase history migrate --target-version 2

  # Rollback to previous version
  sinphase history migrate --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
