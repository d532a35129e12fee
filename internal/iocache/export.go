package iocache

import (
	"errors"
	"fmt"

	"github.com/obinexus/sinphase/internal/parquet"
)

// ExecuteHistoryExport performs the actual export of history data to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the history store
	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("history store is not configured")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no history data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total analysis runs: %d\n", status.TotalRuns)
	fmt.Printf("Total score records: %d\n", status.TotalRecords)

	// Full-table exports need the concrete store, not the interface
	impl, ok := store.(*HistoryStoreImpl)
	if !ok {
		return errors.New("history store backend does not support export")
	}

	// Retrieve all analysis runs
	runs, err := impl.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}

	// Retrieve all repository score records
	records, err := impl.GetAllRecords()
	if err != nil {
		return fmt.Errorf("failed to retrieve score records: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertHistoryRuns(runs)
	parquetScores := parquet.ConvertHistoryRecords(records)

	// Write analysis runs to Parquet
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	fmt.Printf("Exported %d analysis runs to: %s\n", len(parquetRuns), runsFile)

	// Write repository scores to Parquet
	scoresFile := outputFile + ".scores.parquet"
	if err := parquet.WriteRepositoryScoresParquet(parquetScores, scoresFile); err != nil {
		return fmt.Errorf("failed to write repository scores: %w", err)
	}
	fmt.Printf("Exported %d score records to: %s\n", len(parquetScores), scoresFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
