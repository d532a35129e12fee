// Package parquet provides data structures and functions for exporting
// governance history data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/obinexus/sinphase/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single organization analysis run with metadata.
// This struct maps to the sinphase_runs database table.
type AnalysisRun struct {
	// RunID is the unique identifier for this analysis run
	RunID string `parquet:"run_id,snappy"`

	// Organization is the organization that was analyzed
	Organization string `parquet:"organization,snappy"`

	// StartTime is when the analysis began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// Repositories is the number of repositories scored in this run
	Repositories int32 `parquet:"repositories,snappy"`

	// ComplianceRate is the governance compliance rate of the run, 0.0 to 1.0
	ComplianceRate float64 `parquet:"compliance_rate,snappy"`
}

// RepositoryScore represents the governance score for a single repository
// in an analysis run. This struct maps to the sinphase_scores database table.
type RepositoryScore struct {
	// RunID references the parent analysis run
	RunID string `parquet:"run_id,snappy"`

	// Repository is the name of the scored repository
	Repository string `parquet:"repository,snappy"`

	// Division is the organizational division the repository belongs to
	Division string `parquet:"division,snappy"`

	// Status is the project lifecycle status
	Status string `parquet:"status,snappy"`

	// CalculatedScore is the raw cost score, 0.0 to 1.0
	CalculatedScore float64 `parquet:"calculated_score,snappy"`

	// NormalizedScore is the cost score on a 0-100 scale
	NormalizedScore float64 `parquet:"normalized_score,snappy"`

	// RequiresIsolation indicates the score crossed the isolation threshold
	RequiresIsolation bool `parquet:"requires_isolation,snappy"`

	// ViolationCount is the number of governance violations recorded
	ViolationCount int32 `parquet:"violation_count,snappy"`

	// RecordedAt is when this score was recorded (stored as TIMESTAMP with nanosecond precision)
	RecordedAt time.Time `parquet:"recorded_at,snappy"`
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the AnalysisRun struct tags
	writer := parquet.NewGenericWriter[AnalysisRun](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteRepositoryScoresParquet writes a slice of RepositoryScore structs to a Parquet file.
func WriteRepositoryScoresParquet(data []RepositoryScore, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the RepositoryScore struct tags
	writer := parquet.NewGenericWriter[RepositoryScore](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertHistoryRuns converts schema.HistoryRun to AnalysisRun for Parquet export.
func ConvertHistoryRuns(runs []schema.HistoryRun) []AnalysisRun {
	result := make([]AnalysisRun, len(runs))
	for i, run := range runs {
		result[i] = AnalysisRun{
			RunID:          run.RunID,
			Organization:   run.Organization,
			StartTime:      run.RecordedAt,
			Repositories:   int32(run.Repositories),
			ComplianceRate: run.ComplianceRate,
		}
	}
	return result
}

// ConvertHistoryRecords converts schema.HistoryRecord to RepositoryScore for Parquet export.
func ConvertHistoryRecords(records []schema.HistoryRecord) []RepositoryScore {
	result := make([]RepositoryScore, len(records))
	for i, record := range records {
		result[i] = RepositoryScore{
			RunID:             record.RunID,
			Repository:        record.Repository,
			Division:          string(record.Division),
			Status:            string(record.Status),
			CalculatedScore:   record.CalculatedScore,
			NormalizedScore:   record.NormalizedScore,
			RequiresIsolation: record.RequiresIsolation,
			ViolationCount:    int32(record.ViolationCount),
			RecordedAt:        record.RecordedAt,
		}
	}
	return result
}
