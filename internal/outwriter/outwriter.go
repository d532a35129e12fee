// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/obinexus/sinphase/internal/contract"
	"github.com/obinexus/sinphase/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints an organization cost report using the configured output format.
func (ow *OutWriter) WriteReport(report *schema.OrganizationCostReport, cfg *contract.Config, duration time.Duration) error {
	return PrintReportResults(report, cfg, duration)
}

// WriteIsolationCandidates prints the repositories flagged for isolation.
func (ow *OutWriter) WriteIsolationCandidates(report *schema.OrganizationCostReport, cfg *contract.Config) error {
	return PrintIsolationCandidates(report, cfg)
}

// WriteDivisions prints the resolved division governance configuration.
func (ow *OutWriter) WriteDivisions(cfg *contract.Config) error {
	return PrintDivisionConfig(cfg)
}

// WriteHistoryRuns prints persisted analysis runs, newest first.
func (ow *OutWriter) WriteHistoryRuns(runs []schema.HistoryRun, cfg *contract.Config) error {
	return PrintHistoryRuns(runs, cfg)
}

// WriteRunRecords prints the scored rows of one persisted run.
func (ow *OutWriter) WriteRunRecords(runID string, records []schema.HistoryRecord, cfg *contract.Config) error {
	return PrintRunRecords(runID, records, cfg)
}
