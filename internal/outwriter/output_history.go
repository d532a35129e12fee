package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/obinexus/sinphase/internal/contract"
	"github.com/obinexus/sinphase/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintHistoryRuns outputs persisted analysis runs, newest first.
func PrintHistoryRuns(runs []schema.HistoryRun, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"run_id", "organization", "repositories", "compliance_rate", "recorded_at"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				for _, r := range runs {
					rec := []string{
						r.RunID,
						r.Organization,
						strconv.Itoa(r.Repositories),
						fmt.Sprintf("%.2f", r.ComplianceRate),
						r.RecordedAt.Format(contract.DateTimeFormat),
					}
					if err := csvWriter.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryRunsTable(runs, cfg, w)
		}, "table")
	}
}

// writeHistoryRunsTable renders the run listing.
func writeHistoryRunsTable(runs []schema.HistoryRun, cfg *contract.Config, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "%s\n", headerLine(cfg, "📜", "Analysis Runs")); err != nil {
		return err
	}
	if len(runs) == 0 {
		_, err := fmt.Fprintln(writer, "No analysis runs recorded.")
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Run ID", "Organization", "Repos", "Compliance", "Recorded"})

	var data [][]string
	for _, r := range runs {
		data = append(data, []string{
			r.RunID,
			r.Organization,
			strconv.Itoa(r.Repositories),
			fmt.Sprintf("%.1f%%", r.ComplianceRate*100),
			r.RecordedAt.Format(contract.DateTimeFormat),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Showing %d runs\n", len(runs))
	return err
}

// PrintRunRecords outputs the scored rows of one persisted run.
func PrintRunRecords(runID string, records []schema.HistoryRecord, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(scorePrecision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"rank", "repository", "division", "status", "normalized_score", "label", "violations", "requires_isolation"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				for i, r := range records {
					rec := []string{
						strconv.Itoa(i + 1),
						r.Repository,
						string(r.Division),
						string(r.Status),
						fmtFloat(r.NormalizedScore),
						contract.GetPlainLabel(r.NormalizedScore),
						strconv.Itoa(r.ViolationCount),
						strconv.FormatBool(r.RequiresIsolation),
					}
					if err := csvWriter.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunRecordsTable(runID, records, cfg, fmtFloat, w)
		}, "table")
	}
}

// writeRunRecordsTable renders the scored rows of one run.
func writeRunRecordsTable(runID string, records []schema.HistoryRecord, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "%s\n", headerLine(cfg, "📜", fmt.Sprintf("Run %s", runID))); err != nil {
		return err
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(writer, "No records found for run.")
		return err
	}

	label := labelFunc(cfg)
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Repository", "Division", "Status", "Score", "Label", "Violations", "Isolate"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth()
	var data [][]string
	for i, r := range records {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(r.Repository, nameWidth),
			string(r.Division),
			string(r.Status),
			fmtFloat(r.NormalizedScore),
			label(r.NormalizedScore),
			strconv.Itoa(r.ViolationCount),
			isolationMarker(r.RequiresIsolation, cfg),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Showing %d repositories\n", len(records))
	return err
}
