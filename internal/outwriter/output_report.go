package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/obinexus/sinphase/internal/contract"
	"github.com/obinexus/sinphase/internal/parquet"
	"github.com/obinexus/sinphase/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintReportResults outputs an organization cost report, dispatching based
// on the output format configured.
func PrintReportResults(report *schema.OrganizationCostReport, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(scorePrecision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONReport(report, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVReport(report, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := printParquetReport(report, cfg); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(report, cfg, fmtFloat, intFmt, duration, w)
		}, "table")
	}
	return nil
}

// printJSONReport handles opening the file and calling the JSON writer.
// The report struct is encoded as-is so the JSON field names stay stable
// for downstream consumers.
func printJSONReport(report *schema.OrganizationCostReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, report)
	}, "JSON")
}

// printCSVReport handles opening the file and calling the CSV writer.
func printCSVReport(report *schema.OrganizationCostReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, reportCSVHeader(), func(csvWriter *csv.Writer) error {
			return writeCSVReportRows(csvWriter, report, fmtFloat)
		})
	}, "CSV")
}

// printParquetReport writes the repository scores as a parquet file. Unlike
// the other formats there is no stdout fallback.
func printParquetReport(report *schema.OrganizationCostReport, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires an output file")
	}
	scores := convertReportScores(report)
	if err := parquet.WriteRepositoryScoresParquet(scores, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Printf("Wrote %d repository scores to %s\n", len(scores), cfg.OutputFile)
	return nil
}

// writeReportTable generates and writes the human-readable report: the
// ranked repository table, per-division summaries and the organization
// summary block.
func writeReportTable(report *schema.OrganizationCostReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	label := labelFunc(cfg)

	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Repository", "Division", "Status", "Score", "Label", "Alerts", "Violations", "Isolate"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	nameWidth := getMaxTableNameWidth()
	var data [][]string
	for i, r := range report.RepositoryScores {
		row := []string{
			strconv.Itoa(i + 1),                            // Rank
			contract.TruncateName(r.Repository, nameWidth), // Repository
			string(r.Division),                       // Division
			string(r.Status),                         // Status
			fmtFloat(r.NormalizedScore),              // Score
			label(r.NormalizedScore),                 // Label
			fmt.Sprintf(intFmt, len(r.GovernanceAlerts)),   // Alerts
			fmt.Sprintf(intFmt, len(r.SinphaseViolations)), // Violations
			isolationMarker(r.RequiresIsolation, cfg),      // Isolate
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// 5. Division summaries and organization footer
	if err := writeDivisionSummaries(report, cfg, fmtFloat, writer); err != nil {
		return err
	}
	return writeOrganizationSummary(report, cfg, duration, writer)
}

// writeDivisionSummaries prints one line per division with its aggregate
// counters, in stable name order.
func writeDivisionSummaries(report *schema.OrganizationCostReport, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	if len(report.DivisionSummaries) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(writer, "\n%s\n", headerLine(cfg, "🏢", "Division Summaries")); err != nil {
		return err
	}
	for _, division := range sortedDivisions(report.DivisionSummaries) {
		s := report.DivisionSummaries[division]
		if _, err := fmt.Fprintf(writer, "  %s: %d repos, avg score %s, %d governance violations, %d isolation candidates\n",
			division, s.TotalRepositories, fmtFloat(s.AverageScore), s.GovernanceViolations, s.IsolationCandidates); err != nil {
			return err
		}
	}
	return nil
}

// writeOrganizationSummary prints the organization-wide footer block.
func writeOrganizationSummary(report *schema.OrganizationCostReport, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "\n%s\n", headerLine(cfg, "📊", "Organization Summary")); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "  Organization: %s\n", report.Organization); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "  Repositories: %d analyzed of %d total\n",
		report.AnalyzedRepositories, report.TotalRepositories); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "  Isolation candidates: %d\n", len(report.GetIsolationCandidates())); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "  Sinphase compliance rate: %.1f%%\n", report.SinphaseComplianceRate*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// SaveReportJSON writes the report to path as indented JSON, regardless of
// the configured output format. The file is the machine-readable interchange
// artifact of an analysis run.
func SaveReportJSON(report *schema.OrganizationCostReport, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return writeJSON(file, report)
}

// LoadReportJSON reads a report previously written by SaveReportJSON.
func LoadReportJSON(path string) (*schema.OrganizationCostReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}
	var report schema.OrganizationCostReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report file %s: %w", path, err)
	}
	return &report, nil
}

// reportCSVHeader returns the CSV column names for repository scores.
func reportCSVHeader() []string {
	return []string{
		"rank",
		"repository",
		"division",
		"status",
		"calculated_score",
		"normalized_score",
		"label",
		"governance_alerts",
		"sinphase_violations",
		"requires_isolation",
		"calculated_at",
	}
}

// writeCSVReportRows writes one CSV row per repository score.
func writeCSVReportRows(w *csv.Writer, report *schema.OrganizationCostReport, fmtFloat func(float64) string) error {
	for i, r := range report.RepositoryScores {
		rec := []string{
			strconv.Itoa(i + 1),                          // Rank
			r.Repository,                                 // Repository
			string(r.Division),                           // Division
			string(r.Status),                             // Status
			fmtFloat(r.CalculatedScore),                  // Raw Score
			fmtFloat(r.NormalizedScore),                  // Normalized Score
			contract.GetPlainLabel(r.NormalizedScore),    // Label
			strings.Join(r.GovernanceAlerts, "|"),        // Governance Alerts
			strings.Join(r.SinphaseViolations, "|"),      // Sinphase Violations
			strconv.FormatBool(r.RequiresIsolation),      // Isolation Flag
			r.CalculatedAt.Format(contract.DateTimeFormat), // Calculated At
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// convertReportScores maps report results to parquet score rows, sharing a
// run id derived from the organization and the analysis timestamp.
func convertReportScores(report *schema.OrganizationCostReport) []parquet.RepositoryScore {
	runID := fmt.Sprintf("%s-%s", report.Organization, report.AnalysisTimestamp.UTC().Format("20060102T150405Z"))
	scores := make([]parquet.RepositoryScore, 0, len(report.RepositoryScores))
	for _, r := range report.RepositoryScores {
		scores = append(scores, parquet.RepositoryScore{
			RunID:             runID,
			Repository:        r.Repository,
			Division:          string(r.Division),
			Status:            string(r.Status),
			CalculatedScore:   r.CalculatedScore,
			NormalizedScore:   r.NormalizedScore,
			RequiresIsolation: r.RequiresIsolation,
			ViolationCount:    int32(len(r.SinphaseViolations)),
			RecordedAt:        report.AnalysisTimestamp,
		})
	}
	return scores
}

// sortedDivisions returns the summary keys in lexical order for stable
// rendering.
func sortedDivisions(summaries map[schema.Division]schema.DivisionSummary) []schema.Division {
	divisions := make([]schema.Division, 0, len(summaries))
	for d := range summaries {
		divisions = append(divisions, d)
	}
	sort.Slice(divisions, func(i, j int) bool { return divisions[i] < divisions[j] })
	return divisions
}
