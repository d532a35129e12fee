package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/obinexus/sinphase/internal/contract"
	"github.com/obinexus/sinphase/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintIsolationCandidates outputs the repositories flagged for isolation,
// ranked by normalized score descending for display. The report projection
// itself keeps insertion order.
func PrintIsolationCandidates(report *schema.OrganizationCostReport, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(scorePrecision)
	candidates := report.GetIsolationCandidates()
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].NormalizedScore > candidates[j].NormalizedScore
	})

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, candidates)
		}, "JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"rank", "repository", "division", "normalized_score", "violations"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				for i, r := range candidates {
					rec := []string{
						strconv.Itoa(i + 1),
						r.Repository,
						string(r.Division),
						fmtFloat(r.NormalizedScore),
						strings.Join(r.SinphaseViolations, "|"),
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
			return writeIsolationTable(candidates, cfg, fmtFloat, w)
		}, "table")
	}
}

// writeIsolationTable prints the isolation candidates with their violation
// reasons.
func writeIsolationTable(candidates []*schema.CostCalculationResult, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "%s\n", headerLine(cfg, "🚨", "Isolation Candidates")); err != nil {
		return err
	}
	if len(candidates) == 0 {
		_, err := fmt.Fprintln(writer, "No repositories require isolation.")
		return err
	}

	label := labelFunc(cfg)
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Repository", "Division", "Score", "Label", "Violations"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, r := range candidates {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			r.Repository,
			string(r.Division),
			fmtFloat(r.NormalizedScore),
			label(r.NormalizedScore),
			strings.Join(r.SinphaseViolations, "; "),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "%d repositories require isolation\n", len(candidates))
	return err
}
