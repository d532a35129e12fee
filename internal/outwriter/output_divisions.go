package outwriter

import (
	"fmt"
	"io"
	"sort"

	"github.com/obinexus/sinphase/internal/contract"
	"github.com/obinexus/sinphase/schema"

	"github.com/olekukonko/tablewriter"
)

// PrintDivisionConfig outputs the resolved governance configuration for
// every known division, with config overrides applied over the defaults.
func PrintDivisionConfig(cfg *contract.Config) error {
	divisions := make([]schema.Division, 0, len(schema.ValidDivisions))
	for d := range schema.ValidDivisions {
		divisions = append(divisions, d)
	}
	sort.Slice(divisions, func(i, j int) bool { return divisions[i] < divisions[j] })

	resolved := make([]*schema.DivisionMetadata, 0, len(divisions))
	for _, d := range divisions {
		dm, err := cfg.DivisionFor(d)
		if err != nil {
			return fmt.Errorf("resolving division %s: %w", d, err)
		}
		resolved = append(resolved, dm)
	}

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, resolved)
		}, "JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDivisionTable(resolved, cfg, w)
		}, "table")
	}
}

// writeDivisionTable renders the division governance parameters.
func writeDivisionTable(divisions []*schema.DivisionMetadata, cfg *contract.Config, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "%s\n", headerLine(cfg, "🏢", "Division Configuration")); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Division", "Governance", "Isolation", "Boost", "Architect"})

	var data [][]string
	for _, dm := range divisions {
		architect := dm.ResponsibleArchitect
		if architect == "" {
			architect = "-"
		}
		data = append(data, []string{
			string(dm.Division),
			fmt.Sprintf("%.2f", dm.GovernanceThreshold),
			fmt.Sprintf("%.2f", dm.IsolationThreshold),
			fmt.Sprintf("%.1fx", dm.PriorityBoost),
			architect,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
