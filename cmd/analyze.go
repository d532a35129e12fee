package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/obinexus/sinphase/core"
	"github.com/obinexus/sinphase/internal/contract"
	"github.com/obinexus/sinphase/internal/ghmetrics"
	"github.com/obinexus/sinphase/internal/iocache"
	"github.com/obinexus/sinphase/internal/outwriter"
	"github.com/obinexus/sinphase/schema"
)

// defaultReportFile is where analyze persists the machine-readable report.
const defaultReportFile = "cost_scores.json"

// analyzeCmd runs the full organization analysis pipeline.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score every repository in an organization against its division's governance thresholds",
	Long: `Fetch repository metrics from GitHub, score each repository with its
division's cost factors and thresholds, and produce a governance report.

Each repository gets a normalized cost score (0-100). Scores past 60 raise a
governance alert, past 80 flag the repository for architectural isolation,
and past 100 demand reorganization. Structural violations (declared
non-compliance, circular dependency risk, slow builds, temporal coupling)
force isolation regardless of score.

A machine-readable JSON report is written alongside the main output so
'sinphase display' and external tools can reuse the run.

Examples:
  # Analyze the configured organization
  sinphase analyze --org obinexus

  # Restrict the report to one division
  sinphase analyze --org obinexus --division Computing

  # Only verify the token and configuration
  sinphase analyze --validate-only`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		client := ghmetrics.NewClient(cfg.Token, 0)

		if viper.GetBool("validate-only") {
			return client.ValidateConnection(rootCtx)
		}

		start := time.Now()
		report, err := core.RunOrganizationAnalysis(rootCtx, cfg, client, iocache.Manager)
		if err != nil {
			return err
		}
		report.RepositoryScores = core.RankResults(report.RepositoryScores, cfg.ResultLimit)

		if divisionFlag := viper.GetString("division"); divisionFlag != "" {
			division, err := schema.ParseDivision(divisionFlag)
			if err != nil {
				return err
			}
			report = filterReportDivision(report, division)
		}

		if reportFile := viper.GetString("report-file"); reportFile != "" {
			if err := outwriter.SaveReportJSON(report, reportFile); err != nil {
				contract.LogWarn("could not save JSON report", err)
			}
		}

		return outwriter.NewOutWriter().WriteReport(report, cfg, time.Since(start))
	},
}

// filterReportDivision narrows a report to one division without recomputing
// scores. The organization compliance rate keeps its all-divisions value.
func filterReportDivision(report *schema.OrganizationCostReport, division schema.Division) *schema.OrganizationCostReport {
	filtered := *report
	filtered.RepositoryScores = core.FilterByDivision(report.RepositoryScores, division)
	filtered.AnalyzedRepositories = len(filtered.RepositoryScores)
	filtered.DivisionSummaries = make(map[schema.Division]schema.DivisionSummary, 1)
	if summary, ok := report.DivisionSummaries[division]; ok {
		filtered.DivisionSummaries[division] = summary
	}
	return &filtered
}
