package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/obinexus/sinphase/internal/outwriter"
	"github.com/obinexus/sinphase/schema"
)

// displayCmd renders a previously written report without hitting GitHub.
var displayCmd = &cobra.Command{
	Use:   "display",
	Short: "Render a previously written analysis report",
	Long: `Read the JSON report written by 'sinphase analyze' and render it in any
output format. No GitHub access or scoring happens; this reuses the stored
run as-is.

Examples:
  # Render the default report as a table
  sinphase display

  # Render a stored report as CSV
  sinphase display --input-file nightly.json --output csv

  # Focus on one division
  sinphase display --division Computing

  # Only the repositories that need isolation
  sinphase display --isolation`,
	PreRunE: localSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		start := time.Now()

		report, err := outwriter.LoadReportJSON(viper.GetString("input-file"))
		if err != nil {
			return err
		}

		if divisionFlag := viper.GetString("division"); divisionFlag != "" {
			division, err := schema.ParseDivision(divisionFlag)
			if err != nil {
				return err
			}
			report = filterReportDivision(report, division)
		}

		if viper.GetBool("isolation") {
			return outwriter.NewOutWriter().WriteIsolationCandidates(report, cfg)
		}

		return outwriter.NewOutWriter().WriteReport(report, cfg, time.Since(start))
	},
}
