package cmd

import (
	"github.com/spf13/cobra"

	"github.com/obinexus/sinphase/internal/outwriter"
)

// divisionsCmd prints the effective division governance configuration.
var divisionsCmd = &cobra.Command{
	Use:   "divisions",
	Short: "Show division governance thresholds and boost factors",
	Long: `Print the governance threshold, isolation threshold, boost factor and
responsible architect for every known division, after applying any overrides
from the config file.

Examples:
  # Show the effective division table
  sinphase divisions

  # Machine-readable form for tooling
  sinphase divisions --output json`,
	PreRunE: localSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return outwriter.NewOutWriter().WriteDivisions(cfg)
	},
}
