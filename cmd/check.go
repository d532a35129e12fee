package cmd

import (
	"github.com/spf13/cobra"

	"github.com/obinexus/sinphase/core"
	"github.com/obinexus/sinphase/internal/ghmetrics"
	"github.com/obinexus/sinphase/internal/iocache"
)

// checkCmd focused on CI/CD governance enforcement.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Enforce governance thresholds for CI/CD pipelines (fails build on violations)",
	Long: `Run the organization analysis and enforce governance gates, failing with
a non-zero exit code when any gate trips.

Gates:
- max-score: no repository's normalized score may reach this value
- min-compliance-rate: the organization compliance rate must stay above this
- fail-on-isolation: no repository may require architectural isolation

Use cases:
- Nightly governance gates in CI
- Release validation before org-wide rollouts
- Preventing silent cost regression

Examples:
  # Fail when any repository needs isolation
  sinphase check --org obinexus --fail-on-isolation

  # Enforce a score ceiling and a compliance floor
  sinphase check --max-score 80 --min-compliance-rate 0.7`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		client := ghmetrics.NewClient(cfg.Token, 0)
		// ErrCheckFailed propagates so the process exits non-zero.
		return core.ExecuteComplianceCheck(rootCtx, cfg, client, iocache.Manager)
	},
}
