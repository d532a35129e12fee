package core

import (
	"context"
	"fmt"
	"time"

	"github.com/obinexus/sinphase/internal/contract"
	"github.com/obinexus/sinphase/schema"
)

// ErrCheckFailed signals that the compliance gate did not pass. Callers map
// it to a non-zero exit code.
var ErrCheckFailed = fmt.Errorf("compliance check failed")

// ExecuteComplianceCheck runs the check command for CI/CD gating. It scores
// the organization, evaluates every repository against the gate thresholds,
// and returns ErrCheckFailed when any repository trips the gate.
func ExecuteComplianceCheck(ctx context.Context, cfg *contract.Config, client contract.MetricsClient, mgr contract.StoreManager) error {
	start := time.Now()

	report, err := RunOrganizationAnalysis(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}

	outcome := EvaluateCheck(report, cfg.Check)
	printCheckResult(&outcome, cfg.Check, time.Since(start))

	if !outcome.Passed {
		if len(outcome.Failures) > 0 {
			return fmt.Errorf("%w: %d violation(s) found", ErrCheckFailed, len(outcome.Failures))
		}
		return fmt.Errorf("%w: compliance rate %.2f below minimum %.2f",
			ErrCheckFailed, outcome.ComplianceRate, cfg.Check.MinComplianceRate)
	}
	return nil
}

// EvaluateCheck applies the gate thresholds to a finished report. Pure
// function of its inputs.
func EvaluateCheck(report *schema.OrganizationCostReport, thresholds schema.CheckThresholds) schema.CheckOutcome {
	outcome := schema.CheckOutcome{
		Organization:   report.Organization,
		Passed:         true,
		ComplianceRate: report.SinphaseComplianceRate,
		Failures:       []schema.CheckFailure{},
	}

	for _, r := range report.RepositoryScores {
		if r.Error != "" {
			continue // unscored repositories are reported, not gated
		}
		if thresholds.MaxScore > 0 && r.NormalizedScore > thresholds.MaxScore {
			outcome.Failures = append(outcome.Failures, schema.CheckFailure{
				Repository:      r.Repository,
				NormalizedScore: r.NormalizedScore,
				Reason:          fmt.Sprintf("score %.1f exceeds maximum %.1f", r.NormalizedScore, thresholds.MaxScore),
			})
			continue
		}
		if thresholds.FailOnIsolation && r.RequiresIsolation {
			outcome.Failures = append(outcome.Failures, schema.CheckFailure{
				Repository:      r.Repository,
				NormalizedScore: r.NormalizedScore,
				Reason:          "requires isolation",
			})
		}
	}

	if report.SinphaseComplianceRate < thresholds.MinComplianceRate {
		outcome.Passed = false
	}
	if len(outcome.Failures) > 0 {
		outcome.Passed = false
	}
	return outcome
}

// printCheckResult prints the check result in a concise format suitable for
// CI/CD logs.
func printCheckResult(outcome *schema.CheckOutcome, thresholds schema.CheckThresholds, duration time.Duration) {
	fmt.Println("Governance Check Results:")

	labels := []string{"Organization:", "Max score:", "Min compliance:", "Fail on isolation:"}
	values := []any{
		outcome.Organization,
		fmt.Sprintf("%.1f", thresholds.MaxScore),
		fmt.Sprintf("%.2f", thresholds.MinComplianceRate),
		thresholds.FailOnIsolation,
	}

	maxLabelLen := 0
	for _, label := range labels {
		if len(label) > maxLabelLen {
			maxLabelLen = len(label)
		}
	}
	for i, label := range labels {
		fmt.Printf("  %-*s %v\n", maxLabelLen+1, label, values[i])
	}
	fmt.Println()

	fmt.Printf("Compliance rate %.2f in %v\n\n", outcome.ComplianceRate, duration)

	if outcome.Passed {
		fmt.Println("PASS: all repositories within governance bounds")
		return
	}
	fmt.Printf("FAIL: %d repositories outside governance bounds\n", len(outcome.Failures))
	for _, f := range outcome.Failures {
		fmt.Printf("  %s (%.1f): %s\n", f.Repository, f.NormalizedScore, f.Reason)
	}
}
