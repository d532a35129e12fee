package core

import (
	"context"
	"fmt"

	"github.com/obinexus/sinphase/internal/contract"
	"github.com/obinexus/sinphase/schema"
)

// resolvePolicy determines the governance policy for one repository. The
// organization config wins; a policy file inside the repository is the
// fallback; repositories with neither get the Computing/Active defaults.
func resolvePolicy(ctx context.Context, cfg *contract.Config, client contract.MetricsClient, repo string) (contract.RepoPolicy, error) {
	if policy, ok := cfg.PolicyFor(repo); ok {
		return policy, nil
	}

	raw, err := client.GetRepositoryPolicy(ctx, cfg.Organization, repo)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("policy lookup failed for %s", repo), err)
		raw = nil
	}
	return contract.ResolveRepoPolicy(raw, cfg.DefaultFactors)
}

// scoreRepository runs the full calculation pipeline for one repository:
// policy resolution, metrics collection, weighted scoring, division boost
// and threshold evaluation. A nil result means the repository was skipped
// (policy skip, or fork/archive exclusion). Failures are folded into the
// result's Error field so one bad repository never aborts the run.
func scoreRepository(ctx context.Context, cfg *contract.Config, client contract.MetricsClient, mgr contract.StoreManager, repo string) *schema.CostCalculationResult {
	policy, err := resolvePolicy(ctx, cfg, client, repo)
	if err != nil {
		result := schema.NewCostCalculationResult(repo, schema.ComputingDivision, schema.ActiveStatus)
		result.Error = err.Error()
		return result
	}
	if policy.Skip {
		return nil
	}

	result := schema.NewCostCalculationResult(repo, policy.Division, policy.Status)

	metrics, err := cachedRepositoryMetrics(ctx, cfg, client, mgr, repo)
	if err != nil {
		result.Error = fmt.Sprintf("metrics collection failed: %v", err)
		return result
	}
	if metrics.IsFork && !cfg.IncludeForks {
		return nil
	}
	if metrics.IsArchived && !cfg.IncludeArchived {
		return nil
	}

	factors := cfg.DefaultFactors
	if policy.Factors != nil {
		factors = *policy.Factors
	}
	if !factors.ValidateCostBounds() {
		contract.LogWarn(fmt.Sprintf("cost factor weights for %s sum outside governance bounds", repo), nil)
	}

	division, err := cfg.DivisionFor(policy.Division)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	score := CalculateSinphaseCost(metrics, factors)
	boosted := division.ApplyPriorityBoost(score)

	if err := result.SetCalculationResult(boosted, metrics, factors); err != nil {
		result.Error = err.Error()
		return result
	}
	result.AddSinphaseViolations(assessStructuralCompliance(metrics, policy, boosted)...)
	return result
}

// Structural compliance ceilings, beyond which single-pass builds and
// acyclic dependency graphs become unlikely.
const (
	structuralSizeKBCeiling    = 100000
	structuralScoreCeiling     = 0.8
	structuralBuildTimeCeiling = 30.0
	structuralCommitCeiling    = 200
	structuralDependencyLimit  = 10
)

// assessStructuralCompliance applies the methodology's heuristics for
// violations the score alone cannot reveal: declared non-compliance,
// likely dependency cycles, build complexity and temporal coupling.
func assessStructuralCompliance(metrics *schema.RepositoryMetrics, policy contract.RepoPolicy, score float64) []string {
	var violations []string

	if !policy.SinphaseCompliance {
		violations = append(violations, "Explicit Sinphase non-compliance declared")
	}
	if metrics.SizeKB > structuralSizeKBCeiling && score > structuralScoreCeiling {
		violations = append(violations, "Potential circular dependency complexity detected")
	}
	if metrics.BuildTimeMinutes != nil && *metrics.BuildTimeMinutes > structuralBuildTimeCeiling {
		violations = append(violations, "Build complexity exceeds single-pass threshold")
	}
	if metrics.CommitsLast30Days > structuralCommitCeiling && len(policy.Dependencies) > structuralDependencyLimit {
		violations = append(violations, "High temporal coupling risk detected")
	}

	return violations
}
