package schema

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// CostCalculationResult carries one repository's scoring outcome together
// with the inputs that produced it. A zero-valued result means the score
// has not been computed yet; SetCalculationResult transitions it to the
// computed state and runs threshold evaluation exactly once.
type CostCalculationResult struct {
	Repository         string             `json:"repository"`
	Division           Division           `json:"division"`
	Status             ProjectStatus      `json:"status"`
	RawMetrics         *RepositoryMetrics `json:"raw_metrics,omitempty"`
	CostFactors        CostFactors        `json:"cost_factors"`
	CalculatedScore    float64            `json:"calculated_score"`
	NormalizedScore    float64            `json:"normalized_score"`
	GovernanceAlerts   []string           `json:"governance_alerts"`
	SinphaseViolations []string           `json:"sinphase_violations"`
	RequiresIsolation  bool               `json:"requires_isolation"`
	CalculatedAt       time.Time          `json:"calculated_at,omitzero"`
	Error              string             `json:"error,omitempty"`
}

// NewCostCalculationResult returns an uncomputed result with empty alert
// slices, so JSON output always carries arrays rather than nulls.
func NewCostCalculationResult(repository string, division Division, status ProjectStatus) *CostCalculationResult {
	return &CostCalculationResult{
		Repository:         repository,
		Division:           division,
		Status:             status,
		GovernanceAlerts:   []string{},
		SinphaseViolations: []string{},
	}
}

// SetCalculationResult records a computed score, rejecting non-finite
// values, then normalizes the score to a 0..100 scale and applies threshold
// evaluation. Negative scores are accepted; the cost formula has no floor.
// Alerts from a prior evaluation are replaced, never appended to.
func (r *CostCalculationResult) SetCalculationResult(score float64, metrics *RepositoryMetrics, factors CostFactors) error {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return fmt.Errorf("invalid cost score %v for %s", score, r.Repository)
	}
	r.CalculatedScore = score
	r.NormalizedScore = score * NormalizationCeiling
	if metrics != nil {
		r.RawMetrics = metrics.Clone()
	}
	r.CostFactors = factors
	r.CalculatedAt = time.Now().UTC()
	r.applyGovernanceThresholds()
	return nil
}

// applyGovernanceThresholds classifies the normalized score against the
// three universal thresholds. The checks are cumulative: a score past the
// reorganization ceiling also carries the governance and isolation alerts.
func (r *CostCalculationResult) applyGovernanceThresholds() {
	r.GovernanceAlerts = []string{}
	r.SinphaseViolations = []string{}
	r.RequiresIsolation = false

	governance := GovernanceThreshold * NormalizationCeiling
	isolation := IsolationThreshold * NormalizationCeiling
	reorganization := ArchitecturalReorganizationThreshold * NormalizationCeiling

	if r.NormalizedScore >= governance {
		r.GovernanceAlerts = append(r.GovernanceAlerts,
			fmt.Sprintf("Governance threshold exceeded: %.1f >= %.1f", r.NormalizedScore, governance))
	}
	if r.NormalizedScore >= isolation {
		r.SinphaseViolations = append(r.SinphaseViolations,
			fmt.Sprintf("Isolation threshold exceeded: %.1f >= %.1f", r.NormalizedScore, isolation))
		r.RequiresIsolation = true
	}
	if r.NormalizedScore >= reorganization {
		r.SinphaseViolations = append(r.SinphaseViolations,
			fmt.Sprintf("Architectural reorganization required: %.1f >= %.1f", r.NormalizedScore, reorganization))
	}
}

// AddSinphaseViolations appends structural methodology violations on top of
// the threshold evaluation. Any structural violation flags the repository
// for isolation regardless of its score.
func (r *CostCalculationResult) AddSinphaseViolations(violations ...string) {
	if len(violations) == 0 {
		return
	}
	r.SinphaseViolations = append(r.SinphaseViolations, violations...)
	r.RequiresIsolation = true
}

// HasViolations reports whether any isolation or reorganization violation
// was recorded for this repository.
func (r *CostCalculationResult) HasViolations() bool {
	return len(r.SinphaseViolations) > 0
}

// DivisionSummary aggregates scored repositories belonging to one division.
type DivisionSummary struct {
	Division             Division              `json:"division"`
	TotalRepositories    int                   `json:"total_repositories"`
	AverageScore         float64               `json:"average_score"`
	StatusDistribution   map[ProjectStatus]int `json:"status_distribution"`
	GovernanceViolations int                   `json:"governance_violations"`
	IsolationCandidates  int                   `json:"isolation_candidates"`
	TopRepositories      []RepositoryRef       `json:"top_repositories"`
}

// RepositoryRef is a compact (name, normalized score) pair used in summary
// listings.
type RepositoryRef struct {
	Repository      string  `json:"repository"`
	NormalizedScore float64 `json:"normalized_score"`
}

// topRepositoryCount caps how many repositories a division summary lists.
const topRepositoryCount = 5

// SummarizeDivision builds a summary over the given results, all assumed to
// belong to the stated division. Repositories are ranked by normalized score
// descending; ties keep input order.
func SummarizeDivision(division Division, results []*CostCalculationResult) DivisionSummary {
	summary := DivisionSummary{
		Division:           division,
		TotalRepositories:  len(results),
		StatusDistribution: make(map[ProjectStatus]int),
		TopRepositories:    []RepositoryRef{},
	}
	if len(results) == 0 {
		return summary
	}

	var total float64
	refs := make([]RepositoryRef, 0, len(results))
	for _, r := range results {
		total += r.NormalizedScore
		summary.StatusDistribution[r.Status]++
		if len(r.GovernanceAlerts) > 0 {
			summary.GovernanceViolations++
		}
		if r.RequiresIsolation {
			summary.IsolationCandidates++
		}
		refs = append(refs, RepositoryRef{Repository: r.Repository, NormalizedScore: r.NormalizedScore})
	}
	summary.AverageScore = total / float64(len(results))

	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].NormalizedScore > refs[j].NormalizedScore
	})
	if len(refs) > topRepositoryCount {
		refs = refs[:topRepositoryCount]
	}
	summary.TopRepositories = refs
	return summary
}

// OrganizationCostReport is the top-level output of an analysis run: every
// repository result, per-division summaries and one organization-wide
// compliance rate.
type OrganizationCostReport struct {
	Organization           string                       `json:"organization"`
	AnalysisTimestamp      time.Time                    `json:"analysis_timestamp"`
	TotalRepositories      int                          `json:"total_repositories"`
	AnalyzedRepositories   int                          `json:"analyzed_repositories"`
	RepositoryScores       []*CostCalculationResult     `json:"repository_scores"`
	DivisionSummaries      map[Division]DivisionSummary `json:"division_summaries"`
	SinphaseComplianceRate float64                      `json:"sinphase_compliance_rate"`
}

// NewOrganizationCostReport builds a report over the given results,
// deriving division summaries and the organization compliance rate.
// TotalRepositories counts repositories discovered in the organization;
// len(results) may be smaller when some repositories were skipped.
func NewOrganizationCostReport(organization string, totalRepositories int, results []*CostCalculationResult) *OrganizationCostReport {
	report := &OrganizationCostReport{
		Organization:         organization,
		AnalysisTimestamp:    time.Now().UTC(),
		TotalRepositories:    totalRepositories,
		AnalyzedRepositories: len(results),
		RepositoryScores:     results,
		DivisionSummaries:    make(map[Division]DivisionSummary),
	}
	byDivision := make(map[Division][]*CostCalculationResult)
	for _, r := range results {
		byDivision[r.Division] = append(byDivision[r.Division], r)
	}
	for division, divisionResults := range byDivision {
		report.DivisionSummaries[division] = SummarizeDivision(division, divisionResults)
	}
	report.SinphaseComplianceRate = report.CalculateGovernanceMetrics()
	return report
}

// CalculateGovernanceMetrics computes the organization compliance rate as
// one minus the violation density, clamped at zero. With no results the
// rate is left at whatever value the report already carries.
func (r *OrganizationCostReport) CalculateGovernanceMetrics() float64 {
	if len(r.RepositoryScores) == 0 {
		return r.SinphaseComplianceRate
	}
	violations := 0
	for _, result := range r.RepositoryScores {
		violations += len(result.SinphaseViolations)
	}
	rate := 1.0 - float64(violations)/float64(len(r.RepositoryScores))
	return max(rate, 0.0)
}

// GetIsolationCandidates returns the results flagged for isolation in the
// order they appear in RepositoryScores. Callers that want a score ranking
// sort the projection themselves.
func (r *OrganizationCostReport) GetIsolationCandidates() []*CostCalculationResult {
	candidates := []*CostCalculationResult{}
	for _, result := range r.RepositoryScores {
		if result.RequiresIsolation {
			candidates = append(candidates, result)
		}
	}
	return candidates
}
