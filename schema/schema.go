// Package schema has the data model, constants and validation records for
// all parts of sinphase.
package schema

import (
	"fmt"
	"time"
)

// CostFactors holds the named weights for the five metric dimensions plus a
// manual multiplicative boost. The weights are read-only after construction;
// bounds are checked on demand via ValidateCostBounds rather than enforced
// at mutation time, so callers decide whether an out-of-bounds weight set is
// fatal.
type CostFactors struct {
	StarsWeight          float64 `json:"stars_weight" mapstructure:"stars_weight"`
	CommitActivityWeight float64 `json:"commit_activity_weight" mapstructure:"commit_activity_weight"`
	BuildTimeWeight      float64 `json:"build_time_weight" mapstructure:"build_time_weight"`
	SizeWeight           float64 `json:"size_weight" mapstructure:"size_weight"`
	TestCoverageWeight   float64 `json:"test_coverage_weight" mapstructure:"test_coverage_weight"`
	ManualBoost          float64 `json:"manual_boost" mapstructure:"manual_boost"`
}

// DefaultCostFactors returns the standard weight distribution.
func DefaultCostFactors() CostFactors {
	return CostFactors{
		StarsWeight:          0.2,
		CommitActivityWeight: 0.3,
		BuildTimeWeight:      0.2,
		SizeWeight:           0.2,
		TestCoverageWeight:   0.1,
		ManualBoost:          1.0,
	}
}

// ValidateCostBounds reports whether the five metric weights sum within
// [MinWeightSum, MaxWeightSum]. The manual boost is excluded from the sum.
// Pure; callable any number of times.
func (cf CostFactors) ValidateCostBounds() bool {
	total := cf.StarsWeight + cf.CommitActivityWeight + cf.BuildTimeWeight +
		cf.SizeWeight + cf.TestCoverageWeight
	return total >= MinWeightSum && total <= MaxWeightSum
}

// RepositoryMetrics holds the raw per-repository measurements collected for
// a single analysis run. Constructed once per repository and immutable for
// the remainder of the run. BuildTimeMinutes and TestCoveragePercent are nil
// when the hosting provider has no data for them; the scoring formula treats
// absent values as a neutral zero contribution.
type RepositoryMetrics struct {
	Name                string         `json:"name"`
	FullName            string         `json:"full_name,omitempty"`
	StarsCount          int            `json:"stars_count"`
	ForksCount          int            `json:"forks_count"`
	WatchersCount       int            `json:"watchers_count"`
	SizeKB              int            `json:"size_kb"`
	OpenIssuesCount     int            `json:"open_issues_count"`
	CommitsLast30Days   int            `json:"commits_last_30_days"`
	PrimaryLanguage     string         `json:"primary_language,omitempty"`
	Languages           map[string]int `json:"languages,omitempty"`
	HasCI               bool           `json:"has_ci"`
	IsFork              bool           `json:"is_fork"`
	IsArchived          bool           `json:"is_archived"`
	BuildTimeMinutes    *float64       `json:"build_time_minutes,omitempty"`
	TestCoveragePercent *float64       `json:"test_coverage_percent,omitempty"`
	CreatedAt           time.Time      `json:"created_at,omitzero"`
	UpdatedAt           time.Time      `json:"updated_at,omitzero"`
	LastCommitDate      *time.Time     `json:"last_commit_date,omitempty"`
}

// Normalization ceilings for the complexity sub-scores.
const (
	maxComplexitySizeKB  = 100000.0
	maxComplexityCommits = 100.0
)

// CalculateComplexityScore derives a normalized complexity score in [0,1]
// as the average of two clipped sub-scores: repository size against 100 MB
// and recent commit count against 100 commits. Deterministic and pure.
func (m *RepositoryMetrics) CalculateComplexityScore() float64 {
	sizeScore := min(float64(m.SizeKB)/maxComplexitySizeKB, 1.0)
	activityScore := min(float64(m.CommitsLast30Days)/maxComplexityCommits, 1.0)
	return 0.5*sizeScore + 0.5*activityScore
}

// Clone returns a deep copy of the metrics, used to snapshot the inputs of
// a cost calculation into its result.
func (m *RepositoryMetrics) Clone() *RepositoryMetrics {
	clone := *m
	if m.Languages != nil {
		clone.Languages = make(map[string]int, len(m.Languages))
		for k, v := range m.Languages {
			clone.Languages[k] = v
		}
	}
	if m.BuildTimeMinutes != nil {
		v := *m.BuildTimeMinutes
		clone.BuildTimeMinutes = &v
	}
	if m.TestCoveragePercent != nil {
		v := *m.TestCoveragePercent
		clone.TestCoveragePercent = &v
	}
	if m.LastCommitDate != nil {
		v := *m.LastCommitDate
		clone.LastCommitDate = &v
	}
	return &clone
}

// DivisionMetadata holds the governance parameters for one organizational
// division. Instances are only built through NewDivisionMetadata so the
// threshold invariants hold for the lifetime of the value.
type DivisionMetadata struct {
	Division             Division  `json:"division"`
	Description          string    `json:"description"`
	GovernanceThreshold  float64   `json:"governance_threshold"`
	IsolationThreshold   float64   `json:"isolation_threshold"`
	PriorityBoost        float64   `json:"priority_boost"`
	ResponsibleArchitect string    `json:"responsible_architect,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

// NewDivisionMetadata constructs division metadata, failing when any bound
// invariant is violated. A partially-valid division is never constructed.
func NewDivisionMetadata(division Division, description string, governanceThreshold, isolationThreshold, priorityBoost float64, architect string) (*DivisionMetadata, error) {
	if _, ok := ValidDivisions[division]; !ok {
		return nil, fmt.Errorf("unknown division %q", division)
	}
	if governanceThreshold < 0.0 || governanceThreshold > 1.0 {
		return nil, fmt.Errorf("governance threshold out of bounds for %s: %.2f not in [0,1]", division, governanceThreshold)
	}
	if isolationThreshold < 0.0 || isolationThreshold > 1.0 {
		return nil, fmt.Errorf("isolation threshold out of bounds for %s: %.2f not in [0,1]", division, isolationThreshold)
	}
	if governanceThreshold > isolationThreshold {
		return nil, fmt.Errorf("governance threshold %.2f cannot exceed isolation threshold %.2f for %s", governanceThreshold, isolationThreshold, division)
	}
	if priorityBoost < MinPriorityBoost || priorityBoost > MaxPriorityBoost {
		return nil, fmt.Errorf("priority boost out of bounds for %s: %.2f not in [%.1f,%.1f]", division, priorityBoost, MinPriorityBoost, MaxPriorityBoost)
	}
	if description == "" {
		description = fmt.Sprintf("%s Division", division)
	}
	return &DivisionMetadata{
		Division:             division,
		Description:          description,
		GovernanceThreshold:  governanceThreshold,
		IsolationThreshold:   isolationThreshold,
		PriorityBoost:        priorityBoost,
		ResponsibleArchitect: architect,
		CreatedAt:            time.Now().UTC(),
	}, nil
}

// DefaultDivisionMetadata returns the stock configuration for a division:
// universal thresholds plus the division's default priority boost.
func DefaultDivisionMetadata(division Division) (*DivisionMetadata, error) {
	return NewDivisionMetadata(division, "", GovernanceThreshold, IsolationThreshold, DefaultPriorityBoost(division), "")
}

// IsGovernanceCompliant reports whether a cost score is strictly below the
// division's governance threshold. The comparison is strict while
// RequiresIsolation is inclusive; a score exactly at the governance
// threshold is non-compliant but not necessarily isolated. Downstream
// consumers rely on this boundary behavior.
func (dm *DivisionMetadata) IsGovernanceCompliant(costScore float64) bool {
	return costScore < dm.GovernanceThreshold
}

// RequiresIsolation reports whether a cost score is at or above the
// division's isolation threshold.
func (dm *DivisionMetadata) RequiresIsolation(costScore float64) bool {
	return costScore >= dm.IsolationThreshold
}

// ApplyPriorityBoost multiplies a base score by the division's priority
// boost, capped at the architectural reorganization ceiling.
func (dm *DivisionMetadata) ApplyPriorityBoost(baseScore float64) float64 {
	return min(baseScore*dm.PriorityBoost, ArchitecturalReorganizationThreshold)
}

// DivisionGovernanceReport summarizes governance compliance for a set of
// repository results evaluated against one division's thresholds.
type DivisionGovernanceReport struct {
	Division              Division  `json:"division"`
	TotalRepositories     int       `json:"total_repositories"`
	CompliantRepositories int       `json:"compliant_repositories"`
	ComplianceRate        float64   `json:"compliance_rate"`
	IsolationCandidates   int       `json:"isolation_candidates"`
	GovernanceThreshold   float64   `json:"governance_threshold"`
	IsolationThreshold    float64   `json:"isolation_threshold"`
	ResponsibleArchitect  string    `json:"responsible_architect,omitempty"`
	GeneratedAt           time.Time `json:"generated_at"`
}

// GenerateGovernanceReport evaluates the given repository results against
// this division's thresholds. Results with no score evaluate at 0.0. Pure
// function of its input; division state is not mutated.
func (dm *DivisionMetadata) GenerateGovernanceReport(results []*CostCalculationResult) DivisionGovernanceReport {
	report := DivisionGovernanceReport{
		Division:             dm.Division,
		TotalRepositories:    len(results),
		GovernanceThreshold:  dm.GovernanceThreshold,
		IsolationThreshold:   dm.IsolationThreshold,
		ResponsibleArchitect: dm.ResponsibleArchitect,
		GeneratedAt:          time.Now().UTC(),
	}
	for _, r := range results {
		score := 0.0
		if r != nil {
			score = r.CalculatedScore
		}
		if dm.IsGovernanceCompliant(score) {
			report.CompliantRepositories++
		}
		if dm.RequiresIsolation(score) {
			report.IsolationCandidates++
		}
	}
	if report.TotalRepositories > 0 {
		report.ComplianceRate = float64(report.CompliantRepositories) / float64(report.TotalRepositories)
	}
	return report
}

// ParseDivision converts a raw string into a Division, erroring on values
// outside the closed set.
func ParseDivision(s string) (Division, error) {
	d := Division(s)
	if _, ok := ValidDivisions[d]; !ok {
		return "", fmt.Errorf("unknown division %q", s)
	}
	return d, nil
}

// ParseProjectStatus converts a raw string into a ProjectStatus, erroring
// on values outside the closed set.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	ps := ProjectStatus(s)
	if _, ok := ValidProjectStatuses[ps]; !ok {
		return "", fmt.Errorf("unknown project status %q", s)
	}
	return ps, nil
}
