package schema

// CheckThresholds holds the gate settings for a compliance check run.
// MaxScore bounds individual normalized scores; MinComplianceRate bounds
// the organization-wide compliance rate.
type CheckThresholds struct {
	MaxScore          float64 `json:"max_score" mapstructure:"max_score"`
	MinComplianceRate float64 `json:"min_compliance_rate" mapstructure:"min_compliance_rate"`
	FailOnIsolation   bool    `json:"fail_on_isolation" mapstructure:"fail_on_isolation"`
}

// DefaultCheckThresholds returns the stock gate: fail at the isolation
// line, no compliance rate floor.
func DefaultCheckThresholds() CheckThresholds {
	return CheckThresholds{
		MaxScore:          IsolationThreshold * NormalizationCeiling,
		MinComplianceRate: 0.0,
		FailOnIsolation:   true,
	}
}

// CheckFailure identifies one repository that tripped the gate and why.
type CheckFailure struct {
	Repository      string  `json:"repository"`
	NormalizedScore float64 `json:"normalized_score"`
	Reason          string  `json:"reason"`
}

// CheckOutcome is the result of evaluating an organization report against
// gate thresholds. Passed is false when any failure was recorded.
type CheckOutcome struct {
	Organization   string         `json:"organization"`
	Passed         bool           `json:"passed"`
	ComplianceRate float64        `json:"compliance_rate"`
	Failures       []CheckFailure `json:"failures"`
}
