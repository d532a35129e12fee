package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultCostFactors ensures the stock weights sum to 1.0 and pass
// bounds validation.
func TestDefaultCostFactors(t *testing.T) {
	cf := DefaultCostFactors()
	total := cf.StarsWeight + cf.CommitActivityWeight + cf.BuildTimeWeight +
		cf.SizeWeight + cf.TestCoverageWeight
	assert.InDelta(t, 1.0, total, 0.0001)
	assert.Equal(t, 1.0, cf.ManualBoost)
	assert.True(t, cf.ValidateCostBounds())
}

func TestValidateCostBounds(t *testing.T) {
	tests := []struct {
		name    string
		factors CostFactors
		valid   bool
	}{
		{
			name:    "defaults",
			factors: DefaultCostFactors(),
			valid:   true,
		},
		{
			name: "lower edge inclusive",
			factors: CostFactors{
				StarsWeight:          0.2,
				CommitActivityWeight: 0.2,
				BuildTimeWeight:      0.2,
				SizeWeight:           0.1,
				TestCoverageWeight:   0.1,
			},
			valid: true,
		},
		{
			name: "upper edge inclusive",
			factors: CostFactors{
				StarsWeight:          0.3,
				CommitActivityWeight: 0.3,
				BuildTimeWeight:      0.2,
				SizeWeight:           0.2,
				TestCoverageWeight:   0.2,
			},
			valid: true,
		},
		{
			name: "sum too low",
			factors: CostFactors{
				StarsWeight: 0.5,
			},
			valid: false,
		},
		{
			name: "sum too high",
			factors: CostFactors{
				StarsWeight:          1.0,
				CommitActivityWeight: 0.3,
			},
			valid: false,
		},
		{
			name: "boost excluded from sum",
			factors: CostFactors{
				StarsWeight:          0.2,
				CommitActivityWeight: 0.3,
				BuildTimeWeight:      0.2,
				SizeWeight:           0.2,
				TestCoverageWeight:   0.1,
				ManualBoost:          50.0,
			},
			valid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.factors.ValidateCostBounds())
		})
	}
}

func TestCalculateComplexityScore(t *testing.T) {
	tests := []struct {
		name     string
		metrics  RepositoryMetrics
		expected float64
	}{
		{
			name:     "zero metrics",
			metrics:  RepositoryMetrics{},
			expected: 0.0,
		},
		{
			name:     "half size no activity",
			metrics:  RepositoryMetrics{SizeKB: 50000},
			expected: 0.25,
		},
		{
			name:     "full activity no size",
			metrics:  RepositoryMetrics{CommitsLast30Days: 100},
			expected: 0.5,
		},
		{
			name:     "both saturated",
			metrics:  RepositoryMetrics{SizeKB: 100000, CommitsLast30Days: 100},
			expected: 1.0,
		},
		{
			name:     "beyond ceilings still capped",
			metrics:  RepositoryMetrics{SizeKB: 5000000, CommitsLast30Days: 9000},
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.metrics.CalculateComplexityScore(), 0.0001)
		})
	}
}

// TestCloneIndependence verifies that mutating a clone does not leak back
// into the original metrics.
func TestCloneIndependence(t *testing.T) {
	coverage := 80.0
	original := &RepositoryMetrics{
		Name:                "svc",
		SizeKB:              100,
		Languages:           map[string]int{"Go": 90, "Shell": 10},
		TestCoveragePercent: &coverage,
	}
	clone := original.Clone()
	clone.Languages["Go"] = 1
	*clone.TestCoveragePercent = 5.0
	clone.SizeKB = 999

	assert.Equal(t, 90, original.Languages["Go"])
	assert.Equal(t, 80.0, *original.TestCoveragePercent)
	assert.Equal(t, 100, original.SizeKB)
}

func TestNewDivisionMetadataBounds(t *testing.T) {
	tests := []struct {
		name       string
		division   Division
		governance float64
		isolation  float64
		boost      float64
		wantErr    string
	}{
		{
			name:       "valid",
			division:   ComputingDivision,
			governance: 0.6,
			isolation:  0.8,
			boost:      1.2,
		},
		{
			name:       "equal thresholds allowed",
			division:   TDADivision,
			governance: 0.7,
			isolation:  0.7,
			boost:      1.0,
		},
		{
			name:       "unknown division",
			division:   Division("Skunkworks"),
			governance: 0.6,
			isolation:  0.8,
			boost:      1.0,
			wantErr:    "unknown division",
		},
		{
			name:       "governance above one",
			division:   ComputingDivision,
			governance: 1.5,
			isolation:  0.8,
			boost:      1.0,
			wantErr:    "governance threshold out of bounds",
		},
		{
			name:       "isolation negative",
			division:   ComputingDivision,
			governance: 0.0,
			isolation:  -0.1,
			boost:      1.0,
			wantErr:    "isolation threshold out of bounds",
		},
		{
			name:       "governance exceeds isolation",
			division:   PublishingDivision,
			governance: 0.9,
			isolation:  0.8,
			boost:      1.0,
			wantErr:    "cannot exceed isolation threshold",
		},
		{
			name:       "boost too small",
			division:   ComputingDivision,
			governance: 0.6,
			isolation:  0.8,
			boost:      0.05,
			wantErr:    "priority boost out of bounds",
		},
		{
			name:       "boost too large",
			division:   ComputingDivision,
			governance: 0.6,
			isolation:  0.8,
			boost:      3.5,
			wantErr:    "priority boost out of bounds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dm, err := NewDivisionMetadata(tt.division, "", tt.governance, tt.isolation, tt.boost, "")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, dm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.division, dm.Division)
			assert.NotEmpty(t, dm.Description)
		})
	}
}

// TestGovernanceBoundaryAsymmetry pins the operator asymmetry at the
// threshold boundaries: a score at the governance threshold is already
// non-compliant, and a score at the isolation threshold already requires
// isolation.
func TestGovernanceBoundaryAsymmetry(t *testing.T) {
	dm, err := DefaultDivisionMetadata(ComputingDivision)
	require.NoError(t, err)

	assert.True(t, dm.IsGovernanceCompliant(0.59))
	assert.False(t, dm.IsGovernanceCompliant(0.6))
	assert.False(t, dm.RequiresIsolation(0.6))
	assert.False(t, dm.RequiresIsolation(0.79))
	assert.True(t, dm.RequiresIsolation(0.8))
}

func TestApplyPriorityBoost(t *testing.T) {
	dm, err := NewDivisionMetadata(UcheNnamdiDivision, "", 0.6, 0.8, 1.5, "")
	require.NoError(t, err)

	assert.InDelta(t, 0.75, dm.ApplyPriorityBoost(0.5), 0.0001)
	assert.Equal(t, ArchitecturalReorganizationThreshold, dm.ApplyPriorityBoost(0.9))
}

func TestDefaultPriorityBoost(t *testing.T) {
	for _, d := range AllDivisions {
		boost := DefaultPriorityBoost(d)
		assert.GreaterOrEqual(t, boost, MinPriorityBoost)
		assert.LessOrEqual(t, boost, MaxPriorityBoost)
	}
	assert.Equal(t, 1.5, DefaultPriorityBoost(UcheNnamdiDivision))
	assert.Equal(t, 0.9, DefaultPriorityBoost(PublishingDivision))
	assert.Equal(t, 1.0, DefaultPriorityBoost(Division("nonsense")))
}

func TestGenerateGovernanceReport(t *testing.T) {
	dm, err := DefaultDivisionMetadata(AegisEngDivision)
	require.NoError(t, err)

	results := make([]*CostCalculationResult, 0, 4)
	for _, score := range []float64{0.2, 0.6, 0.85, 0.95} {
		r := NewCostCalculationResult("repo", AegisEngDivision, ActiveStatus)
		require.NoError(t, r.SetCalculationResult(score, nil, DefaultCostFactors()))
		results = append(results, r)
	}

	report := dm.GenerateGovernanceReport(results)
	assert.Equal(t, 4, report.TotalRepositories)
	assert.Equal(t, 1, report.CompliantRepositories)
	assert.Equal(t, 2, report.IsolationCandidates)
	assert.InDelta(t, 0.25, report.ComplianceRate, 0.0001)
}

func TestGenerateGovernanceReportEmpty(t *testing.T) {
	dm, err := DefaultDivisionMetadata(ComputingDivision)
	require.NoError(t, err)

	report := dm.GenerateGovernanceReport(nil)
	assert.Equal(t, 0, report.TotalRepositories)
	assert.Equal(t, 0.0, report.ComplianceRate)
	assert.False(t, math.IsNaN(report.ComplianceRate))
}

func TestParseDivision(t *testing.T) {
	d, err := ParseDivision("OBIAxis R&D")
	require.NoError(t, err)
	assert.Equal(t, ObiAxisRDDivision, d)

	_, err = ParseDivision("obiaxis")
	assert.Error(t, err)
}

func TestParseProjectStatus(t *testing.T) {
	ps, err := ParseProjectStatus("Incubator")
	require.NoError(t, err)
	assert.Equal(t, IncubatorStatus, ps)

	_, err = ParseProjectStatus("Retired")
	assert.Error(t, err)
}
