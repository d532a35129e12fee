package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinexus/sinphase/schema"
)

func reportWith(t *testing.T, scores map[string]float64) *schema.OrganizationCostReport {
	t.Helper()
	results := make([]*schema.CostCalculationResult, 0, len(scores))
	for repo, score := range scores {
		r := schema.NewCostCalculationResult(repo, schema.ComputingDivision, schema.ActiveStatus)
		require.NoError(t, r.SetCalculationResult(score, nil, schema.DefaultCostFactors()))
		results = append(results, r)
	}
	return schema.NewOrganizationCostReport("obinexus", len(scores), results)
}

func TestEvaluateCheckPasses(t *testing.T) {
	report := reportWith(t, map[string]float64{"alpha": 0.3, "bravo": 0.5})
	outcome := EvaluateCheck(report, schema.DefaultCheckThresholds())
	assert.True(t, outcome.Passed)
	assert.Empty(t, outcome.Failures)
	assert.Equal(t, 1.0, outcome.ComplianceRate)
}

func TestEvaluateCheckMaxScore(t *testing.T) {
	report := reportWith(t, map[string]float64{"alpha": 0.3, "bravo": 0.75})
	thresholds := schema.CheckThresholds{MaxScore: 70}

	outcome := EvaluateCheck(report, thresholds)
	assert.False(t, outcome.Passed)
	require.Len(t, outcome.Failures, 1)
	assert.Equal(t, "bravo", outcome.Failures[0].Repository)
	assert.Contains(t, outcome.Failures[0].Reason, "exceeds maximum")
}

func TestEvaluateCheckIsolation(t *testing.T) {
	report := reportWith(t, map[string]float64{"alpha": 0.85})
	thresholds := schema.CheckThresholds{FailOnIsolation: true}

	outcome := EvaluateCheck(report, thresholds)
	assert.False(t, outcome.Passed)
	require.Len(t, outcome.Failures, 1)
	assert.Equal(t, "requires isolation", outcome.Failures[0].Reason)
}

func TestEvaluateCheckComplianceFloor(t *testing.T) {
	report := reportWith(t, map[string]float64{"alpha": 0.9, "bravo": 0.1})
	thresholds := schema.CheckThresholds{MinComplianceRate: 0.9}

	outcome := EvaluateCheck(report, thresholds)
	assert.False(t, outcome.Passed)
	assert.Empty(t, outcome.Failures)
	assert.InDelta(t, 0.5, outcome.ComplianceRate, 0.0001)
}

// TestEvaluateCheckSkipsErroredResults verifies unscored repositories never
// trip the gate on their zero score.
func TestEvaluateCheckSkipsErroredResults(t *testing.T) {
	broken := schema.NewCostCalculationResult("broken", schema.ComputingDivision, schema.ActiveStatus)
	broken.Error = "metrics collection failed"
	report := schema.NewOrganizationCostReport("obinexus", 1, []*schema.CostCalculationResult{broken})

	outcome := EvaluateCheck(report, schema.CheckThresholds{FailOnIsolation: true, MaxScore: 0.0001})
	assert.True(t, outcome.Passed)
}
