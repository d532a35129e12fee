// Package core implements the Sinphasé cost scoring and organization
// analysis pipeline.
package core

import (
	"github.com/obinexus/sinphase/schema"
)

// Fixed denominators scaling raw metrics into score terms.
const (
	starsScale         = 1000.0
	recentCommitsScale = 100.0
)

// CalculateSinphaseCost computes the bounded cost score for one repository.
// Stars and recent commit activity contribute proportionally against fixed
// denominators with no per-term saturation, repository complexity feeds both
// the size and build-time dimensions, and the coverage weight contributes at
// full strength as a pessimistic proxy until real coverage data is wired in.
// The manual boost multiplies the weighted sum and only the final result
// saturates at the reorganization ceiling.
func CalculateSinphaseCost(m *schema.RepositoryMetrics, factors schema.CostFactors) float64 {
	complexity := m.CalculateComplexityScore()

	baseCost := float64(m.StarsCount)/starsScale*factors.StarsWeight +
		float64(m.CommitsLast30Days)/recentCommitsScale*factors.CommitActivityWeight +
		complexity*(factors.SizeWeight+factors.BuildTimeWeight) +
		factors.TestCoverageWeight*1.0

	boosted := baseCost * factors.ManualBoost
	return min(boosted, schema.ArchitecturalReorganizationThreshold)
}
