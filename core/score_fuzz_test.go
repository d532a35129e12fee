package core

import (
	"testing"

	"github.com/obinexus/sinphase/schema"
)

// FuzzCalculateSinphaseCost fuzzes the cost calculation with random raw
// metrics and boost values, verifying the score stays in bounds.
func FuzzCalculateSinphaseCost(f *testing.F) {
	seeds := []struct {
		stars   int
		commits int
		sizeKB  int
		boost   float64
	}{
		{0, 0, 0, 1.0},
		{100, 10, 5000, 1.0},
		{1000, 100, 100000, 1.0}, // all ceilings
		{5, 2, 300, 0.1},
		{99999, 9999, 9999999, 3.0}, // beyond ceilings
	}
	for _, s := range seeds {
		f.Add(s.stars, s.commits, s.sizeKB, s.boost)
	}

	f.Fuzz(func(t *testing.T, stars, commits, sizeKB int, boost float64) {
		if stars < 0 || commits < 0 || sizeKB < 0 {
			t.Skip("provider metrics are never negative")
		}
		if boost < schema.MinPriorityBoost || boost > schema.MaxPriorityBoost {
			t.Skip("boost outside validated bounds")
		}

		metrics := schema.RepositoryMetrics{
			StarsCount:        stars,
			CommitsLast30Days: commits,
			SizeKB:            sizeKB,
		}
		factors := schema.DefaultCostFactors()
		factors.ManualBoost = boost

		score := CalculateSinphaseCost(&metrics, factors)
		if score < 0 || score > schema.ArchitecturalReorganizationThreshold {
			t.Errorf("score %v out of bounds for stars=%d commits=%d size=%d boost=%v",
				score, stars, commits, sizeKB, boost)
		}
	})
}
