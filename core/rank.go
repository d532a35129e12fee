package core

import (
	"sort"

	"github.com/obinexus/sinphase/schema"
)

// RankResults sorts repository results by their normalized score in
// descending order and returns the top 'limit' results. If limit is greater
// than the number of results, all results are returned in sorted order.
func RankResults(results []*schema.CostCalculationResult, limit int) []*schema.CostCalculationResult {
	ranked := make([]*schema.CostCalculationResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].NormalizedScore > ranked[j].NormalizedScore
	})
	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}

// FilterByDivision returns the results belonging to one division, keeping
// input order.
func FilterByDivision(results []*schema.CostCalculationResult, division schema.Division) []*schema.CostCalculationResult {
	filtered := make([]*schema.CostCalculationResult, 0, len(results))
	for _, r := range results {
		if r.Division == division {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
