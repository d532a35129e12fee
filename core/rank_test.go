package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinexus/sinphase/schema"
)

func TestRankResults(t *testing.T) {
	results := []*schema.CostCalculationResult{
		{Repository: "low", NormalizedScore: 10},
		{Repository: "high", NormalizedScore: 90},
		{Repository: "mid", NormalizedScore: 50},
	}

	ranked := RankResults(results, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "high", ranked[0].Repository)
	assert.Equal(t, "mid", ranked[1].Repository)

	// Input order is untouched.
	assert.Equal(t, "low", results[0].Repository)

	all := RankResults(results, 10)
	assert.Len(t, all, 3)

	unlimited := RankResults(results, 0)
	assert.Len(t, unlimited, 3)
}
