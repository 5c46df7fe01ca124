package architect

import (
	"math"
	"sort"

	"github.com/wonny/capengine/internal/contracts"
)

// topTierPercentile marks the elite cut within the survivors
const topTierPercentile = 0.9

// rankSurvivors orders candidates by acceleration score descending,
// ties broken by symbol ascending, and assigns 1-based ranks.
func rankSurvivors(survivors []contracts.Candidate) []contracts.Candidate {
	sort.Slice(survivors, func(i, j int) bool {
		if survivors[i].AccelerationScore != survivors[j].AccelerationScore {
			return survivors[i].AccelerationScore > survivors[j].AccelerationScore
		}
		return survivors[i].Symbol < survivors[j].Symbol
	})

	for i := range survivors {
		survivors[i].Rank = i + 1
	}
	return survivors
}

// percentileThreshold computes the 90th percentile of the given scores
// with linear interpolation. Returns nil when fewer than two scores
// exist: a percentile over a single point is meaningless, so no
// top-tier cut is drawn.
func percentileThreshold(scores []float64) *float64 {
	n := len(scores)
	if n < 2 {
		return nil
	}

	sorted := make([]float64, n)
	copy(sorted, scores)
	sort.Float64s(sorted)

	idx := topTierPercentile * float64(n-1)
	lower := int(math.Floor(idx))
	frac := idx - float64(lower)

	threshold := sorted[lower]
	if lower+1 < n {
		threshold += frac * (sorted[lower+1] - sorted[lower])
	}
	return &threshold
}

// markTopTier flags every ranked candidate at or above the threshold
func markTopTier(ranked []contracts.Candidate, threshold *float64) {
	if threshold == nil {
		return
	}
	for i := range ranked {
		ranked[i].TopTier = ranked[i].AccelerationScore >= *threshold
	}
}
