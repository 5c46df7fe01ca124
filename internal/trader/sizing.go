package trader

import (
	"math"

	"github.com/wonny/capengine/internal/contracts"
)

// Conviction bands: stronger acceleration earns a larger slice of the
// budget. Percentages of total budget, not of remaining cash.
var sizeBands = []struct {
	minScore float64
	percent  float64
}{
	{0.8, 10.0},
	{0.5, 8.0},
	{0.3, 6.0},
}

// baseSizePercent is the floor allocation for any name that made the cut
const baseSizePercent = 5.0

// sizePercentFor maps an acceleration score to its budget slice
func sizePercentFor(score float64) float64 {
	for _, band := range sizeBands {
		if score >= band.minScore {
			return band.percent
		}
	}
	return baseSizePercent
}

// sizePosition computes whole-share sizing for one candidate.
// Without a price no shares can be computed; the allocation is then
// expressed in value only.
func sizePosition(score, budget float64, price *float64) contracts.Position {
	pct := sizePercentFor(score)
	allocation := budget * pct / 100

	pos := contracts.Position{SizePercent: pct}
	if price == nil || *price <= 0 {
		pos.PositionValue = allocation
		return pos
	}

	pos.Price = *price
	pos.Shares = int64(math.Floor(allocation / *price))
	pos.PositionValue = float64(pos.Shares) * *price
	return pos
}
