package architect

import "math"

// rdWeight is the haircut applied to R&D when treating it as
// reinvestment rather than pure expense.
const rdWeight = 0.5

// shadowFCF computes operating cash flow adjusted for reinvestment:
// half of R&D added back, capex subtracted.
func shadowFCF(cfo, rd, capex float64) float64 {
	return cfo + rdWeight*rd - capex
}

// fcfGrowth computes period-over-period free-cash-flow growth as a
// ratio. The denominator is |prior| so that recovering from a negative
// base still reads as positive growth. Undefined when prior is zero.
func fcfGrowth(current, prior float64) (float64, bool) {
	if prior == 0 {
		return 0, false
	}
	return (current - prior) / math.Abs(prior), true
}

// accelerationScore divides growth by the payout ratio: the same
// growth is worth more when less of earnings is already committed to
// dividends. Undefined for non-positive payout.
func accelerationScore(growth, payoutRatio float64) (float64, bool) {
	if payoutRatio <= 0 {
		return 0, false
	}
	return growth / payoutRatio, true
}
