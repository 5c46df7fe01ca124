package architect

// Value-trap thresholds: a yield above 5% paired with FCF growth under
// 2% reads as a dividend propped up by a stalling business.
const (
	valueTrapYieldPct    = 5.0  // dividend_yield, percent points
	valueTrapGrowthFloor = 0.02 // fcf_growth, ratio
)

// isValueTrap flags high-yield names whose cash flow has stalled.
// Growth must already be derived; incomplete records never reach here.
func isValueTrap(dividendYieldPct, growth float64) bool {
	return dividendYieldPct > valueTrapYieldPct && growth < valueTrapGrowthFloor
}
