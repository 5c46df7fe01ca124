package contracts

// Financials is the raw per-ticker record produced by the Librarian stage.
// ⭐ SSOT: Librarian → Architect 입력 계약
//
// The eight required fields are pointers so that "absent" is distinguishable
// from zero: a record with any required field nil is incomplete and the
// Architect culls it instead of deriving metrics from garbage.
//
// Units: DividendYield and RevenueGrowth are percent (6 = 6%);
// PayoutRatio is a plain ratio (0.5 = 50% of earnings paid out);
// cash-flow fields share one currency unit.
type Financials struct {
	Symbol string `json:"symbol"`

	// Required fields (TTM)
	CashFlowFromOps  *float64 `json:"cash_flow_from_ops"`
	RDExpense        *float64 `json:"rd_expense"`
	Capex            *float64 `json:"capex"`
	DividendYield    *float64 `json:"dividend_yield"`
	PayoutRatio      *float64 `json:"payout_ratio"`
	FCFPriorPeriod   *float64 `json:"fcf_prior_period"`
	FCFCurrentPeriod *float64 `json:"fcf_current_period"`
	RevenueGrowth    *float64 `json:"revenue_growth"`

	// Optional enrichment, used by the Trader stage for sizing.
	// Absence never culls a candidate.
	Price  *float64 `json:"price,omitempty"`
	Sector string   `json:"sector,omitempty"`
}

// requiredFieldNames maps each required field to its JSON name,
// in a fixed order so MissingFields output is deterministic.
var requiredFieldNames = []string{
	"cash_flow_from_ops",
	"rd_expense",
	"capex",
	"dividend_yield",
	"payout_ratio",
	"fcf_prior_period",
	"fcf_current_period",
	"revenue_growth",
}

// MissingFields returns the JSON names of required fields that are absent.
func (f *Financials) MissingFields() []string {
	fields := []*float64{
		f.CashFlowFromOps,
		f.RDExpense,
		f.Capex,
		f.DividendYield,
		f.PayoutRatio,
		f.FCFPriorPeriod,
		f.FCFCurrentPeriod,
		f.RevenueGrowth,
	}

	var missing []string
	for i, p := range fields {
		if p == nil {
			missing = append(missing, requiredFieldNames[i])
		}
	}
	return missing
}

// Complete reports whether every required field is present.
func (f *Financials) Complete() bool {
	return len(f.MissingFields()) == 0
}

// FinancialSet is the full Librarian output for one run,
// addressed by ticker symbol with no duplicates.
type FinancialSet struct {
	Records map[string]*Financials `json:"records"`
}

// Get returns the record for a symbol.
func (s *FinancialSet) Get(symbol string) (*Financials, bool) {
	rec, ok := s.Records[symbol]
	return rec, ok
}

// Count returns the number of records.
func (s *FinancialSet) Count() int {
	return len(s.Records)
}

// Float64 returns a pointer to v. Convenience for building records.
func Float64(v float64) *float64 {
	return &v
}
