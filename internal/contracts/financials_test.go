package contracts

import (
	"encoding/json"
	"testing"
)

func completeRecord() *Financials {
	return &Financials{
		Symbol:           "AAPL",
		CashFlowFromOps:  Float64(100),
		RDExpense:        Float64(20),
		Capex:            Float64(30),
		DividendYield:    Float64(2),
		PayoutRatio:      Float64(0.5),
		FCFPriorPeriod:   Float64(50),
		FCFCurrentPeriod: Float64(60),
		RevenueGrowth:    Float64(10),
	}
}

func TestFinancials_MissingFields(t *testing.T) {
	rec := completeRecord()
	if missing := rec.MissingFields(); len(missing) != 0 {
		t.Errorf("complete record reported missing fields: %v", missing)
	}

	rec.PayoutRatio = nil
	rec.Capex = nil

	missing := rec.MissingFields()
	if len(missing) != 2 {
		t.Fatalf("MissingFields() = %v, want 2 entries", missing)
	}
	// Deterministic order: capex comes before payout_ratio
	if missing[0] != "capex" || missing[1] != "payout_ratio" {
		t.Errorf("MissingFields() = %v, want [capex payout_ratio]", missing)
	}
}

func TestFinancials_Complete(t *testing.T) {
	rec := completeRecord()
	if !rec.Complete() {
		t.Error("Complete() = false for complete record")
	}

	rec.FCFPriorPeriod = nil
	if rec.Complete() {
		t.Error("Complete() = true with missing fcf_prior_period")
	}
}

func TestFinancials_JSONMissingField(t *testing.T) {
	// A field absent from the JSON must unmarshal as nil, not zero.
	raw := `{"symbol":"MSFT","cash_flow_from_ops":100,"rd_expense":20,
		"capex":30,"dividend_yield":1.5,"fcf_prior_period":50,
		"fcf_current_period":60,"revenue_growth":8}`

	var rec Financials
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if rec.PayoutRatio != nil {
		t.Errorf("PayoutRatio = %v, want nil for absent field", *rec.PayoutRatio)
	}
	if rec.Complete() {
		t.Error("Complete() = true with payout_ratio absent from JSON")
	}
	if got := rec.MissingFields(); len(got) != 1 || got[0] != "payout_ratio" {
		t.Errorf("MissingFields() = %v, want [payout_ratio]", got)
	}
}

func TestFinancialSet_Get(t *testing.T) {
	set := &FinancialSet{
		Records: map[string]*Financials{
			"AAPL": completeRecord(),
		},
	}

	if _, ok := set.Get("AAPL"); !ok {
		t.Error("Get(AAPL) not found")
	}
	if _, ok := set.Get("ZZZZ"); ok {
		t.Error("Get(ZZZZ) found nonexistent symbol")
	}
	if set.Count() != 1 {
		t.Errorf("Count() = %d, want 1", set.Count())
	}
}
