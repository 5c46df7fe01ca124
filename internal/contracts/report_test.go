package contracts

import (
	"testing"
	"time"
)

func TestRunReport_TopTier(t *testing.T) {
	report := &RunReport{
		GeneratedAt: time.Now(),
		Ranked: []Candidate{
			{Symbol: "AAA", Rank: 1, TopTier: true},
			{Symbol: "BBB", Rank: 2, TopTier: true},
			{Symbol: "CCC", Rank: 3},
		},
		Culled: []Candidate{
			{Symbol: "DDD", Status: StatusCulled, Reason: ReasonValueTrap},
		},
	}

	top := report.TopTier()
	if len(top) != 2 {
		t.Fatalf("TopTier() returned %d candidates, want 2", len(top))
	}
	if top[0].Symbol != "AAA" || top[1].Symbol != "BBB" {
		t.Errorf("TopTier() order = [%s %s], want [AAA BBB]", top[0].Symbol, top[1].Symbol)
	}

	if report.TotalCount() != 4 {
		t.Errorf("TotalCount() = %d, want 4", report.TotalCount())
	}
}

func TestRunReport_CullCounts(t *testing.T) {
	report := &RunReport{
		Culled: []Candidate{
			{Symbol: "A", Status: StatusCulled, Reason: ReasonValueTrap},
			{Symbol: "B", Status: StatusCulled, Reason: ReasonIncompleteData},
			{Symbol: "C", Status: StatusCulled, Reason: ReasonIncompleteData},
			{Symbol: "D", Status: StatusCulled, Reason: ReasonDivisionError},
		},
	}

	counts := report.CullCounts()
	if counts[ReasonIncompleteData] != 2 {
		t.Errorf("incomplete_data count = %d, want 2", counts[ReasonIncompleteData])
	}
	if counts[ReasonValueTrap] != 1 {
		t.Errorf("value_trap count = %d, want 1", counts[ReasonValueTrap])
	}
	if counts[ReasonDivisionError] != 1 {
		t.Errorf("division_error count = %d, want 1", counts[ReasonDivisionError])
	}
}

func TestCandidate_IsTopRanked(t *testing.T) {
	tests := []struct {
		name string
		rank int
		n    int
		want bool
	}{
		{"rank 1 of top 5", 1, 5, true},
		{"rank 5 of top 5", 5, 5, true},
		{"rank 6 of top 5", 6, 5, false},
		{"unranked", 0, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Candidate{Rank: tt.rank}
			if got := c.IsTopRanked(tt.n); got != tt.want {
				t.Errorf("IsTopRanked(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestExecutionPlan_Totals(t *testing.T) {
	plan := &ExecutionPlan{
		Budget: 10000,
		Plans: []PositionPlan{
			{Symbol: "AAA", Position: Position{PositionValue: 800}},
			{Symbol: "BBB", Position: Position{PositionValue: 600}},
		},
	}

	if got := plan.TotalInvested(); got != 1400 {
		t.Errorf("TotalInvested() = %v, want 1400", got)
	}
	if got := plan.CashRemaining(); got != 8600 {
		t.Errorf("CashRemaining() = %v, want 8600", got)
	}

	if _, ok := plan.Find("BBB"); !ok {
		t.Error("Find(BBB) not found")
	}
	if _, ok := plan.Find("ZZZ"); ok {
		t.Error("Find(ZZZ) found nonexistent plan")
	}
}
