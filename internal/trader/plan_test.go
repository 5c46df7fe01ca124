package trader

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/capengine/internal/contracts"
	"github.com/wonny/capengine/pkg/logger"
)

func newTrader() *Trader {
	return New(nil, logger.NewForWriter(io.Discard))
}

func rankedCandidate(symbol string, score, price float64, sector string) contracts.Candidate {
	return contracts.Candidate{
		Symbol:            symbol,
		Status:            contracts.StatusRanked,
		AccelerationScore: score,
		FCFGrowth:         0.1,
		TopTier:           true,
		Raw: contracts.Financials{
			Price:       contracts.Float64(price),
			Sector:      sector,
			PayoutRatio: contracts.Float64(0.5),
		},
	}
}

func TestSizePercentBands(t *testing.T) {
	tests := []struct {
		score float64
		want  float64
	}{
		{1.2, 10.0},
		{0.8, 10.0},
		{0.79, 8.0},
		{0.5, 8.0},
		{0.49, 6.0},
		{0.3, 6.0},
		{0.29, 5.0},
		{0.0, 5.0},
		{-0.5, 5.0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sizePercentFor(tt.score), "score %v", tt.score)
	}
}

func TestSizePositionWholeShares(t *testing.T) {
	// 10% of 10000 = 1000; at $182.50 that is 5 whole shares
	pos := sizePosition(0.9, 10000, contracts.Float64(182.50))

	assert.Equal(t, 10.0, pos.SizePercent)
	assert.Equal(t, int64(5), pos.Shares)
	assert.InDelta(t, 912.50, pos.PositionValue, 1e-9)
}

func TestSizePositionNoPrice(t *testing.T) {
	pos := sizePosition(0.9, 10000, nil)

	assert.Zero(t, pos.Shares)
	assert.InDelta(t, 1000.0, pos.PositionValue, 1e-9)
}

func TestStopLevels(t *testing.T) {
	stops := stopLevels(100, 20)

	assert.InDelta(t, 85.0, stops.TrailingStop, 1e-9)
	assert.InDelta(t, 80.0, stops.HardStop, 1e-9)
	assert.Equal(t, 15.0, stops.TrailingStopPct)
	assert.Equal(t, 20.0, stops.HardStopPct)

	// never tighter than the trailing stop, never wider than the cap
	assert.InDelta(t, 85.0, stopLevels(100, 5).HardStop, 1e-9)
	assert.InDelta(t, 75.0, stopLevels(100, 40).HardStop, 1e-9)
	assert.InDelta(t, 80.0, stopLevels(100, -20).HardStop, 1e-9)
}

func TestProfitTargets(t *testing.T) {
	targets := profitTargets(100)

	require.Len(t, targets, 3)
	assert.InDelta(t, 110.0, targets[0].Price, 1e-9)
	assert.InDelta(t, 130.0, targets[2].Price, 1e-9)
	assert.Equal(t, "Sell 50%", targets[2].Action)

	assert.Nil(t, profitTargets(0))
}

func TestKillSwitches(t *testing.T) {
	clean := rankedCandidate("OK", 0.5, 100, "Technology")
	assert.Empty(t, killSwitches(&clean))

	declining := rankedCandidate("BAD", 0.5, 100, "Technology")
	declining.FCFGrowth = -0.25
	warnings := killSwitches(&declining)
	require.Len(t, warnings, 1)
	assert.Equal(t, "FCF_DECLINE", warnings[0].Type)
	assert.Equal(t, "TRIGGERED", warnings[0].Status)

	stretched := rankedCandidate("STRETCH", 0.5, 100, "Technology")
	stretched.Raw.PayoutRatio = contracts.Float64(2.0)
	warnings = killSwitches(&stretched)
	require.Len(t, warnings, 1)
	assert.Equal(t, "PAYOUT_STRETCH", warnings[0].Type)
}

func TestSectorConcentration(t *testing.T) {
	plans := []contracts.PositionPlan{
		{Sector: "Technology", Position: contracts.Position{PositionValue: 700}},
		{Sector: "Healthcare", Position: contracts.Position{PositionValue: 300}},
	}

	check := checkSectorConcentration(plans)
	assert.InDelta(t, 70.0, check.Allocation["Technology"], 1e-9)
	assert.False(t, check.Diversified)
	require.Len(t, check.Warnings, 1)
	assert.Contains(t, check.Warnings[0], "Technology")
}

func TestSectorConcentrationDiversified(t *testing.T) {
	plans := []contracts.PositionPlan{
		{Sector: "Technology", Position: contracts.Position{PositionValue: 300}},
		{Sector: "Healthcare", Position: contracts.Position{PositionValue: 300}},
		{Sector: "", Position: contracts.Position{PositionValue: 300}},
		{Sector: "Energy", Position: contracts.Position{PositionValue: 200}},
	}

	check := checkSectorConcentration(plans)
	assert.True(t, check.Diversified)
	assert.Empty(t, check.Warnings)
	// Missing sector grouped, not dropped
	assert.Contains(t, check.Allocation, "Unknown")
}

func TestBuildPlan(t *testing.T) {
	report := &contracts.RunReport{
		Threshold: contracts.Float64(0.8),
		Ranked: []contracts.Candidate{
			rankedCandidate("NVDA", 0.9, 180, "Technology"),
			rankedCandidate("LLY", 0.85, 750, "Healthcare"),
		},
	}
	for i := range report.Ranked {
		report.Ranked[i].Rank = i + 1
	}

	plan := newTrader().BuildPlan(context.Background(), "run-1", report, 10000)

	assert.Equal(t, contracts.PlanPendingApproval, plan.Status)
	require.Len(t, plan.Plans, 2)

	nvda, ok := plan.Find("NVDA")
	require.True(t, ok)
	assert.Equal(t, 10.0, nvda.Position.SizePercent)
	assert.Equal(t, int64(5), nvda.Position.Shares)
	assert.Equal(t, contracts.RiskClear, nvda.RiskStatus)
	assert.Len(t, nvda.Targets, 3)

	assert.LessOrEqual(t, plan.TotalInvested(), plan.Budget)
	assert.InDelta(t, plan.Budget-plan.TotalInvested(), plan.CashRemaining(), 1e-9)
}

func TestBuildPlanFallsBackToRanked(t *testing.T) {
	// One survivor, no percentile cut, not top tier
	c := rankedCandidate("ONLY", 0.4, 50, "Technology")
	c.TopTier = false
	report := &contracts.RunReport{Ranked: []contracts.Candidate{c}}

	plan := newTrader().BuildPlan(context.Background(), "run-1", report, 10000)
	require.Len(t, plan.Plans, 1)
	assert.Equal(t, "ONLY", plan.Plans[0].Symbol)
}

func TestBuildPlanEmptyReport(t *testing.T) {
	report := &contracts.RunReport{EmptyBatch: true}

	plan := newTrader().BuildPlan(context.Background(), "run-1", report, 10000)
	assert.Empty(t, plan.Plans)
	assert.Equal(t, contracts.PlanPendingApproval, plan.Status)
	assert.InDelta(t, 10000.0, plan.CashRemaining(), 1e-9)
}

func TestBuildPlanCautionOnKillSwitch(t *testing.T) {
	c := rankedCandidate("RISKY", 0.9, 100, "Energy")
	c.FCFGrowth = -0.3
	report := &contracts.RunReport{
		Threshold: contracts.Float64(0.8),
		Ranked:    []contracts.Candidate{c},
	}

	plan := newTrader().BuildPlan(context.Background(), "run-1", report, 10000)
	require.Len(t, plan.Plans, 1)
	assert.Equal(t, contracts.RiskCaution, plan.Plans[0].RiskStatus)
	require.Len(t, plan.Plans[0].Warnings, 1)
}

func TestRenderFactoryLog(t *testing.T) {
	report := &contracts.RunReport{
		Threshold: contracts.Float64(0.8),
		Ranked:    []contracts.Candidate{rankedCandidate("NVDA", 0.9, 180, "Technology")},
	}
	plan := newTrader().BuildPlan(context.Background(), "run-1", report, 10000)

	rendered := RenderFactoryLog(plan)
	assert.Contains(t, rendered, "EXECUTION PLAN — PENDING_APPROVAL")
	assert.Contains(t, rendered, "NVDA")
	assert.Contains(t, rendered, "5 sh @ $180.00")
	assert.Contains(t, rendered, "trail stop $153.00")
	assert.Contains(t, rendered, "Reply: YES")
}

func TestRenderFactoryLogEmpty(t *testing.T) {
	plan := &contracts.ExecutionPlan{Status: contracts.PlanPendingApproval, Budget: 10000}
	assert.Contains(t, RenderFactoryLog(plan), "No positions proposed")
}
