package trader

import (
	"fmt"
	"math"

	"github.com/wonny/capengine/internal/contracts"
)

// Protective exit parameters
const (
	trailingStopPct = 15.0 // below the high-water mark
	hardStopCapPct  = 25.0 // widest hard stop regardless of volatility
)

// Kill-switch thresholds
const (
	fcfDeclineLimit    = -0.20 // fcf_growth below this is a broken thesis
	payoutStretchLimit = 1.5   // paying out more than earned
)

// sectorConcentrationLimit caps one sector's share of invested capital
const sectorConcentrationLimit = 30.0 // percent

// profitTargets builds the staged take-profit ladder from an entry price
func profitTargets(entry float64) []contracts.ProfitTarget {
	if entry <= 0 {
		return nil
	}
	return []contracts.ProfitTarget{
		{Price: entry * 1.10, GainPct: 10, Action: "Sell 25%"},
		{Price: entry * 1.20, GainPct: 20, Action: "Sell 25%"},
		{Price: entry * 1.30, GainPct: 30, Action: "Sell 50%"},
	}
}

// stopLevels computes protective exits from an entry price. The hard
// stop widens with the candidate's volatility, proxied by the absolute
// revenue growth, but never sits tighter than the trailing stop.
func stopLevels(entry, revenueGrowthPct float64) contracts.StopLevels {
	hardPct := math.Abs(revenueGrowthPct)
	if hardPct > hardStopCapPct {
		hardPct = hardStopCapPct
	}
	if hardPct < trailingStopPct {
		hardPct = trailingStopPct
	}
	return contracts.StopLevels{
		EntryPrice:      entry,
		TrailingStop:    entry * (1 - trailingStopPct/100),
		TrailingStopPct: trailingStopPct,
		HardStop:        entry * (1 - hardPct/100),
		HardStopPct:     hardPct,
	}
}

// killSwitches audits a ranked candidate for broken-thesis conditions.
// These are warnings for the human reviewer, not automatic removals.
func killSwitches(c *contracts.Candidate) []contracts.RiskWarning {
	var warnings []contracts.RiskWarning

	if c.FCFGrowth < fcfDeclineLimit {
		warnings = append(warnings, contracts.RiskWarning{
			Type:    "FCF_DECLINE",
			Status:  "TRIGGERED",
			Message: fmt.Sprintf("FCF growth %.1f%% is below the %.0f%% kill switch", c.FCFGrowth*100, fcfDeclineLimit*100),
		})
	}

	if c.Raw.PayoutRatio != nil && *c.Raw.PayoutRatio > payoutStretchLimit {
		warnings = append(warnings, contracts.RiskWarning{
			Type:    "PAYOUT_STRETCH",
			Status:  "TRIGGERED",
			Message: fmt.Sprintf("Payout ratio %.2f exceeds %.1f: dividend likely unsustainable", *c.Raw.PayoutRatio, payoutStretchLimit),
		})
	}

	return warnings
}

// checkSectorConcentration audits allocation across one plan set.
// Positions without a sector are grouped under "Unknown".
func checkSectorConcentration(plans []contracts.PositionPlan) contracts.SectorCheck {
	check := contracts.SectorCheck{
		Allocation:  make(map[string]float64),
		Diversified: true,
	}

	total := 0.0
	for _, p := range plans {
		total += p.Position.PositionValue
	}
	if total == 0 {
		return check
	}

	bySector := make(map[string]float64)
	for _, p := range plans {
		sector := p.Sector
		if sector == "" {
			sector = "Unknown"
		}
		bySector[sector] += p.Position.PositionValue
	}

	for sector, value := range bySector {
		pct := value / total * 100
		check.Allocation[sector] = pct
		if pct > sectorConcentrationLimit {
			check.Diversified = false
			check.Warnings = append(check.Warnings,
				fmt.Sprintf("%s holds %.1f%% of invested capital (limit %.0f%%)", sector, pct, sectorConcentrationLimit))
		}
	}

	return check
}
