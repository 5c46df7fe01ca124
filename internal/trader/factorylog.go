package trader

import (
	"fmt"
	"strings"

	"github.com/wonny/capengine/internal/contracts"
)

const logWidth = 64

// RenderFactoryLog formats an execution plan as the boxed text block
// shown to the human approver in the terminal and Discord.
func RenderFactoryLog(plan *contracts.ExecutionPlan) string {
	var b strings.Builder

	writeRule(&b, '═')
	writeLine(&b, centered("EXECUTION PLAN — "+string(plan.Status)))
	writeLine(&b, centered(plan.GeneratedAt.Format("2006-01-02 15:04 MST")))
	writeRule(&b, '═')

	if len(plan.Plans) == 0 {
		writeLine(&b, " No positions proposed.")
		writeRule(&b, '═')
		return b.String()
	}

	for i, p := range plan.Plans {
		if i > 0 {
			writeRule(&b, '─')
		}
		writePosition(&b, &p)
	}

	writeRule(&b, '─')
	writeLine(&b, fmt.Sprintf(" Budget    $%.2f", plan.Budget))
	writeLine(&b, fmt.Sprintf(" Invested  $%.2f", plan.TotalInvested()))
	writeLine(&b, fmt.Sprintf(" Cash      $%.2f", plan.CashRemaining()))

	for sector, pct := range plan.Sectors.Allocation {
		writeLine(&b, fmt.Sprintf(" Sector    %s %.1f%%", sector, pct))
	}
	for _, warning := range plan.Sectors.Warnings {
		writeLine(&b, " ⚠ "+warning)
	}

	if plan.Status == contracts.PlanPendingApproval {
		writeRule(&b, '─')
		writeLine(&b, " Reply: YES | YES <SYM...> | NO | SKIP <SYM> | RESIZE <SYM> <PCT>")
	}
	writeRule(&b, '═')

	return b.String()
}

func writePosition(b *strings.Builder, p *contracts.PositionPlan) {
	marker := ""
	if p.TopTier {
		marker = " ★"
	}
	writeLine(b, fmt.Sprintf(" %s%s  accel %.4f  [%s]", p.Symbol, marker, p.AccelerationScore, p.RiskStatus))

	if p.Position.Shares > 0 {
		writeLine(b, fmt.Sprintf("   %d sh @ $%.2f = $%.2f (%.0f%% of budget)",
			p.Position.Shares, p.Position.Price, p.Position.PositionValue, p.Position.SizePercent))
		writeLine(b, fmt.Sprintf("   trail stop $%.2f (-%.0f%%)  hard stop $%.2f (-%.0f%%)",
			p.Stops.TrailingStop, p.Stops.TrailingStopPct, p.Stops.HardStop, p.Stops.HardStopPct))
		for _, target := range p.Targets {
			writeLine(b, fmt.Sprintf("   target $%.2f (+%.0f%%) → %s", target.Price, target.GainPct, target.Action))
		}
	} else {
		writeLine(b, fmt.Sprintf("   $%.2f allocation (%.0f%% of budget), no price available",
			p.Position.PositionValue, p.Position.SizePercent))
	}

	for _, warning := range p.Warnings {
		writeLine(b, fmt.Sprintf("   ⚠ %s: %s", warning.Type, warning.Message))
	}
}

func writeLine(b *strings.Builder, text string) {
	b.WriteString(text)
	b.WriteByte('\n')
}

func writeRule(b *strings.Builder, r rune) {
	b.WriteString(strings.Repeat(string(r), logWidth))
	b.WriteByte('\n')
}

func centered(text string) string {
	if len(text) >= logWidth {
		return text
	}
	pad := (logWidth - len(text)) / 2
	return strings.Repeat(" ", pad) + text
}
