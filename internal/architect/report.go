package architect

import (
	"fmt"
	"strings"

	"github.com/wonny/capengine/internal/contracts"
)

// Summary renders a run report as markdown, suitable for logs and
// Discord. Lists the top tier, the first name below the cut, and the
// cull tally.
func Summary(report *contracts.RunReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Research Report — %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04 MST"))

	if report.EmptyBatch {
		b.WriteString("Input collection was empty. Nothing evaluated.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Evaluated %d candidates: %d ranked, %d culled.\n\n",
		report.TotalCount(), len(report.Ranked), len(report.Culled))

	topTier := report.TopTier()
	if len(topTier) > 0 {
		fmt.Fprintf(&b, "### Top Tier (≥ %.4f)\n", *report.Threshold)
		for _, c := range topTier {
			fmt.Fprintf(&b, "%d. **%s** — accel %.4f (fcf growth %+.1f%%, shadow fcf %.1f)\n",
				c.Rank, c.Symbol, c.AccelerationScore, c.FCFGrowth*100, c.ShadowFCF)
		}
		b.WriteByte('\n')

		if next := firstBelowCut(report.Ranked); next != nil {
			fmt.Fprintf(&b, "Next in line: %s at %.4f.\n\n", next.Symbol, next.AccelerationScore)
		}
	} else if len(report.Ranked) > 0 {
		// Too few survivors for a percentile cut
		b.WriteString("### Ranked\n")
		for _, c := range report.Ranked {
			fmt.Fprintf(&b, "%d. **%s** — accel %.4f\n", c.Rank, c.Symbol, c.AccelerationScore)
		}
		b.WriteByte('\n')
	}

	if len(report.Culled) > 0 {
		b.WriteString("### Culled\n")
		counts := report.CullCounts()
		for _, reason := range []contracts.CullReason{
			contracts.ReasonIncompleteData,
			contracts.ReasonValueTrap,
			contracts.ReasonDivisionError,
		} {
			if counts[reason] == 0 {
				continue
			}
			fmt.Fprintf(&b, "- %s: %d (%s)\n", reason, counts[reason],
				strings.Join(culledSymbols(report.Culled, reason), ", "))
		}
	}

	return b.String()
}

// firstBelowCut returns the highest-ranked survivor outside the top tier
func firstBelowCut(ranked []contracts.Candidate) *contracts.Candidate {
	for i := range ranked {
		if !ranked[i].TopTier {
			return &ranked[i]
		}
	}
	return nil
}

// culledSymbols lists the symbols culled for one reason, input order
func culledSymbols(culled []contracts.Candidate, reason contracts.CullReason) []string {
	var symbols []string
	for _, c := range culled {
		if c.Reason == reason {
			symbols = append(symbols, c.Symbol)
		}
	}
	return symbols
}
