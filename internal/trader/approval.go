package trader

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/capengine/internal/contracts"
)

// ParseDecision interprets the human reply to an execution plan.
//
// Commands, separated by ";" or newlines:
//
//	YES                 approve the whole plan
//	YES NVDA PLTR       approve only the listed positions
//	NO                  reject the plan
//	SKIP NVDA           approve the plan minus the listed position
//	RESIZE NVDA 5       approve with the position resized to 5% of budget
//
// SKIP and RESIZE imply approval of the remainder. Symbols must exist
// in the plan. An empty or unrecognizable reply is an error so the
// plan stays pending.
func ParseDecision(raw string, plan *contracts.ExecutionPlan) (*contracts.ApprovalDecision, error) {
	decision := &contracts.ApprovalDecision{
		DecidedAt: time.Now().UTC(),
		RawInput:  raw,
		Status:    contracts.PlanPendingApproval,
	}

	commands := splitCommands(raw)
	if len(commands) == 0 {
		return nil, fmt.Errorf("empty reply")
	}

	for _, command := range commands {
		tokens := strings.Fields(strings.ToUpper(command))
		verb, args := tokens[0], tokens[1:]

		switch verb {
		case "YES":
			decision.Status = contracts.PlanApproved
			for _, symbol := range args {
				if err := requireInPlan(plan, symbol); err != nil {
					return nil, err
				}
				decision.ApprovedSymbols = append(decision.ApprovedSymbols, symbol)
			}

		case "NO":
			if len(args) > 0 {
				return nil, fmt.Errorf("NO takes no arguments")
			}
			decision.Status = contracts.PlanRejected
			return decision, nil

		case "SKIP":
			if len(args) == 0 {
				return nil, fmt.Errorf("SKIP requires at least one symbol")
			}
			decision.Status = contracts.PlanApproved
			for _, symbol := range args {
				if err := requireInPlan(plan, symbol); err != nil {
					return nil, err
				}
				decision.SkippedSymbols = append(decision.SkippedSymbols, symbol)
			}

		case "RESIZE":
			if len(args) != 2 {
				return nil, fmt.Errorf("RESIZE requires a symbol and a size percent")
			}
			symbol := args[0]
			if err := requireInPlan(plan, symbol); err != nil {
				return nil, err
			}
			pct, err := strconv.ParseFloat(args[1], 64)
			if err != nil || pct <= 0 || pct > 100 {
				return nil, fmt.Errorf("invalid size percent %q", args[1])
			}
			if decision.Resized == nil {
				decision.Resized = make(map[string]float64)
			}
			decision.Resized[symbol] = pct
			decision.Status = contracts.PlanApproved

		default:
			return nil, fmt.Errorf("unknown command %q", verb)
		}
	}

	return decision, nil
}

// ApplyDecision produces the decided plan: positions filtered per the
// approval, resizes applied, sector check recomputed. The input plan
// is not mutated.
func ApplyDecision(plan *contracts.ExecutionPlan, decision *contracts.ApprovalDecision) *contracts.ExecutionPlan {
	applied := &contracts.ExecutionPlan{
		GeneratedAt: plan.GeneratedAt,
		Status:      decision.Status,
		Budget:      plan.Budget,
	}

	if decision.Status == contracts.PlanRejected {
		applied.Sectors = contracts.SectorCheck{Allocation: map[string]float64{}, Diversified: true}
		return applied
	}

	approved := toSet(decision.ApprovedSymbols)
	skipped := toSet(decision.SkippedSymbols)

	for _, p := range plan.Plans {
		if len(approved) > 0 && !approved[p.Symbol] {
			continue
		}
		if skipped[p.Symbol] {
			continue
		}
		if pct, ok := decision.Resized[p.Symbol]; ok {
			p = resizePosition(p, plan.Budget, pct)
		}
		applied.Plans = append(applied.Plans, p)
	}

	applied.Sectors = checkSectorConcentration(applied.Plans)
	return applied
}

// resizePosition recomputes sizing at an explicit budget percent,
// keeping the original price and risk envelope.
func resizePosition(p contracts.PositionPlan, budget, pct float64) contracts.PositionPlan {
	allocation := budget * pct / 100

	p.Position.SizePercent = pct
	if p.Position.Price > 0 {
		p.Position.Shares = int64(math.Floor(allocation / p.Position.Price))
		p.Position.PositionValue = float64(p.Position.Shares) * p.Position.Price
	} else {
		p.Position.PositionValue = allocation
	}
	return p
}

// splitCommands breaks the raw reply into non-empty command strings
func splitCommands(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == '\n'
	})

	var commands []string
	for _, f := range fields {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			commands = append(commands, trimmed)
		}
	}
	return commands
}

func requireInPlan(plan *contracts.ExecutionPlan, symbol string) error {
	if _, ok := plan.Find(symbol); !ok {
		return fmt.Errorf("symbol %s is not in the plan", symbol)
	}
	return nil
}

func toSet(symbols []string) map[string]bool {
	set := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		set[s] = true
	}
	return set
}
