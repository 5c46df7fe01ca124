package trader

import (
	"context"
	"time"

	"github.com/wonny/capengine/internal/contracts"
	"github.com/wonny/capengine/pkg/logger"
)

// Trader turns a ranked run report into a sized execution plan.
// The plan is a proposal only: nothing is executed until a human
// records an approval decision.
// ⭐ SSOT: 포지션 사이징/리스크 정책은 이 패키지에서만
type Trader struct {
	planRepo contracts.PlanRepository
	logger   *logger.Logger
}

// New creates a new Trader. The repository may be nil; plans are then
// kept in memory only.
func New(planRepo contracts.PlanRepository, log *logger.Logger) *Trader {
	return &Trader{
		planRepo: planRepo,
		logger:   log.WithStage("trader"),
	}
}

// BuildPlan sizes the top tier of a run report against the budget.
// When the report has no percentile cut (too few survivors), every
// ranked name is sized instead. An empty report yields an empty plan
// in PENDING_APPROVAL, never an error.
func (t *Trader) BuildPlan(ctx context.Context, runID string, report *contracts.RunReport, budget float64) *contracts.ExecutionPlan {
	plan := &contracts.ExecutionPlan{
		GeneratedAt: time.Now().UTC(),
		Status:      contracts.PlanPendingApproval,
		Budget:      budget,
	}

	candidates := report.TopTier()
	if len(candidates) == 0 {
		candidates = report.Ranked
	}

	for _, c := range candidates {
		plan.Plans = append(plan.Plans, t.buildPosition(&c, budget))
	}
	plan.Sectors = checkSectorConcentration(plan.Plans)

	t.logger.WithFields(map[string]interface{}{
		"run_id":    runID,
		"positions": len(plan.Plans),
		"invested":  plan.TotalInvested(),
		"budget":    budget,
	}).Info("Execution plan built, awaiting approval")

	t.persist(ctx, runID, plan)
	return plan
}

// buildPosition sizes one candidate and attaches its risk envelope
func (t *Trader) buildPosition(c *contracts.Candidate, budget float64) contracts.PositionPlan {
	position := sizePosition(c.AccelerationScore, budget, c.Raw.Price)

	p := contracts.PositionPlan{
		Symbol:            c.Symbol,
		Sector:            c.Raw.Sector,
		AccelerationScore: c.AccelerationScore,
		TopTier:           c.TopTier,
		Position:          position,
		Warnings:          killSwitches(c),
		RiskStatus:        contracts.RiskClear,
	}

	if position.Price > 0 {
		growth := 0.0
		if c.Raw.RevenueGrowth != nil {
			growth = *c.Raw.RevenueGrowth
		}
		p.Stops = stopLevels(position.Price, growth)
		p.Targets = profitTargets(position.Price)
	}

	if len(p.Warnings) > 0 {
		p.RiskStatus = contracts.RiskCaution
	}
	return p
}

// RecordDecision applies a parsed approval to the stored plan
func (t *Trader) RecordDecision(ctx context.Context, runID string, plan *contracts.ExecutionPlan, decision *contracts.ApprovalDecision) *contracts.ExecutionPlan {
	applied := ApplyDecision(plan, decision)

	t.logger.WithFields(map[string]interface{}{
		"run_id":    runID,
		"status":    string(decision.Status),
		"approved":  len(decision.ApprovedSymbols),
		"skipped":   len(decision.SkippedSymbols),
		"raw_input": decision.RawInput,
	}).Info("Approval decision recorded")

	if t.planRepo != nil {
		if err := t.planRepo.SaveDecision(ctx, runID, decision); err != nil {
			t.logger.WithError(err).Error("Failed to persist decision")
		}
		if err := t.planRepo.SavePlan(ctx, runID, applied); err != nil {
			t.logger.WithError(err).Error("Failed to persist decided plan")
		}
	}
	return applied
}

// persist saves the plan when a repository is wired
func (t *Trader) persist(ctx context.Context, runID string, plan *contracts.ExecutionPlan) {
	if t.planRepo == nil {
		return
	}
	if err := t.planRepo.SavePlan(ctx, runID, plan); err != nil {
		t.logger.WithError(err).WithField("run_id", runID).Error("Failed to persist plan")
	}
}
