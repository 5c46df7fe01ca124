package architect

import (
	"context"
	"sort"
	"time"

	"github.com/wonny/capengine/internal/contracts"
	"github.com/wonny/capengine/pkg/logger"
)

// Architect turns a Librarian snapshot into a ranked run report.
// Evaluation is pure: the same snapshot always yields the same report
// up to the generation timestamp.
// ⭐ SSOT: 스코어링/필터링/랭킹 로직은 이 패키지에서만
type Architect struct {
	reportRepo contracts.ReportRepository
	logger     *logger.Logger
}

// New creates a new Architect. The repository may be nil; reports are
// then kept in memory only.
func New(reportRepo contracts.ReportRepository, log *logger.Logger) *Architect {
	return &Architect{
		reportRepo: reportRepo,
		logger:     log.WithStage("architect"),
	}
}

// Evaluate runs the full pipeline over one snapshot: completeness
// check, metric derivation, value-trap filter, ranking, top-tier cut.
// A candidate that fails any step is culled with a reason and the rest
// of the batch continues. Never returns an error for bad input data;
// an empty snapshot yields an EmptyBatch report.
func (a *Architect) Evaluate(ctx context.Context, runID string, set *contracts.FinancialSet) *contracts.RunReport {
	report := &contracts.RunReport{
		GeneratedAt: time.Now().UTC(),
	}

	if set == nil || set.Count() == 0 {
		report.EmptyBatch = true
		a.logger.WithField("run_id", runID).Warn("Empty snapshot, nothing to evaluate")
		a.persist(ctx, runID, report)
		return report
	}

	// Deterministic iteration order
	symbols := make([]string, 0, set.Count())
	for symbol := range set.Records {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	var survivors, culled []contracts.Candidate
	for _, symbol := range symbols {
		candidate := evaluateOne(symbol, set.Records[symbol])
		if candidate.Culled() {
			culled = append(culled, candidate)
			continue
		}
		survivors = append(survivors, candidate)
	}

	report.Ranked = rankSurvivors(survivors)
	report.Culled = culled

	scores := make([]float64, len(report.Ranked))
	for i, c := range report.Ranked {
		scores[i] = c.AccelerationScore
	}
	report.Threshold = percentileThreshold(scores)
	markTopTier(report.Ranked, report.Threshold)

	a.logger.WithFields(map[string]interface{}{
		"run_id":   runID,
		"total":    set.Count(),
		"ranked":   len(report.Ranked),
		"culled":   len(report.Culled),
		"top_tier": len(report.TopTier()),
	}).Info("Evaluation completed")

	a.persist(ctx, runID, report)
	return report
}

// evaluateOne walks a single record through every check. The candidate
// keeps whatever metrics were derived before a cull so reporting can
// show them alongside the reason.
func evaluateOne(symbol string, fin *contracts.Financials) contracts.Candidate {
	candidate := contracts.Candidate{
		Symbol: symbol,
		Raw:    *fin,
		Status: contracts.StatusPending,
	}

	if !fin.Complete() {
		candidate.Status = contracts.StatusCulled
		candidate.Reason = contracts.ReasonIncompleteData
		return candidate
	}

	candidate.ShadowFCF = shadowFCF(*fin.CashFlowFromOps, *fin.RDExpense, *fin.Capex)

	growth, ok := fcfGrowth(*fin.FCFCurrentPeriod, *fin.FCFPriorPeriod)
	if !ok {
		candidate.Status = contracts.StatusCulled
		candidate.Reason = contracts.ReasonDivisionError
		return candidate
	}
	candidate.FCFGrowth = growth

	accel, ok := accelerationScore(growth, *fin.PayoutRatio)
	if !ok {
		candidate.Status = contracts.StatusCulled
		candidate.Reason = contracts.ReasonDivisionError
		return candidate
	}
	candidate.AccelerationScore = accel

	if isValueTrap(*fin.DividendYield, growth) {
		candidate.Status = contracts.StatusCulled
		candidate.Reason = contracts.ReasonValueTrap
		return candidate
	}

	candidate.Status = contracts.StatusRanked
	return candidate
}

// persist saves the report when a repository is wired
func (a *Architect) persist(ctx context.Context, runID string, report *contracts.RunReport) {
	if a.reportRepo == nil {
		return
	}
	if err := a.reportRepo.SaveReport(ctx, runID, report); err != nil {
		a.logger.WithError(err).WithField("run_id", runID).Error("Failed to persist report")
	}
}
