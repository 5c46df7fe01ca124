package contracts

import "time"

// PlanStatus is the approval state of an execution plan.
type PlanStatus string

const (
	// PlanPendingApproval 휴먼 승인 대기 (기본 상태)
	PlanPendingApproval PlanStatus = "PENDING_APPROVAL"

	// PlanApproved 승인됨 (전체 또는 일부 포지션)
	PlanApproved PlanStatus = "APPROVED"

	// PlanRejected 거부됨
	PlanRejected PlanStatus = "REJECTED"
)

// RiskStatus flags whether a position carries active warnings.
type RiskStatus string

const (
	RiskClear   RiskStatus = "CLEAR"
	RiskCaution RiskStatus = "CAUTION"
)

// Position describes the sizing for one candidate.
type Position struct {
	SizePercent   float64 `json:"size_percent"`   // % of budget
	PositionValue float64 `json:"position_value"` // shares * price
	Shares        int64   `json:"shares"`
	Price         float64 `json:"price"`
}

// StopLevels holds protective exit prices for a position.
type StopLevels struct {
	EntryPrice      float64 `json:"entry_price"`
	TrailingStop    float64 `json:"trailing_stop"`
	TrailingStopPct float64 `json:"trailing_stop_pct"`
	HardStop        float64 `json:"hard_stop"`
	HardStopPct     float64 `json:"hard_stop_pct"`
}

// ProfitTarget is one take-profit level with its action.
type ProfitTarget struct {
	Price   float64 `json:"price"`
	GainPct float64 `json:"gain_pct"`
	Action  string  `json:"action"` // e.g. "Sell 25%"
}

// RiskWarning is a kill-switch or sanity-check hit for one position.
type RiskWarning struct {
	Type    string `json:"type"`   // "FCF_DECLINE", "PAYOUT_STRETCH", ...
	Status  string `json:"status"` // "TRIGGERED" or "WARNING"
	Message string `json:"message"`
}

// PositionPlan is the full Trader proposal for one candidate.
type PositionPlan struct {
	Symbol            string         `json:"symbol"`
	Sector            string         `json:"sector"`
	AccelerationScore float64        `json:"acceleration_score"`
	TopTier           bool           `json:"top_tier"`
	Position          Position       `json:"position"`
	Stops             StopLevels     `json:"stops"`
	Targets           []ProfitTarget `json:"targets"`
	Warnings          []RiskWarning  `json:"warnings,omitempty"`
	RiskStatus        RiskStatus     `json:"risk_status"`
}

// SectorCheck is the concentration audit across one plan set.
type SectorCheck struct {
	Allocation  map[string]float64 `json:"allocation"` // sector -> % of invested
	Warnings    []string           `json:"warnings,omitempty"`
	Diversified bool               `json:"diversified"`
}

// ExecutionPlan is the Trader output awaiting human approval.
// No order is ever placed from it; approval only records a decision.
// ⭐ SSOT: Trader → 휴먼 승인 계약
type ExecutionPlan struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Status      PlanStatus     `json:"status"`
	Budget      float64        `json:"budget"`
	Plans       []PositionPlan `json:"plans"`
	Sectors     SectorCheck    `json:"sector_concentration"`
}

// TotalInvested returns the sum of all position values.
func (p *ExecutionPlan) TotalInvested() float64 {
	total := 0.0
	for _, plan := range p.Plans {
		total += plan.Position.PositionValue
	}
	return total
}

// CashRemaining returns the unallocated budget.
func (p *ExecutionPlan) CashRemaining() float64 {
	return p.Budget - p.TotalInvested()
}

// Find returns the plan for a symbol.
func (p *ExecutionPlan) Find(symbol string) (*PositionPlan, bool) {
	for i := range p.Plans {
		if p.Plans[i].Symbol == symbol {
			return &p.Plans[i], true
		}
	}
	return nil, false
}

// ApprovalDecision records the human response to an execution plan.
type ApprovalDecision struct {
	DecidedAt time.Time  `json:"decided_at"`
	RawInput  string     `json:"raw_input"` // the literal reply, e.g. "YES NVDA"
	Status    PlanStatus `json:"status"`

	// ApprovedSymbols lists approved positions; empty plus Status=APPROVED
	// means the whole plan was approved.
	ApprovedSymbols []string `json:"approved_symbols,omitempty"`

	// SkippedSymbols lists positions removed via SKIP.
	SkippedSymbols []string `json:"skipped_symbols,omitempty"`

	// Resized maps symbol -> new size percent from RESIZE commands.
	Resized map[string]float64 `json:"resized,omitempty"`
}
