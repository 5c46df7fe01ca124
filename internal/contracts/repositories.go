package contracts

import (
	"context"
	"time"
)

// Repository interfaces (SSOT)
// 구현은 각 스테이지 패키지의 repository.go에 위치

// FinancialRepository persists raw Librarian snapshots.
type FinancialRepository interface {
	SaveSet(ctx context.Context, runID string, set *FinancialSet) error
	GetSet(ctx context.Context, runID string) (*FinancialSet, error)
	GetLatestSet(ctx context.Context) (*FinancialSet, string, error)
}

// NewsRepository persists collected headlines.
type NewsRepository interface {
	SaveSet(ctx context.Context, runID string, set *NewsSet) error
	GetSet(ctx context.Context, runID string) (*NewsSet, error)
}

// ReportRepository persists Architect run reports.
type ReportRepository interface {
	SaveReport(ctx context.Context, runID string, report *RunReport) error
	GetReport(ctx context.Context, runID string) (*RunReport, error)
	GetLatestReport(ctx context.Context) (*RunReport, string, error)
}

// PlanRepository persists Trader execution plans and approval decisions.
type PlanRepository interface {
	SavePlan(ctx context.Context, runID string, plan *ExecutionPlan) error
	GetLatestPlan(ctx context.Context) (*ExecutionPlan, string, error)
	SaveDecision(ctx context.Context, runID string, decision *ApprovalDecision) error
	GetDecisions(ctx context.Context, from, to time.Time) ([]ApprovalDecision, error)
}
