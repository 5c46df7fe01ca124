package trader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/capengine/internal/contracts"
)

// Repository persists execution plans and approval decisions
// ⭐ SSOT: 실행 계획/승인 이력 저장은 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new trader repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SavePlan stores the current plan for a run, overwriting on update
func (r *Repository) SavePlan(ctx context.Context, runID string, plan *contracts.ExecutionPlan) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}

	query := `
		INSERT INTO trader.plans (run_id, status, payload, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (run_id) DO UPDATE SET
			status = EXCLUDED.status,
			payload = EXCLUDED.payload,
			created_at = NOW()
	`
	_, err = r.pool.Exec(ctx, query, runID, string(plan.Status), payload)
	return err
}

// GetLatestPlan retrieves the most recent plan and its run ID
func (r *Repository) GetLatestPlan(ctx context.Context) (*contracts.ExecutionPlan, string, error) {
	query := `
		SELECT run_id, payload
		FROM trader.plans
		ORDER BY created_at DESC
		LIMIT 1
	`

	var runID string
	var payload []byte
	if err := r.pool.QueryRow(ctx, query).Scan(&runID, &payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", fmt.Errorf("no plans stored")
		}
		return nil, "", err
	}

	var plan contracts.ExecutionPlan
	if err := json.Unmarshal(payload, &plan); err != nil {
		return nil, "", fmt.Errorf("unmarshal plan: %w", err)
	}
	return &plan, runID, nil
}

// SaveDecision appends one approval decision to the audit trail.
// Decisions are never overwritten; re-approvals add rows.
func (r *Repository) SaveDecision(ctx context.Context, runID string, decision *contracts.ApprovalDecision) error {
	payload, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("marshal decision: %w", err)
	}

	query := `
		INSERT INTO trader.decisions (run_id, status, raw_input, payload, decided_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.pool.Exec(ctx, query, runID, string(decision.Status), decision.RawInput, payload, decision.DecidedAt)
	return err
}

// GetDecisions retrieves decisions within a time window, oldest first
func (r *Repository) GetDecisions(ctx context.Context, from, to time.Time) ([]contracts.ApprovalDecision, error) {
	query := `
		SELECT payload
		FROM trader.decisions
		WHERE decided_at BETWEEN $1 AND $2
		ORDER BY decided_at ASC
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decisions []contracts.ApprovalDecision
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var d contracts.ApprovalDecision
		if err := json.Unmarshal(payload, &d); err != nil {
			return nil, fmt.Errorf("unmarshal decision: %w", err)
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}
