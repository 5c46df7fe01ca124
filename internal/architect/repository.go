package architect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/capengine/internal/contracts"
)

// Repository persists run reports as jsonb documents
// ⭐ SSOT: 런 리포트 저장은 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new report repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveReport stores one run's report, overwriting on re-run
func (r *Repository) SaveReport(ctx context.Context, runID string, report *contracts.RunReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	query := `
		INSERT INTO architect.reports (run_id, payload, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (run_id) DO UPDATE SET
			payload = EXCLUDED.payload,
			created_at = NOW()
	`
	_, err = r.pool.Exec(ctx, query, runID, payload)
	return err
}

// GetReport retrieves the report for one run
func (r *Repository) GetReport(ctx context.Context, runID string) (*contracts.RunReport, error) {
	query := `SELECT payload FROM architect.reports WHERE run_id = $1`

	var payload []byte
	if err := r.pool.QueryRow(ctx, query, runID).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no report for run %s", runID)
		}
		return nil, err
	}

	var report contracts.RunReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &report, nil
}

// GetLatestReport retrieves the most recent report and its run ID
func (r *Repository) GetLatestReport(ctx context.Context) (*contracts.RunReport, string, error) {
	query := `
		SELECT run_id, payload
		FROM architect.reports
		ORDER BY created_at DESC
		LIMIT 1
	`

	var runID string
	var payload []byte
	if err := r.pool.QueryRow(ctx, query).Scan(&runID, &payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", fmt.Errorf("no reports stored")
		}
		return nil, "", err
	}

	var report contracts.RunReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, "", fmt.Errorf("unmarshal report: %w", err)
	}
	return &report, runID, nil
}
