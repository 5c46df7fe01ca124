package librarian

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/capengine/internal/contracts"
)

// Repository persists Librarian snapshots as jsonb documents
// ⭐ SSOT: 수집 스냅샷 저장은 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new librarian repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveSet stores one run's financial snapshot, overwriting on re-run
func (r *Repository) SaveSet(ctx context.Context, runID string, set *contracts.FinancialSet) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal financial set: %w", err)
	}

	query := `
		INSERT INTO librarian.financial_sets (run_id, payload, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (run_id) DO UPDATE SET
			payload = EXCLUDED.payload,
			created_at = NOW()
	`
	_, err = r.pool.Exec(ctx, query, runID, payload)
	return err
}

// GetSet retrieves the financial snapshot for one run
func (r *Repository) GetSet(ctx context.Context, runID string) (*contracts.FinancialSet, error) {
	query := `SELECT payload FROM librarian.financial_sets WHERE run_id = $1`

	var payload []byte
	if err := r.pool.QueryRow(ctx, query, runID).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no snapshot for run %s", runID)
		}
		return nil, err
	}

	var set contracts.FinancialSet
	if err := json.Unmarshal(payload, &set); err != nil {
		return nil, fmt.Errorf("unmarshal financial set: %w", err)
	}
	return &set, nil
}

// GetLatestSet retrieves the most recent snapshot and its run ID
func (r *Repository) GetLatestSet(ctx context.Context) (*contracts.FinancialSet, string, error) {
	query := `
		SELECT run_id, payload
		FROM librarian.financial_sets
		ORDER BY created_at DESC
		LIMIT 1
	`

	var runID string
	var payload []byte
	if err := r.pool.QueryRow(ctx, query).Scan(&runID, &payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", fmt.Errorf("no snapshots stored")
		}
		return nil, "", err
	}

	var set contracts.FinancialSet
	if err := json.Unmarshal(payload, &set); err != nil {
		return nil, "", fmt.Errorf("unmarshal financial set: %w", err)
	}
	return &set, runID, nil
}

// NewsRepository persists collected headlines per run
type NewsRepository struct {
	pool *pgxpool.Pool
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(pool *pgxpool.Pool) *NewsRepository {
	return &NewsRepository{pool: pool}
}

// SaveSet stores one run's headlines
func (r *NewsRepository) SaveSet(ctx context.Context, runID string, set *contracts.NewsSet) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal news set: %w", err)
	}

	query := `
		INSERT INTO librarian.news_sets (run_id, payload, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (run_id) DO UPDATE SET
			payload = EXCLUDED.payload,
			created_at = NOW()
	`
	_, err = r.pool.Exec(ctx, query, runID, payload)
	return err
}

// GetSet retrieves headlines for one run
func (r *NewsRepository) GetSet(ctx context.Context, runID string) (*contracts.NewsSet, error) {
	query := `SELECT payload FROM librarian.news_sets WHERE run_id = $1`

	var payload []byte
	if err := r.pool.QueryRow(ctx, query, runID).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no headlines for run %s", runID)
		}
		return nil, err
	}

	var set contracts.NewsSet
	if err := json.Unmarshal(payload, &set); err != nil {
		return nil, fmt.Errorf("unmarshal news set: %w", err)
	}
	return &set, nil
}
