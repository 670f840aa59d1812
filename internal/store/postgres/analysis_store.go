package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkarpenko/steamarb/internal/domain"
)

// AnalysisStore implements domain.AnalysisStore using PostgreSQL. Each run is
// one row; the per-item opportunities are kept as a JSONB document since they
// are only ever read back whole.
type AnalysisStore struct {
	pool *pgxpool.Pool
}

// NewAnalysisStore creates a new AnalysisStore backed by the given pool.
func NewAnalysisStore(pool *pgxpool.Pool) *AnalysisStore {
	return &AnalysisStore{pool: pool}
}

// Insert stores a completed analysis run.
func (s *AnalysisStore) Insert(ctx context.Context, result domain.AnalysisResult) error {
	const query = `
		INSERT INTO analysis_runs (
			id, steam_id, app_id, currency,
			total_profit, items_analyzed, profitable_items,
			opportunities, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9
		)`

	opps, err := json.Marshal(result.Opportunities)
	if err != nil {
		return fmt.Errorf("postgres: marshal opportunities for run %s: %w", result.ID, err)
	}

	_, err = s.pool.Exec(ctx, query,
		result.ID, result.SteamID, result.AppID, result.Currency,
		result.TotalProfit, result.ItemsAnalyzed, result.ProfitableItems,
		opps, result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert analysis run %s: %w", result.ID, err)
	}
	return nil
}

// ListRecent returns the most recent analysis runs, newest first.
func (s *AnalysisStore) ListRecent(ctx context.Context, limit int) ([]domain.AnalysisResult, error) {
	query := `
		SELECT id, steam_id, app_id, currency,
			total_profit, items_analyzed, profitable_items,
			opportunities, created_at
		FROM analysis_runs ORDER BY created_at DESC`
	args := []any{}

	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list recent runs: %w", err)
	}
	defer rows.Close()

	var results []domain.AnalysisResult
	for rows.Next() {
		var r domain.AnalysisResult
		var opps []byte

		if err := rows.Scan(
			&r.ID, &r.SteamID, &r.AppID, &r.Currency,
			&r.TotalProfit, &r.ItemsAnalyzed, &r.ProfitableItems,
			&opps, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan analysis run: %w", err)
		}
		if len(opps) > 0 {
			if err := json.Unmarshal(opps, &r.Opportunities); err != nil {
				return nil, fmt.Errorf("postgres: decode opportunities for run %s: %w", r.ID, err)
			}
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list recent runs rows: %w", err)
	}
	return results, nil
}

// Compile-time interface check.
var _ domain.AnalysisStore = (*AnalysisStore)(nil)
