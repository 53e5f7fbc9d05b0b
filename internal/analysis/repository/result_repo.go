package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pdomain "github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/domain"
)

// ResultRepository persists completed analysis runs as JSONB rows.
type ResultRepository struct {
	pool *pgxpool.Pool
}

func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// SaveAnalysisRun stores one analysis result and returns the row id.
func (r *ResultRepository) SaveAnalysisRun(ctx context.Context, result *pdomain.AnalysisResult) (string, error) {
	if r.pool == nil {
		return "", fmt.Errorf("pgx pool is nil")
	}

	groupsB, err := json.Marshal(result.DuplicateGroups)
	if err != nil {
		return "", fmt.Errorf("marshal duplicate groups: %w", err)
	}
	languagesB, err := json.Marshal(result.Languages)
	if err != nil {
		return "", fmt.Errorf("marshal languages: %w", err)
	}

	var runID string
	sql := `
INSERT INTO analysis_runs (id, owner_id, duplicate_groups, languages, files_analyzed, patterns_found, duplicates_detected, processing_time_ms, created_at)
VALUES ($1, $2, $3::jsonb, $4::jsonb, $5, $6, $7, $8, $9)
RETURNING id;
`
	err = r.pool.QueryRow(ctx, sql,
		result.ID,
		result.OwnerID,
		groupsB,
		languagesB,
		result.FilesAnalyzed,
		result.PatternsFound,
		result.DuplicatesDetected,
		result.ProcessingTimeMs,
		result.CreatedAt,
	).Scan(&runID)
	if err != nil {
		return "", fmt.Errorf("insert analysis run: %w", err)
	}
	return runID, nil
}

// GetAnalysisRun loads a stored result by id.
func (r *ResultRepository) GetAnalysisRun(ctx context.Context, id string) (*pdomain.AnalysisResult, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("pgx pool is nil")
	}

	var (
		result     pdomain.AnalysisResult
		groupsB    []byte
		languagesB []byte
	)

	sql := `
SELECT id, owner_id, duplicate_groups, languages, files_analyzed, patterns_found, duplicates_detected, processing_time_ms, created_at
FROM analysis_runs
WHERE id = $1;
`
	err := r.pool.QueryRow(ctx, sql, id).Scan(
		&result.ID,
		&result.OwnerID,
		&groupsB,
		&languagesB,
		&result.FilesAnalyzed,
		&result.PatternsFound,
		&result.DuplicatesDetected,
		&result.ProcessingTimeMs,
		&result.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, pdomain.ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select analysis run: %w", err)
	}

	if err := json.Unmarshal(groupsB, &result.DuplicateGroups); err != nil {
		return nil, fmt.Errorf("unmarshal duplicate groups: %w", err)
	}
	if err := json.Unmarshal(languagesB, &result.Languages); err != nil {
		return nil, fmt.Errorf("unmarshal languages: %w", err)
	}
	return &result, nil
}
