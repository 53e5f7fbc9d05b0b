package integration

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/analysis/repository"
	pdomain "github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/domain"
	storage "github.com/GoSim-25-26J-441/dup-analysis-backend/internal/storage/postgres"
)

// setupTestPostgres prepares the analysis_runs table against a real database.
// Skipped unless TEST_DATABASE_URL is set.
func setupTestPostgres(t *testing.T) string {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres integration test")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS analysis_runs (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	duplicate_groups JSONB NOT NULL,
	languages JSONB NOT NULL,
	files_analyzed INT NOT NULL,
	patterns_found INT NOT NULL,
	duplicates_detected INT NOT NULL,
	processing_time_ms BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM analysis_runs;`)
	require.NoError(t, err)

	return dsn
}

func TestResultRepositoryRoundTrip(t *testing.T) {
	dsn := setupTestPostgres(t)
	ctx := context.Background()

	pool, err := storage.GetPool(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	repo := repository.NewResultRepository(pool)

	result := &pdomain.AnalysisResult{
		ID:      "run-integration-1",
		OwnerID: "owner-1",
		DuplicateGroups: []pdomain.DuplicateGroup{
			{
				ID:              "group-1",
				PatternType:     pdomain.PatternFunction,
				SimilarityScore: 1.0,
				Description:     "Exact duplicate calculateTotal found in 2 locations",
			},
		},
		FilesAnalyzed:      2,
		PatternsFound:      4,
		DuplicatesDetected: 1,
		Languages:          map[string]int{"javascript": 2},
		ProcessingTimeMs:   12,
		CreatedAt:          time.Now().UTC().Truncate(time.Millisecond),
	}

	t.Run("save and load", func(t *testing.T) {
		id, err := repo.SaveAnalysisRun(ctx, result)
		require.NoError(t, err)
		assert.Equal(t, result.ID, id)

		loaded, err := repo.GetAnalysisRun(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, result.OwnerID, loaded.OwnerID)
		assert.Equal(t, result.FilesAnalyzed, loaded.FilesAnalyzed)
		assert.Equal(t, result.Languages, loaded.Languages)
		require.Len(t, loaded.DuplicateGroups, 1)
		assert.Equal(t, result.DuplicateGroups[0].Description, loaded.DuplicateGroups[0].Description)
	})

	t.Run("missing run returns not found", func(t *testing.T) {
		_, err := repo.GetAnalysisRun(ctx, "no-such-run")
		assert.ErrorIs(t, err, pdomain.ErrResultNotFound)
	})
}
