package integration

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/dup-analysis-backend/config"
	adomain "github.com/GoSim-25-26J-441/dup-analysis-backend/internal/analysis/domain"
	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/analysis/service"
	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/cache"
	pdomain "github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/domain"
	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/extractor"
	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/grouping"
	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/similarity"
)

// setupTestRedis creates a miniredis-backed client
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func newAnalyzerWithSharedCache(t *testing.T, client *redis.Client) *service.Analyzer {
	a := service.New(service.Deps{
		Config: config.AnalysisConfig{
			SimilarityThreshold: 0.7,
			BatchSize:           50,
			BatchConcurrency:    3,
			MaxFileSizeBytes:    500 * 1024,
		},
		Extractor:          extractor.NewLexical(),
		Grouper:            grouping.New(similarity.NewScorer(), 0.7),
		ResultCache:        cache.NewMemory[*pdomain.AnalysisResult](10, time.Minute),
		PatternCache:       cache.NewMemory[[]pdomain.Pattern](100, time.Minute),
		SharedPatternCache: cache.NewRedisPatternCache(client, time.Hour),
	})
	t.Cleanup(a.Close)
	return a
}

func sampleProjects() []adomain.ProjectInput {
	content := "function calculateTotal(items) {\n  return items.reduce((sum, item) => sum + item.price, 0);\n}\n"
	return []adomain.ProjectInput{
		{
			ProjectID:   "project-a",
			LastUpdated: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			Files:       []adomain.SourceFile{{Path: "a/cart.js", Content: content}},
		},
		{
			ProjectID:   "project-b",
			LastUpdated: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			Files:       []adomain.SourceFile{{Path: "b/checkout.js", Content: content}},
		},
	}
}

func TestAnalysisWithSharedPatternCache(t *testing.T) {
	ctx := context.Background()

	t.Run("detects duplicates end to end", func(t *testing.T) {
		service.ResetMetrics()
		client, _ := setupTestRedis(t)
		analyzer := newAnalyzerWithSharedCache(t, client)

		result, err := analyzer.AnalyzeProjects(ctx, "owner-1", sampleProjects())
		require.NoError(t, err)

		assert.Equal(t, 2, result.FilesAnalyzed)
		require.NotEmpty(t, result.DuplicateGroups)
		assert.Equal(t, 1.0, result.DuplicateGroups[0].SimilarityScore)
	})

	t.Run("pattern cache entries survive across analyzer instances", func(t *testing.T) {
		service.ResetMetrics()
		client, _ := setupTestRedis(t)

		first := newAnalyzerWithSharedCache(t, client)
		_, err := first.AnalyzeProjects(ctx, "owner-1", sampleProjects())
		require.NoError(t, err)
		missesAfterFirst := service.GetMetrics().PatternCacheMisses()
		require.Greater(t, missesAfterFirst, int64(0))

		// A fresh analyzer has a cold memory cache but shares Redis.
		second := newAnalyzerWithSharedCache(t, client)
		_, err = second.AnalyzeProjects(ctx, "owner-2", sampleProjects())
		require.NoError(t, err)

		assert.Equal(t, missesAfterFirst, service.GetMetrics().PatternCacheMisses())
		assert.Greater(t, service.GetMetrics().PatternCacheHits(), int64(0))
	})

	t.Run("expired shared entries are recomputed", func(t *testing.T) {
		service.ResetMetrics()
		client, mr := setupTestRedis(t)

		first := newAnalyzerWithSharedCache(t, client)
		_, err := first.AnalyzeProjects(ctx, "owner-1", sampleProjects())
		require.NoError(t, err)
		missesAfterFirst := service.GetMetrics().PatternCacheMisses()

		mr.FastForward(2 * time.Hour)

		second := newAnalyzerWithSharedCache(t, client)
		_, err = second.AnalyzeProjects(ctx, "owner-2", sampleProjects())
		require.NoError(t, err)

		assert.Greater(t, service.GetMetrics().PatternCacheMisses(), missesAfterFirst)
	})
}
