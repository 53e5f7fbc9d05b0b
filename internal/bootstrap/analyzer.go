package bootstrap

import (
	"context"
	"log"

	"github.com/GoSim-25-26J-441/dup-analysis-backend/config"
	cronjob "github.com/GoSim-25-26J-441/dup-analysis-backend/internal/analysis/cron"
	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/analysis/repository"
	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/analysis/service"
	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/cache"
	pdomain "github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/domain"
	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/extractor"
	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/grouping"
	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/similarity"
	storage "github.com/GoSim-25-26J-441/dup-analysis-backend/internal/storage/postgres"
)

// BuildAnalyzer wires the extraction pipeline once: caches, optional Redis
// tier, optional Postgres store, sweep scheduler. The returned cleanup
// releases everything.
func BuildAnalyzer(ctx context.Context, cfg *config.Config) (*service.Analyzer, func(), error) {
	lexical := extractor.NewLexical(
		extractor.WithMaxFileBytes(cfg.Analysis.MaxFileSizeBytes),
		extractor.WithMaxMatches(cfg.Analysis.MaxMatchesPerRule),
	)

	grouper := grouping.New(
		similarity.NewScorer(),
		cfg.Analysis.SimilarityThreshold,
		grouping.WithFuzzyLengthBounds(cfg.Analysis.FuzzyMinLength, cfg.Analysis.FuzzyMaxLength),
		grouping.WithMaxFuzzyComparisons(cfg.Analysis.MaxFuzzyComparisons),
	)

	resultCache := cache.NewMemory[*pdomain.AnalysisResult](cfg.Cache.ResultMaxSize, cfg.Cache.ResultTTL)
	patternCache := cache.NewMemory[[]pdomain.Pattern](cfg.Cache.PatternMaxSize, cfg.Cache.PatternTTL)

	deps := service.Deps{
		Config:       cfg.Analysis,
		Extractor:    lexical,
		Grouper:      grouper,
		ResultCache:  resultCache,
		PatternCache: patternCache,
	}

	var cleanups []func()

	if cfg.Redis.Addr != "" {
		client, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		cleanups = append(cleanups, func() { client.Close() })
		deps.SharedPatternCache = cache.NewRedisPatternCache(client, cfg.Cache.PatternTTL)
	} else {
		log.Println("REDIS_ADDR not set, shared pattern cache disabled")
	}

	if cfg.Database.DSN != "" {
		pool, err := storage.GetPool(ctx, cfg.Database.DSN)
		if err != nil {
			runCleanups(cleanups)
			return nil, nil, err
		}
		cleanups = append(cleanups, pool.Close)
		deps.Store = repository.NewResultRepository(pool)
	} else {
		log.Println("DATABASE_URL not set, result persistence disabled")
	}

	analyzer := service.New(deps)
	cleanups = append(cleanups, analyzer.Close)

	scheduler := cronjob.NewScheduler(cfg.Cache.SweepSchedule, resultCache, patternCache)
	scheduler.Start()
	cleanups = append(cleanups, scheduler.Stop)

	return analyzer, func() { runCleanups(cleanups) }, nil
}

func runCleanups(cleanups []func()) {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}
