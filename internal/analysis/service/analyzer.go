package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/GoSim-25-26J-441/dup-analysis-backend/config"
	adomain "github.com/GoSim-25-26J-441/dup-analysis-backend/internal/analysis/domain"
	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/cache"
	pdomain "github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/domain"
	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/extractor"
	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/grouping"
)

// ResultStore receives completed analysis results for persistence. Storage
// is fire-and-forget: a store failure never fails the analysis call.
type ResultStore interface {
	SaveAnalysisRun(ctx context.Context, result *pdomain.AnalysisResult) (string, error)
}

// Deps carries the injected collaborators for an Analyzer.
type Deps struct {
	Config             config.AnalysisConfig
	Extractor          extractor.Extractor
	Grouper            *grouping.Grouper
	ResultCache        *cache.Memory[*pdomain.AnalysisResult]
	PatternCache       *cache.Memory[[]pdomain.Pattern]
	SharedPatternCache *cache.RedisPatternCache
	Store              ResultStore
}

// Analyzer orchestrates pattern extraction, duplicate grouping, two-tier
// caching and batch scheduling for whole project sets.
type Analyzer struct {
	cfg          config.AnalysisConfig
	extractor    extractor.Extractor
	grouper      *grouping.Grouper
	resultCache  *cache.Memory[*pdomain.AnalysisResult]
	patternCache *cache.Memory[[]pdomain.Pattern]
	shared       *cache.RedisPatternCache
	store        ResultStore

	flight singleflight.Group
	sem    *semaphore.Weighted

	persistCh chan *pdomain.AnalysisResult
	persistWG sync.WaitGroup
	closeOnce sync.Once
}

func New(deps Deps) *Analyzer {
	concurrency := deps.Config.BatchConcurrency
	if concurrency <= 0 {
		concurrency = 3
	}
	if deps.Config.MaxFileSizeBytes <= 0 {
		deps.Config.MaxFileSizeBytes = 500 * 1024
	}

	a := &Analyzer{
		cfg:          deps.Config,
		extractor:    deps.Extractor,
		grouper:      deps.Grouper,
		resultCache:  deps.ResultCache,
		patternCache: deps.PatternCache,
		shared:       deps.SharedPatternCache,
		store:        deps.Store,
		sem:          semaphore.NewWeighted(int64(concurrency)),
	}

	if a.store != nil {
		a.persistCh = make(chan *pdomain.AnalysisResult, 16)
		a.persistWG.Add(1)
		go a.persistLoop()
	}

	return a
}

// AnalyzeProjects runs duplicate analysis over a project set. Unchanged
// project sets are served from the result cache; concurrent callers with the
// same cache key share one in-flight computation.
func (a *Analyzer) AnalyzeProjects(ctx context.Context, ownerID string, projects []adomain.ProjectInput) (*pdomain.AnalysisResult, error) {
	if len(projects) == 0 {
		return nil, adomain.ErrNoProjects
	}

	key, err := analysisCacheKey(ownerID, projects)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pdomain.ErrCacheKey, err)
	}

	if cached, ok := a.resultCache.Get(key); ok {
		recordResultCacheHit()
		return cached, nil
	}

	v, err, _ := a.flight.Do(key, func() (interface{}, error) {
		if cached, ok := a.resultCache.Get(key); ok {
			recordResultCacheHit()
			return cached, nil
		}
		return a.compute(ctx, ownerID, projects, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*pdomain.AnalysisResult), nil
}

type workFile struct {
	path        string
	content     string
	language    string
	contentHash string
}

func (a *Analyzer) compute(ctx context.Context, ownerID string, projects []adomain.ProjectInput, key string) (*pdomain.AnalysisResult, error) {
	start := time.Now()
	analysisID := uuid.New().String()
	ctx = context.WithValue(ctx, "analysis_id", analysisID)
	logger := NewLogger(ctx)

	files, languages := a.collectFiles(logger, projects)
	logger.LogInfof("analyze_projects", "owner_id=%s projects=%d files=%d", ownerID, len(projects), len(files))

	patterns, err := a.extractAll(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", adomain.ErrAggregation, err)
	}

	groups := a.grouper.FindDuplicates(patterns)
	grouping.SortGroups(groups)

	result := &pdomain.AnalysisResult{
		ID:                 analysisID,
		OwnerID:            ownerID,
		DuplicateGroups:    groups,
		FilesAnalyzed:      len(files),
		PatternsFound:      len(patterns),
		DuplicatesDetected: len(groups),
		Languages:          languages,
		ProcessingTimeMs:   time.Since(start).Milliseconds(),
		CreatedAt:          time.Now(),
	}

	recordFilesAnalyzed(len(files))
	a.resultCache.Set(key, result)
	a.enqueuePersist(logger, result)

	logger.LogInfof("analyze_projects", "patterns=%d duplicate_groups=%d duration_ms=%d",
		result.PatternsFound, result.DuplicatesDetected, result.ProcessingTimeMs)
	return result, nil
}

// collectFiles applies the skip heuristics and computes per-file cache keys
// and the language distribution.
func (a *Analyzer) collectFiles(logger *Logger, projects []adomain.ProjectInput) ([]workFile, map[string]int) {
	var files []workFile
	languages := make(map[string]int)

	for _, project := range projects {
		for _, f := range project.Files {
			if reason := shouldSkip(f.Path, f.Content, a.cfg.MaxFileSizeBytes); reason != SkipNone {
				recordFileSkipped()
				logger.LogInfof("collect_files", "skipped file=%s reason=%s", f.Path, reason)
				continue
			}

			lang := languageForPath(f.Path)
			languages[lang]++
			files = append(files, workFile{
				path:        f.Path,
				content:     f.Content,
				language:    lang,
				contentHash: extractor.HashContent(f.Content),
			})
		}
	}
	return files, languages
}

// extractAll partitions files into fixed-size batches and runs them with
// bounded concurrency. Results merge associatively, so no ordering between
// batches is required.
func (a *Analyzer) extractAll(ctx context.Context, files []workFile) ([]pdomain.Pattern, error) {
	batchSize := a.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	var (
		mu       sync.Mutex
		patterns []pdomain.Pattern
		wg       sync.WaitGroup
	)

	for begin := 0; begin < len(files); begin += batchSize {
		end := begin + batchSize
		if end > len(files) {
			end = len(files)
		}
		batch := files[begin:end]

		if err := a.sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, fmt.Errorf("acquire batch slot: %w", err)
		}

		wg.Add(1)
		go func(batch []workFile) {
			defer wg.Done()
			defer a.sem.Release(1)

			extracted := a.processBatch(ctx, batch)

			mu.Lock()
			patterns = append(patterns, extracted...)
			mu.Unlock()
			recordBatchProcessed()
		}(batch)
	}

	wg.Wait()
	return patterns, nil
}

// processBatch extracts patterns for each file, going through the two cache
// tiers first: local memory, then the shared Redis tier when configured.
func (a *Analyzer) processBatch(ctx context.Context, batch []workFile) []pdomain.Pattern {
	var out []pdomain.Pattern

	for _, f := range batch {
		if cached, ok := a.patternCache.Get(f.contentHash); ok {
			recordPatternCacheHit()
			out = append(out, restamp(cached, f.path)...)
			continue
		}

		if a.shared != nil {
			if cached, ok := a.shared.Get(ctx, f.contentHash); ok {
				recordPatternCacheHit()
				a.patternCache.Set(f.contentHash, cached)
				out = append(out, restamp(cached, f.path)...)
				continue
			}
		}

		recordPatternCacheMiss()
		extracted := a.extractor.ExtractPatterns(f.content, f.path)
		a.patternCache.Set(f.contentHash, extracted)
		if a.shared != nil {
			if err := a.shared.Set(ctx, f.contentHash, extracted); err != nil {
				NewLogger(ctx).LogWarnf("process_batch", "shared cache set failed: %v", err)
			}
		}
		out = append(out, extracted...)
	}
	return out
}

// restamp rewrites the file path on cached patterns. Pattern identity is the
// content hash, so a cache entry produced by one file is valid for any file
// with identical normalized content.
func restamp(patterns []pdomain.Pattern, path string) []pdomain.Pattern {
	out := make([]pdomain.Pattern, len(patterns))
	copy(out, patterns)
	for i := range out {
		out[i].FilePath = path
	}
	return out
}

// analysisCacheKey digests the owner and every (projectID, lastUpdated) pair
// so any project mutation changes the key.
func analysisCacheKey(ownerID string, projects []adomain.ProjectInput) (string, error) {
	ids := make([]int, len(projects))
	for i := range ids {
		ids[i] = i
	}
	sort.Slice(ids, func(i, j int) bool {
		return projects[ids[i]].ProjectID < projects[ids[j]].ProjectID
	})

	h := xxhash.New()
	if _, err := h.WriteString(ownerID); err != nil {
		return "", err
	}
	for _, i := range ids {
		p := projects[i]
		if _, err := h.WriteString("|" + p.ProjectID + ":" + strconv.FormatInt(p.LastUpdated.UnixNano(), 10)); err != nil {
			return "", err
		}
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}

// CacheStats exposes read-only cache statistics for monitoring.
func (a *Analyzer) CacheStats() map[string]cache.Stats {
	stats := map[string]cache.Stats{
		"results":  a.resultCache.Stats(),
		"patterns": a.patternCache.Stats(),
	}
	if a.shared != nil {
		stats["shared_patterns"] = a.shared.Stats(context.Background())
	}
	return stats
}

// Sweepers returns the memory caches for the periodic expiry sweep.
func (a *Analyzer) Sweepers() []interface{ Sweep() int } {
	return []interface{ Sweep() int }{a.resultCache, a.patternCache}
}
