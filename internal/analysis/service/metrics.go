package service

import "sync/atomic"

// Metrics tracks analysis pipeline counters
type Metrics struct {
	filesAnalyzed     int64
	filesSkipped      int64
	batchesProcessed  int64
	resultCacheHits   int64
	patternCacheHits  int64
	patternCacheMiss  int64
	persistFailures   int64
	persistedRuns     int64
}

var globalMetrics = &Metrics{}

// GetMetrics returns the current metrics snapshot
func GetMetrics() Metrics {
	return Metrics{
		filesAnalyzed:    atomic.LoadInt64(&globalMetrics.filesAnalyzed),
		filesSkipped:     atomic.LoadInt64(&globalMetrics.filesSkipped),
		batchesProcessed: atomic.LoadInt64(&globalMetrics.batchesProcessed),
		resultCacheHits:  atomic.LoadInt64(&globalMetrics.resultCacheHits),
		patternCacheHits: atomic.LoadInt64(&globalMetrics.patternCacheHits),
		patternCacheMiss: atomic.LoadInt64(&globalMetrics.patternCacheMiss),
		persistFailures:  atomic.LoadInt64(&globalMetrics.persistFailures),
		persistedRuns:    atomic.LoadInt64(&globalMetrics.persistedRuns),
	}
}

// ResetMetrics resets all metrics (useful for testing)
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.filesAnalyzed, 0)
	atomic.StoreInt64(&globalMetrics.filesSkipped, 0)
	atomic.StoreInt64(&globalMetrics.batchesProcessed, 0)
	atomic.StoreInt64(&globalMetrics.resultCacheHits, 0)
	atomic.StoreInt64(&globalMetrics.patternCacheHits, 0)
	atomic.StoreInt64(&globalMetrics.patternCacheMiss, 0)
	atomic.StoreInt64(&globalMetrics.persistFailures, 0)
	atomic.StoreInt64(&globalMetrics.persistedRuns, 0)
}

func recordFilesAnalyzed(n int) { atomic.AddInt64(&globalMetrics.filesAnalyzed, int64(n)) }
func recordFileSkipped()        { atomic.AddInt64(&globalMetrics.filesSkipped, 1) }
func recordBatchProcessed()     { atomic.AddInt64(&globalMetrics.batchesProcessed, 1) }
func recordResultCacheHit()     { atomic.AddInt64(&globalMetrics.resultCacheHits, 1) }
func recordPatternCacheHit()    { atomic.AddInt64(&globalMetrics.patternCacheHits, 1) }
func recordPatternCacheMiss()   { atomic.AddInt64(&globalMetrics.patternCacheMiss, 1) }
func recordPersistFailure()     { atomic.AddInt64(&globalMetrics.persistFailures, 1) }
func recordPersistedRun()       { atomic.AddInt64(&globalMetrics.persistedRuns, 1) }

// FilesAnalyzed returns the number of files that went through extraction
func (m Metrics) FilesAnalyzed() int64 { return m.filesAnalyzed }

// FilesSkipped returns the number of files excluded before extraction
func (m Metrics) FilesSkipped() int64 { return m.filesSkipped }

// BatchesProcessed returns the number of batches that ran extraction
func (m Metrics) BatchesProcessed() int64 { return m.batchesProcessed }

// ResultCacheHits returns the number of analyses served from cache
func (m Metrics) ResultCacheHits() int64 { return m.resultCacheHits }

// PatternCacheHits returns the number of files served from the pattern cache
func (m Metrics) PatternCacheHits() int64 { return m.patternCacheHits }

// PatternCacheMisses returns the number of files that required extraction
func (m Metrics) PatternCacheMisses() int64 { return m.patternCacheMiss }

// PersistFailures returns the number of results that failed to persist
func (m Metrics) PersistFailures() int64 { return m.persistFailures }

// PersistedRuns returns the number of results stored successfully
func (m Metrics) PersistedRuns() int64 { return m.persistedRuns }

// PatternCacheHitRate returns the hit rate as a percentage
func (m Metrics) PatternCacheHitRate() float64 {
	total := m.patternCacheHits + m.patternCacheMiss
	if total == 0 {
		return 0
	}
	return float64(m.patternCacheHits) / float64(total) * 100
}
