package service

import (
	"context"
	"log"
	"time"

	"golang.org/x/time/rate"

	pdomain "github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/domain"
)

const persistTimeout = 10 * time.Second

// persistLimiter smooths bursts of completed analyses toward the store.
var persistLimiter = rate.NewLimiter(rate.Every(200*time.Millisecond), 5)

// enqueuePersist hands a result to the persistence worker without blocking
// the analysis response. A full queue is a persistence failure, observable
// via metrics, never an analysis failure.
func (a *Analyzer) enqueuePersist(logger *Logger, result *pdomain.AnalysisResult) {
	if a.persistCh == nil {
		return
	}

	select {
	case a.persistCh <- result:
	default:
		recordPersistFailure()
		logger.LogWarnf("persist_result", "persistence queue full, dropping result id=%s", result.ID)
	}
}

func (a *Analyzer) persistLoop() {
	defer a.persistWG.Done()

	for result := range a.persistCh {
		if err := persistLimiter.Wait(context.Background()); err != nil {
			recordPersistFailure()
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		_, err := a.store.SaveAnalysisRun(ctx, result)
		cancel()

		if err != nil {
			recordPersistFailure()
			log.Printf("[warn] operation=persist_result result_id=%s error=%v", result.ID, err)
			continue
		}
		recordPersistedRun()
	}
}

// Close drains the persistence queue and stops the worker. Safe to call more
// than once.
func (a *Analyzer) Close() {
	a.closeOnce.Do(func() {
		if a.persistCh != nil {
			close(a.persistCh)
			a.persistWG.Wait()
		}
	})
}
