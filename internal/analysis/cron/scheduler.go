package cronjob

import (
	"log"

	"github.com/robfig/cron/v3"
)

// Sweeper removes expired entries and reports how many were dropped.
type Sweeper interface {
	Sweep() int
}

type Scheduler struct {
	c        *cron.Cron
	schedule string
	sweepers []Sweeper
}

func NewScheduler(schedule string, sweepers ...Sweeper) *Scheduler {
	return &Scheduler{schedule: schedule, sweepers: sweepers}
}

// Start initializes the periodic cache sweep
func (s *Scheduler) Start() {
	s.c = cron.New(cron.WithSeconds())

	_, err := s.c.AddFunc(s.schedule, func() {
		s.runSweep()
	})
	if err != nil {
		log.Printf("Failed to create cache sweep job: %v", err)
		return
	}

	log.Printf("Cache sweep scheduler started (schedule %q)", s.schedule)
	s.c.Start()
}

func (s *Scheduler) Stop() {
	if s.c != nil {
		s.c.Stop()
	}
}

func (s *Scheduler) runSweep() {
	removed := 0
	for _, sw := range s.sweepers {
		removed += sw.Sweep()
	}
	if removed > 0 {
		log.Printf("Cache sweep removed %d expired entries", removed)
	}
}
