package service

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler fires a callback on a cron schedule.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler parses spec (standard five-field cron or a @descriptor) and
// registers fn. An empty spec yields a scheduler that never fires.
func NewScheduler(spec string, fn func(), logger *log.Logger) (*Scheduler, error) {
	c := cron.New()
	if spec != "" {
		if _, err := c.AddFunc(spec, func() {
			logf(logger, "scheduler: tick %q", spec)
			fn()
		}); err != nil {
			return nil, fmt.Errorf("refresh schedule %q: %w", spec, err)
		}
	}
	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the scheduler and waits for a running callback to finish.
func (s *Scheduler) Stop() { <-s.cron.Stop().Done() }

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int { return len(s.cron.Entries()) }
