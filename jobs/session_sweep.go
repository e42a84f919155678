// Package jobs runs scheduled maintenance.
package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const DefaultSweepSchedule = "@hourly"

type Sweeper interface {
	SweepStale(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron *cron.Cron
}

// NewSessionSweep schedules sweeper to close expired login entries.
func NewSessionSweep(schedule string, sweeper Sweeper) (*Scheduler, error) {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { RunSweep(context.Background(), sweeper) }); err != nil {
		return nil, fmt.Errorf("cron.AddFunc %q: %w", schedule, err)
	}
	return &Scheduler{cron: c}, nil
}

// RunSweep runs one sweep and logs its outcome.
func RunSweep(ctx context.Context, sweeper Sweeper) {
	closed, err := sweeper.SweepStale(ctx)
	if err != nil {
		log.Errorf("session sweep: %v", err)
		return
	}
	if closed > 0 {
		log.WithField("closed", closed).Info("expired login sessions closed")
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
