// Package scheduler wires up the cron job that periodically syncs job
// postings from TheirStack.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"roofboard/jobs-service/internal/ingest"
)

// Scheduler wraps robfig/cron and manages the sync loop.
type Scheduler struct {
	cron     *cron.Cron
	pipeline *ingest.Pipeline
	spec     string // cron spec, e.g. "@every 6h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(pipeline *ingest.Pipeline, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cron.DefaultLogger)),
		pipeline: pipeline,
		spec:     fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one sync
// immediately so the board is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSync(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)

	// Run immediately on startup (non-blocking)
	go s.runSync(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

func (s *Scheduler) runSync(ctx context.Context) {
	log.Println("[scheduler] Sync cycle started")

	synced, err := s.pipeline.Sync(ctx)
	if err != nil {
		if errors.Is(err, ingest.ErrSyncInProgress) {
			log.Println("[scheduler] Sync already running elsewhere — skipping this tick")
			return
		}
		log.Printf("[scheduler] Sync error: %v", err)
		return
	}

	log.Printf("[scheduler] Sync cycle complete — %d new job(s)", synced)
}
