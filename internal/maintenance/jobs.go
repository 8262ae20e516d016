// Package maintenance runs the periodic housekeeping jobs: insight cache
// sweeps and snapshot pruning.
package maintenance

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/revisely/dkt/internal/insights"
	"github.com/revisely/dkt/internal/store"
)

// Runner owns the cron scheduler.
type Runner struct {
	cron      *cron.Cron
	snapshots store.SnapshotRepo
	insights  *insights.Service
	keep      int
}

// NewRunner creates a runner. keep is how many snapshots to retain per user.
func NewRunner(snapshots store.SnapshotRepo, insightsSvc *insights.Service, keep int) *Runner {
	if keep <= 0 {
		keep = 10
	}
	return &Runner{
		cron:      cron.New(),
		snapshots: snapshots,
		insights:  insightsSvc,
		keep:      keep,
	}
}

// Start registers the jobs and starts the scheduler: hourly cache sweep,
// nightly snapshot prune.
func (r *Runner) Start() error {
	if _, err := r.cron.AddFunc("0 * * * *", r.sweepCache); err != nil {
		return err
	}
	if _, err := r.cron.AddFunc("30 3 * * *", r.pruneSnapshots); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *Runner) sweepCache() {
	removed := r.insights.SweepExpired()
	if removed > 0 {
		log.Printf("maintenance: swept %d expired insight cache entries", removed)
	}
}

func (r *Runner) pruneSnapshots() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	users, err := r.snapshots.Users(ctx)
	if err != nil {
		log.Printf("maintenance: list snapshot users: %v", err)
		return
	}
	for _, userID := range users {
		if err := r.snapshots.Prune(ctx, userID, r.keep); err != nil {
			log.Printf("maintenance: prune snapshots for %s: %v", userID, err)
		}
	}
	log.Printf("maintenance: pruned snapshots for %d users", len(users))
}
