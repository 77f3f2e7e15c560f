// Package jobs registers the maintenance jobs that keep the stored state
// convergent: the aggregate recount and the orphaned-blob sweep.
package jobs

import (
	"context"
	"time"

	"github.com/eduardoinoa18/memorybox/pkg/internal/service"
	mlog "github.com/eduardoinoa18/memorybox/pkg/log"
	"github.com/eduardoinoa18/memorybox/pkg/scheduler"
)

// Register adds the maintenance jobs to the scheduler. ctx must carry the
// storage manager; it is handed to every job run.
func Register(ctx context.Context, sched *scheduler.Scheduler) error {
	if err := sched.AddCron(JobNameStatsRecount, DefaultStatsRecountCron, recountStats, ctx); err != nil {
		return err
	}

	return sched.AddCron(JobNameOrphanSweep, DefaultOrphanSweepCron, sweepOrphans, ctx)
}

// recountStats re-derives every user's aggregates from the memories table.
// Atomic increments keep the aggregates close to the truth; this job pulls
// them back exactly when an increment was lost.
func recountStats(ctx context.Context) {
	start := time.Now()
	svc := service.NewMemoryService(ctx)

	users, err := svc.ListStatsUserIDs(ctx)
	if err != nil {
		mlog.Logger().Error().Err(err).Msg("stats recount: list users failed")

		return
	}

	var drifted int

	for _, userID := range users {
		if ctx.Err() != nil {
			mlog.Logger().Warn().Msg("stats recount interrupted")

			return
		}

		drift, err := svc.RecountUserStats(ctx, userID)
		if err != nil {
			mlog.Logger().Error().Err(err).Str("user", userID).Msg("stats recount failed")

			continue
		}

		if drift {
			drifted++
		}
	}

	mlog.Logger().Info().
		Int("users", len(users)).
		Int("drifted", drifted).
		Dur("took", time.Since(start)).
		Msg("stats recount finished")
}

// sweepOrphans removes memory blobs that have no record and are older than
// the grace period.
func sweepOrphans(ctx context.Context) {
	start := time.Now()
	svc := service.NewMemoryService(ctx)

	swept, err := svc.SweepOrphanedBlobs(ctx)
	if err != nil {
		mlog.Logger().Error().Err(err).Int("swept", swept).Msg("orphan sweep failed")

		return
	}

	mlog.Logger().Info().
		Int("swept", swept).
		Dur("took", time.Since(start)).
		Msg("orphan sweep finished")
}
