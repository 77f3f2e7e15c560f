package jobs

// Maintenance job names, also the scheduler registry keys.
const (
	JobNameStatsRecount = "stats-recount"
	JobNameOrphanSweep  = "orphan-sweep"
)

// Default schedules. Both run in the quiet hours; the sweep starts later so
// a recount never races it on the same rows.
const (
	DefaultStatsRecountCron = "0 2 * * *"
	DefaultOrphanSweepCron  = "30 3 * * *"
)
