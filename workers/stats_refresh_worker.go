package workers

import (
	"context"
	"log"
	"time"

	"cp-mate-backend/models"
	"cp-mate-backend/services"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// StatsRefreshWorker periodically re-fetches platform stats for every user
// with at least one linked handle, so dashboards stay warm between manual
// refreshes.
type StatsRefreshWorker struct {
	db       *gorm.DB
	stats    *services.StatsService
	interval time.Duration
}

func NewStatsRefreshWorker(db *gorm.DB, stats *services.StatsService, interval time.Duration) *StatsRefreshWorker {
	return &StatsRefreshWorker{
		db:       db,
		stats:    stats,
		interval: interval,
	}
}

// Start schedules the refresh job and blocks until ctx is cancelled.
func (w *StatsRefreshWorker) Start(ctx context.Context) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("[REFRESH] ❌ Failed to create scheduler: %v", err)
		return
	}

	_, err = sched.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() { w.refreshAll(ctx) }),
	)
	if err != nil {
		log.Printf("[REFRESH] ❌ Failed to schedule refresh job: %v", err)
		return
	}

	log.Printf("🔁 Stats refresh worker running (every %s)", w.interval)
	sched.Start()

	<-ctx.Done()
	if err := sched.Shutdown(); err != nil {
		log.Printf("[REFRESH] ⚠️ Scheduler shutdown error: %v", err)
	}
	log.Println("⏹️ Stats refresh worker stopped")
}

// refreshAll walks users with linked handles and refreshes each. Per-user
// failures are logged and skipped; one bad handle never stalls the sweep.
func (w *StatsRefreshWorker) refreshAll(ctx context.Context) {
	var users []models.User
	if err := w.db.Find(&users).Error; err != nil {
		log.Printf("[REFRESH] ❌ Failed to list users: %v", err)
		return
	}

	refreshed := 0
	for i := range users {
		if ctx.Err() != nil {
			return
		}
		user := &users[i]
		if user.Handles.LeetCode == "" && user.Handles.Codeforces == "" {
			continue
		}

		results := w.stats.RefreshUserStats(ctx, user)
		for platform, result := range results {
			if result.Error != "" {
				log.Printf("[REFRESH] ⚠️ %s refresh failed for user %s: %s", platform, user.ID, result.Error)
			}
		}
		refreshed++
	}

	if refreshed > 0 {
		log.Printf("[REFRESH] ✅ Refreshed stats for %d user(s)", refreshed)
	}
}
