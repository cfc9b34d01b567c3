package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"cp-mate-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// recentActivityWindow is how many trailing daily-activity entries each
// platform record contributes to the dashboard.
const recentActivityWindow = 7

// StatsService owns the fetch → normalize → upsert pipeline and the
// dashboard aggregation over persisted records.
type StatsService struct {
	DB         *gorm.DB
	LeetCode   *LeetCodeClient
	Codeforces *CodeforcesClient
}

func NewStatsService(db *gorm.DB, lc *LeetCodeClient, cf *CodeforcesClient) *StatsService {
	return &StatsService{DB: db, LeetCode: lc, Codeforces: cf}
}

// PlatformFetchResult is one platform's outcome inside an aggregate refresh.
// A failure on one platform never aborts the other.
type PlatformFetchResult struct {
	Stats *models.PlatformStats `json:"stats,omitempty"`
	Error string                `json:"error,omitempty"`
}

// DashboardOverview is the cross-platform summary view.
type DashboardOverview struct {
	TotalProblems int `json:"totalProblems"`
	// TotalRating is a plain arithmetic sum across platforms. The scales
	// are unrelated (a ranking vs. an Elo-style rating), so this is a
	// rough indicator, not a unified score.
	TotalRating    int                    `json:"totalRating"`
	Platforms      int                    `json:"platforms"`
	RecentActivity []models.DailyActivity `json:"recentActivity"`
}

// RefreshUserStats fetches, normalizes and persists stats for every platform
// the user has linked. The two platform fetches run concurrently since they
// are independent upstream calls.
func (s *StatsService) RefreshUserStats(ctx context.Context, user *models.User) map[models.Platform]PlatformFetchResult {
	results := make(map[models.Platform]PlatformFetchResult)
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	refresh := func(platform models.Platform, fetch func() (*models.PlatformStats, error)) {
		defer wg.Done()
		stats, err := fetch()
		if err == nil {
			err = s.UpsertPlatformStats(user.ID, stats)
		}

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			log.Printf("[STATS] ❌ %s refresh failed for user %s: %v", platform, user.ID, err)
			results[platform] = PlatformFetchResult{Error: err.Error()}
			return
		}
		results[platform] = PlatformFetchResult{Stats: stats}
	}

	if handle := user.Handles.LeetCode; handle != "" {
		wg.Add(1)
		go refresh(models.PlatformLeetCode, func() (*models.PlatformStats, error) {
			payload, err := s.LeetCode.FetchUserStats(ctx, handle)
			if err != nil {
				return nil, err
			}
			return NormalizeLeetCode(handle, payload)
		})
	}
	if handle := user.Handles.Codeforces; handle != "" {
		wg.Add(1)
		go refresh(models.PlatformCodeforces, func() (*models.PlatformStats, error) {
			payload, err := s.Codeforces.FetchUserData(ctx, handle)
			if err != nil {
				return nil, err
			}
			return NormalizeCodeforces(handle, payload)
		})
	}

	wg.Wait()
	return results
}

// UpsertPlatformStats writes the freshly normalized record, replacing any
// previous one for the same (user, platform) pair. Refresh is full-replace;
// incremental accumulation goes through AppendDailyActivity instead.
func (s *StatsService) UpsertPlatformStats(userID string, stats *models.PlatformStats) error {
	stats.UserID = userID
	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"handle", "rating", "problems", "contests", "activity",
			"last_updated", "updated_at",
		}),
	}).Create(stats).Error
}

// AppendDailyActivity folds one day's counts into an existing record,
// accumulating when the calendar date is already present.
func (s *StatsService) AppendDailyActivity(userID string, platform models.Platform, date time.Time, problemsSolved, submissions int) (*models.PlatformStats, error) {
	var stats models.PlatformStats
	if err := s.DB.Where("user_id = ? AND platform = ?", userID, platform).First(&stats).Error; err != nil {
		return nil, err
	}
	stats.MergeDailyActivity(date, problemsSolved, submissions)
	stats.LastUpdated = time.Now().UTC()
	if err := s.DB.Save(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// BuildOverview folds all of a user's platform records into one summary.
func BuildOverview(stats []models.PlatformStats) DashboardOverview {
	overview := DashboardOverview{
		Platforms:      len(stats),
		RecentActivity: []models.DailyActivity{},
	}
	for _, record := range stats {
		overview.TotalProblems += record.Problems.Solved
		overview.TotalRating += record.Rating.Current

		daily := record.Activity.DailyActivity
		if len(daily) > recentActivityWindow {
			daily = daily[len(daily)-recentActivityWindow:]
		}
		overview.RecentActivity = append(overview.RecentActivity, daily...)
	}
	sort.SliceStable(overview.RecentActivity, func(i, j int) bool {
		return overview.RecentActivity[i].Date > overview.RecentActivity[j].Date
	})
	return overview
}

// --- Fiber handlers ---

// GetStats returns all of the authenticated user's platform records.
func (s *StatsService) GetStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var stats []models.PlatformStats
	if err := s.DB.Where("user_id = ?", userID).Find(&stats).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load stats", "cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"stats": stats})
}

// FetchStats triggers a live refresh from every linked platform and reports
// per-platform outcomes.
func (s *StatsService) FetchStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load user", "cause": err.Error(),
		})
	}

	if user.Handles.LeetCode == "" && user.Handles.Codeforces == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "no platform handles configured",
		})
	}

	results := s.RefreshUserStats(c.Context(), &user)
	return c.JSON(fiber.Map{
		"message": "stats fetched",
		"results": results,
	})
}

// GetDashboard returns the aggregated overview plus the raw records.
func (s *StatsService) GetDashboard(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var stats []models.PlatformStats
	if err := s.DB.Where("user_id = ?", userID).Find(&stats).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load dashboard", "cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"overview": BuildOverview(stats),
		"stats":    stats,
	})
}
