package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"cp-mate-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
)

// Fixed times-of-day for the synthesized schedule, matching LeetCode's real
// cadence: Weekly on Sundays, Biweekly later on alternating Saturdays.
const (
	weeklyContestHour     = 2
	weeklyContestMinute   = 30
	biweeklyContestHour   = 14
	biweeklyContestMinute = 30
	fallbackDurationHours = 1.5
)

// ContestService aggregates upcoming contests across both platforms and
// synthesizes a local LeetCode schedule when the live calendar is down.
type ContestService struct {
	LeetCode   *LeetCodeClient
	Codeforces *CodeforcesClient
	// Now is injectable so the synthesizer stays deterministic in tests.
	Now func() time.Time
}

func NewContestService(lc *LeetCodeClient, cf *CodeforcesClient) *ContestService {
	return &ContestService{LeetCode: lc, Codeforces: cf, Now: time.Now}
}

// UpcomingContestsResponse reports the merged upcoming list along with
// whether the LeetCode portion is live or locally synthesized.
type UpcomingContestsResponse struct {
	Contests          []models.ContestEntry `json:"contests"`
	LeetCodeAPIStatus string                `json:"leetcodeApiStatus"` // "live" or "fallback"
}

// UpcomingContests fetches Codeforces and LeetCode upcoming contests. A
// LeetCode failure silently degrades to the synthesized current-month
// schedule; a Codeforces failure fails the call since there is no local
// substitute for its calendar.
func (s *ContestService) UpcomingContests(ctx context.Context) (*UpcomingContestsResponse, error) {
	now := s.Now().UTC()

	cfContests, err := s.Codeforces.FetchContests(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]models.ContestEntry, 0, len(cfContests))
	for _, contest := range cfContests {
		start := time.Unix(contest.StartTimeSeconds, 0).UTC()
		if contest.Phase != string(models.PhaseBefore) || !start.After(now) {
			continue
		}
		entries = append(entries, models.ContestEntry{
			ID:       strconv.Itoa(contest.ID),
			Name:     contest.Name,
			Platform: "Codeforces",
			Start:    start,
			Duration: float64(contest.DurationSeconds) / 3600,
			URL:      fmt.Sprintf("https://codeforces.com/contest/%d", contest.ID),
			Phase:    models.PhaseBefore,
		})
	}

	status := "live"
	lcContests, err := s.LeetCode.FetchAllContests(ctx)
	if err != nil {
		// Degrade silently: synthesize the current month instead of
		// surfacing the upstream error to the end user.
		log.Printf("[CONTESTS] ⚠️ LeetCode calendar unavailable, using fallback schedule: %v", err)
		status = "fallback"
		fallback, synthErr := SynthesizeMonthlySchedule(now.Year(), now.Month(), now)
		if synthErr != nil {
			return nil, synthErr
		}
		entries = append(entries, fallback...)
	} else {
		for _, contest := range lcContests {
			start := time.Unix(contest.StartTime, 0).UTC()
			if !start.After(now) || contest.IsVirtual {
				continue
			}
			entries = append(entries, models.ContestEntry{
				ID:       contest.TitleSlug,
				Name:     contest.Title,
				Platform: "LeetCode",
				Start:    start,
				Duration: contest.Duration / 3600,
				URL:      fmt.Sprintf("https://leetcode.com/contest/%s", contest.TitleSlug),
				Phase:    models.PhaseBefore,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Start.Before(entries[j].Start) })
	return &UpcomingContestsResponse{Contests: entries, LeetCodeAPIStatus: status}, nil
}

// SynthesizeMonthlySchedule deterministically generates the recurring
// LeetCode schedule for one calendar month: every Sunday a Weekly Contest,
// every second Saturday (even-indexed counting from the start of the month)
// a Biweekly Contest. Pure given (year, month, now).
func SynthesizeMonthlySchedule(year int, month time.Month, now time.Time) ([]models.ContestEntry, error) {
	if month < time.January || month > time.December || year < 1970 || year > 9999 {
		return nil, fmt.Errorf("%w: year=%d month=%d", ErrInvalidRange, year, int(month))
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	entries := []models.ContestEntry{}
	saturdayCount := 0

	for day := first; day.Month() == month; day = day.AddDate(0, 0, 1) {
		switch day.Weekday() {
		case time.Sunday:
			start := time.Date(year, month, day.Day(), weeklyContestHour, weeklyContestMinute, 0, 0, time.UTC)
			entries = append(entries, newFallbackEntry("LeetCode Weekly Contest", "weekly", start, now))
		case time.Saturday:
			saturdayCount++
			if saturdayCount%2 == 0 {
				start := time.Date(year, month, day.Day(), biweeklyContestHour, biweeklyContestMinute, 0, 0, time.UTC)
				entries = append(entries, newFallbackEntry("LeetCode Biweekly Contest", "biweekly", start, now))
			}
		}
	}
	return entries, nil
}

func newFallbackEntry(name, kind string, start, now time.Time) models.ContestEntry {
	phase := models.PhaseFinished
	if start.After(now) {
		phase = models.PhaseBefore
	}
	return models.ContestEntry{
		ID:         slug.Make(fmt.Sprintf("%s %s", kind, start.Format(models.DateLayout))),
		Name:       name,
		Platform:   "LeetCode",
		Start:      start,
		Duration:   fallbackDurationHours,
		URL:        "https://leetcode.com/contest/",
		Phase:      phase,
		IsFallback: true,
	}
}

// --- Fiber handlers ---

// GetUpcoming serves the merged upcoming-contest list.
func (s *ContestService) GetUpcoming(c *fiber.Ctx) error {
	resp, err := s.UpcomingContests(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "failed to fetch upcoming contests", "cause": err.Error(),
		})
	}
	return c.JSON(resp)
}

// GetFallbackSchedule serves the synthesized schedule for an explicit
// year/month, defaulting to the current month.
func (s *ContestService) GetFallbackSchedule(c *fiber.Ctx) error {
	now := s.Now().UTC()
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))

	entries, err := SynthesizeMonthlySchedule(year, time.Month(month), now)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"contests": entries})
}

// GetCodeforcesContests proxies the raw Codeforces contest list.
func (s *ContestService) GetCodeforcesContests(c *fiber.Ctx) error {
	contests, err := s.Codeforces.FetchContests(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "failed to fetch contests", "cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "OK", "result": contests})
}

// GetLeetCodeContests proxies the LeetCode contest calendar.
func (s *ContestService) GetLeetCodeContests(c *fiber.Ctx) error {
	contests, err := s.LeetCode.FetchContestCalendar(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "failed to fetch LeetCode contests", "cause": err.Error(),
		})
	}
	return c.JSON(contests)
}
