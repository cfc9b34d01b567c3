package services

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LeetCodeContestService serves contest-ranking lookups and the full rating
// timeline for an arbitrary handle (no account required).
type LeetCodeContestService struct {
	Client *LeetCodeClient
}

func NewLeetCodeContestService(client *LeetCodeClient) *LeetCodeContestService {
	return &LeetCodeContestService{Client: client}
}

// TimelinePoint is one contest on the user's rating timeline. Contests the
// user skipped are included with Participated=false so charts can show gaps.
type TimelinePoint struct {
	Title        string   `json:"title"`
	ShortTitle   string   `json:"shortTitle"`
	StartTime    int64    `json:"startTime"`
	Rating       *float64 `json:"rating"`
	Participated bool     `json:"participated"`
	Ranking      *int     `json:"ranking"`
}

var contestNumberPattern = regexp.MustCompile(`\d+`)

// shortContestTitle compresses "Weekly Contest 455" to "W455" and
// "Biweekly Contest 124" to "B124"; anything else passes through.
func shortContestTitle(title string) string {
	number := contestNumberPattern.FindString(title)
	switch {
	case number == "":
		return title
	case strings.Contains(title, "Biweekly Contest"):
		return "B" + number
	case strings.Contains(title, "Weekly Contest"):
		return "W" + number
	}
	return title
}

// GetContestRanking serves GET /api/leetcode/:username.
func (s *LeetCodeContestService) GetContestRanking(c *fiber.Ctx) error {
	username := c.Params("username")

	payload, err := s.Client.FetchContestRanking(c.Context(), username)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "failed to fetch data from LeetCode", "cause": err.Error(),
		})
	}
	return c.JSON(payload)
}

// GetFullRatingHistory serves GET /api/leetcode/full-rating-history/:username.
// It merges the global contest calendar with the user's contest history into
// a continuous timeline bounded by the user's first and last attended
// contests.
func (s *LeetCodeContestService) GetFullRatingHistory(c *fiber.Ctx) error {
	username := c.Params("username")
	ctx := c.Context()

	allContests, err := s.Client.FetchContestCalendar(ctx)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "failed to fetch data from LeetCode", "cause": err.Error(),
		})
	}

	ranking, err := s.Client.FetchContestRanking(ctx, username)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "failed to fetch data from LeetCode", "cause": err.Error(),
		})
	}

	timeline := buildRatingTimeline(allContests, ranking.UserContestRankingHistory)
	return c.JSON(fiber.Map{"timeline": timeline})
}

func buildRatingTimeline(allContests []LeetCodeContest, history []LeetCodeContestHistoryEntry) []TimelinePoint {
	if len(history) == 0 {
		return []TimelinePoint{}
	}

	byStart := make(map[int64]LeetCodeContestHistoryEntry, len(history))
	minTime := history[0].Contest.StartTime
	maxTime := history[0].Contest.StartTime
	for _, entry := range history {
		byStart[entry.Contest.StartTime] = entry
		if entry.Contest.StartTime < minTime {
			minTime = entry.Contest.StartTime
		}
		if entry.Contest.StartTime > maxTime {
			maxTime = entry.Contest.StartTime
		}
	}

	timeline := []TimelinePoint{}
	for _, contest := range allContests {
		if contest.StartTime < minTime || contest.StartTime > maxTime {
			continue
		}
		point := TimelinePoint{
			Title:      contest.Title,
			ShortTitle: shortContestTitle(contest.Title),
			StartTime:  contest.StartTime,
		}
		if entry, ok := byStart[contest.StartTime]; ok {
			rating := entry.Rating
			ranking := entry.Ranking
			point.Rating = &rating
			point.Ranking = &ranking
			point.Participated = true
		}
		timeline = append(timeline, point)
	}
	return timeline
}
