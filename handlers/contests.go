package handlers

import (
	"cp-mate-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupContestRoutes(app *fiber.App, contestService *services.ContestService, leetcodeContestService *services.LeetCodeContestService) {
	// 🔓 Contest calendars are public
	contests := app.Group("/api/contests")
	contests.Get("/codeforces", contestService.GetCodeforcesContests)
	contests.Get("/leetcode", contestService.GetLeetCodeContests)
	contests.Get("/upcoming", contestService.GetUpcoming)
	contests.Get("/fallback", contestService.GetFallbackSchedule)

	leetcode := app.Group("/api/leetcode")
	leetcode.Get("/full-rating-history/:username", leetcodeContestService.GetFullRatingHistory)
	leetcode.Get("/:username", leetcodeContestService.GetContestRanking)
}
