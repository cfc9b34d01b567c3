package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"cp-mate-backend/models"
)

// officialContestIDLimit separates official rounds from practice/gym
// problems, whose contest IDs live in a much higher numeric range.
const officialContestIDLimit = 100000

// acceptedVerdict is the Codeforces verdict string for an accepted run.
const acceptedVerdict = "OK"

// NormalizeLeetCode converts a raw LeetCode payload into a PlatformStats
// fragment. Pure: no I/O, no shared state. The fragment carries no UserID;
// the merge engine assigns ownership when persisting.
func NormalizeLeetCode(handle string, payload *LeetCodeUserPayload) (*models.PlatformStats, error) {
	if payload == nil || payload.MatchedUser == nil {
		return nil, fmt.Errorf("%w: leetcode handle %q", ErrPlatformUserNotFound, handle)
	}
	user := payload.MatchedUser

	// LeetCode reports accepted counts only, so total/solved/attempted all
	// collapse to the same number.
	var breakdown models.DifficultyBreakdown
	total := 0
	for _, stat := range user.SubmitStats.ACSubmissionNum {
		switch stat.Difficulty {
		case "Easy":
			breakdown.Easy = stat.Count
		case "Medium":
			breakdown.Medium = stat.Count
		case "Hard":
			breakdown.Hard = stat.Count
		default:
			// "All" aggregate rows and unknown labels are skipped.
			continue
		}
		total += stat.Count
	}

	daily, err := parseSubmissionCalendar(user.SubmissionCalendar)
	if err != nil {
		return nil, err
	}

	submissions := make([]models.Submission, 0, len(payload.RecentSubmissionList))
	for _, sub := range payload.RecentSubmissionList {
		ts, _ := strconv.ParseInt(sub.Timestamp, 10, 64)
		submissions = append(submissions, models.Submission{
			ProblemID:   sub.TitleSlug,
			ProblemName: sub.Title,
			Status:      sub.StatusDisplay,
			Language:    sub.Lang,
			Timestamp:   time.Unix(ts, 0).UTC(),
		})
	}

	return &models.PlatformStats{
		Platform: models.PlatformLeetCode,
		Handle:   handle,
		Rating: models.RatingStats{
			// LeetCode exposes a global ranking, not a rating series.
			Current: user.Profile.Ranking,
			Max:     user.Profile.Ranking,
		},
		Problems: models.ProblemStats{
			Total:        total,
			Solved:       total,
			Attempted:    total,
			ByDifficulty: breakdown,
		},
		Activity: models.ActivityStats{
			Submissions:   submissions,
			DailyActivity: daily,
		},
		LastUpdated: time.Now().UTC(),
	}, nil
}

// parseSubmissionCalendar decodes the calendar's JSON string (epoch-second
// day keys to counts) into sorted per-date activity. The platform does not
// distinguish solved from raw submission counts per day, so both counters
// take the calendar value.
func parseSubmissionCalendar(calendar string) ([]models.DailyActivity, error) {
	if calendar == "" {
		return nil, nil
	}
	var raw map[string]int
	if err := json.Unmarshal([]byte(calendar), &raw); err != nil {
		return nil, fmt.Errorf("%w: leetcode submission calendar: %v", ErrUpstreamShape, err)
	}

	daily := make([]models.DailyActivity, 0, len(raw))
	for key, count := range raw {
		epoch, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: leetcode calendar key %q", ErrUpstreamShape, key)
		}
		daily = append(daily, models.DailyActivity{
			Date:           time.Unix(epoch, 0).UTC().Format(models.DateLayout),
			ProblemsSolved: count,
			Submissions:    count,
		})
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })
	return daily, nil
}

// NormalizeCodeforces converts the three combined Codeforces responses into
// a PlatformStats fragment. Pure: all accumulation happens in maps local to
// this call.
func NormalizeCodeforces(handle string, payload *CodeforcesUserPayload) (*models.PlatformStats, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: codeforces handle %q: nil payload", ErrUpstreamShape, handle)
	}

	history := make([]models.RatingPoint, 0, len(payload.RatingHistory))
	contests := make([]models.ContestResult, 0, len(payload.RatingHistory))
	bestRank := 0
	for _, change := range payload.RatingHistory {
		date := time.Unix(change.RatingUpdateTimeSeconds, 0).UTC()
		history = append(history, models.RatingPoint{
			Rating:  change.NewRating,
			Date:    date,
			Contest: change.ContestName,
		})
		contests = append(contests, models.ContestResult{
			Name:   change.ContestName,
			Rank:   change.Rank,
			Rating: change.NewRating,
			Date:   date,
		})
		if bestRank == 0 || change.Rank < bestRank {
			bestRank = change.Rank
		}
	}

	submissions := make([]models.Submission, 0, len(payload.Submissions))
	dailyByDate := make(map[string]*models.DailyActivity)
	tagCounts := make(map[string]int)
	// A single accepted problem produces many submission rows; solved is
	// the distinct (contestId, index) cardinality over official contestant
	// runs.
	uniqueSolved := make(map[string]struct{})

	for _, sub := range payload.Submissions {
		submissions = append(submissions, models.Submission{
			ProblemID:   sub.Problem.Index,
			ProblemName: sub.Problem.Name,
			Status:      sub.Verdict,
			Language:    sub.ProgrammingLanguage,
			Timestamp:   time.Unix(sub.CreationTimeSeconds, 0).UTC(),
			Tags:        sub.Problem.Tags,
		})

		day := time.Unix(sub.CreationTimeSeconds, 0).UTC().Format(models.DateLayout)
		entry, ok := dailyByDate[day]
		if !ok {
			entry = &models.DailyActivity{Date: day}
			dailyByDate[day] = entry
		}
		entry.Submissions++

		if sub.Verdict == acceptedVerdict {
			entry.ProblemsSolved++
			for _, tag := range sub.Problem.Tags {
				tagCounts[tag]++
			}
			if sub.Problem.ContestID > 0 &&
				sub.Problem.ContestID < officialContestIDLimit &&
				sub.Author.ParticipantType == "CONTESTANT" {
				uniqueSolved[fmt.Sprintf("%d-%s", sub.Problem.ContestID, sub.Problem.Index)] = struct{}{}
			}
		}
	}

	daily := make([]models.DailyActivity, 0, len(dailyByDate))
	for _, entry := range dailyByDate {
		daily = append(daily, *entry)
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })

	byTag := make([]models.TagCount, 0, len(tagCounts))
	for tag, count := range tagCounts {
		byTag = append(byTag, models.TagCount{Tag: tag, Count: count})
	}
	sort.Slice(byTag, func(i, j int) bool { return byTag[i].Tag < byTag[j].Tag })

	return &models.PlatformStats{
		Platform: models.PlatformCodeforces,
		Handle:   handle,
		Rating: models.RatingStats{
			Current: payload.UserInfo.Rating,
			Max:     payload.UserInfo.MaxRating,
			History: history,
		},
		Problems: models.ProblemStats{
			Total:     len(payload.Submissions),
			Solved:    len(uniqueSolved),
			Attempted: len(payload.Submissions),
			ByTag:     byTag,
		},
		Contests: models.ContestStats{
			Total:    len(payload.RatingHistory),
			BestRank: bestRank,
			History:  contests,
		},
		Activity: models.ActivityStats{
			Submissions:   submissions,
			DailyActivity: daily,
		},
		LastUpdated: time.Now().UTC(),
	}, nil
}
