package models

import (
	"time"
)

// Platform identifies an external competitive-programming judge.
type Platform string

const (
	PlatformLeetCode   Platform = "leetcode"
	PlatformCodeforces Platform = "codeforces"
)

// DateLayout is the calendar-date key format used throughout daily activity.
const DateLayout = "2006-01-02"

// PlatformStats is the canonical per-user per-platform statistics record.
// Exactly one row exists per (user_id, platform) pair; refresh paths upsert
// on that composite key. The nested documents are stored as JSON columns.
type PlatformStats struct {
	ID       string   `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID   string   `gorm:"type:uuid;not null;uniqueIndex:idx_stats_user_platform" json:"user_id"`
	Platform Platform `gorm:"not null;uniqueIndex:idx_stats_user_platform" json:"platform"`
	Handle   string   `gorm:"not null" json:"handle"`

	Rating   RatingStats   `gorm:"serializer:json" json:"rating"`
	Problems ProblemStats  `gorm:"serializer:json" json:"problems"`
	Contests ContestStats  `gorm:"serializer:json" json:"contests"`
	Activity ActivityStats `gorm:"serializer:json" json:"activity"`

	LastUpdated time.Time `json:"lastUpdated"`

	Timestamps
}

type RatingStats struct {
	Current int           `json:"current"`
	Max     int           `json:"max"`
	History []RatingPoint `json:"history,omitempty"`
}

type RatingPoint struct {
	Rating  int       `json:"rating"`
	Date    time.Time `json:"date"`
	Contest string    `json:"contest"`
}

type ProblemStats struct {
	Total        int                 `json:"total"`
	Solved       int                 `json:"solved"`
	Attempted    int                 `json:"attempted"`
	ByDifficulty DifficultyBreakdown `json:"byDifficulty"`
	ByTag        []TagCount          `json:"byTag,omitempty"`
}

type DifficultyBreakdown struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type ContestStats struct {
	Total int `json:"total"`
	// BestRank is the minimum rank across attended contests; 0 means the
	// user has no rated contests on record.
	BestRank int             `json:"bestRank,omitempty"`
	History  []ContestResult `json:"history,omitempty"`
}

type ContestResult struct {
	Name         string    `json:"name"`
	Rank         int       `json:"rank"`
	Rating       int       `json:"rating"`
	Date         time.Time `json:"date"`
	Participants int       `json:"participants"`
}

type ActivityStats struct {
	Submissions   []Submission    `json:"submissions,omitempty"`
	DailyActivity []DailyActivity `json:"dailyActivity,omitempty"`
}

type Submission struct {
	ProblemID   string    `json:"problemId"`
	ProblemName string    `json:"problemName"`
	Status      string    `json:"status"`
	Language    string    `json:"language"`
	Timestamp   time.Time `json:"timestamp"`
	Tags        []string  `json:"tags,omitempty"`
}

// DailyActivity is one calendar day's counters. Date is the DateLayout key;
// at most one entry exists per date within a record.
type DailyActivity struct {
	Date           string `json:"date"`
	ProblemsSolved int    `json:"problemsSolved"`
	Submissions    int    `json:"submissions"`
}

// MergeDailyActivity folds one day's counts into the record. If an entry for
// the calendar date already exists the counts accumulate; otherwise a new
// entry is appended. Counters never decrease through this path.
func (s *PlatformStats) MergeDailyActivity(date time.Time, problemsSolved, submissions int) {
	key := date.UTC().Format(DateLayout)
	for i := range s.Activity.DailyActivity {
		if s.Activity.DailyActivity[i].Date == key {
			s.Activity.DailyActivity[i].ProblemsSolved += problemsSolved
			s.Activity.DailyActivity[i].Submissions += submissions
			return
		}
	}
	s.Activity.DailyActivity = append(s.Activity.DailyActivity, DailyActivity{
		Date:           key,
		ProblemsSolved: problemsSolved,
		Submissions:    submissions,
	})
}
