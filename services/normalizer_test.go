package services

import (
	"errors"
	"testing"
	"time"

	"cp-mate-backend/models"
)

func leetCodePayload(calendar string, counts []LeetCodeSubmissionCount) *LeetCodeUserPayload {
	user := &LeetCodeMatchedUser{
		Username:           "alice",
		SubmissionCalendar: calendar,
	}
	user.Profile.Ranking = 12345
	user.SubmitStats.ACSubmissionNum = counts
	return &LeetCodeUserPayload{MatchedUser: user}
}

func TestNormalizeLeetCode_MissingUser(t *testing.T) {
	_, err := NormalizeLeetCode("ghost", &LeetCodeUserPayload{})
	if !errors.Is(err, ErrPlatformUserNotFound) {
		t.Fatalf("expected ErrPlatformUserNotFound, got %v", err)
	}

	_, err = NormalizeLeetCode("ghost", nil)
	if !errors.Is(err, ErrPlatformUserNotFound) {
		t.Fatalf("expected ErrPlatformUserNotFound for nil payload, got %v", err)
	}
}

func TestNormalizeLeetCode_DifficultyDefaults(t *testing.T) {
	// No "Hard" entry: the missing label must default to zero, and the
	// total is the sum of the present accepted counts.
	payload := leetCodePayload("", []LeetCodeSubmissionCount{
		{Difficulty: "Easy", Count: 50},
		{Difficulty: "Medium", Count: 30},
	})

	stats, err := NormalizeLeetCode("alice", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := stats.Problems.ByDifficulty; got != (models.DifficultyBreakdown{Easy: 50, Medium: 30, Hard: 0}) {
		t.Errorf("byDifficulty = %+v, want {50 30 0}", got)
	}
	if stats.Problems.Total != 80 || stats.Problems.Solved != 80 || stats.Problems.Attempted != 80 {
		t.Errorf("total/solved/attempted = %d/%d/%d, want 80/80/80",
			stats.Problems.Total, stats.Problems.Solved, stats.Problems.Attempted)
	}
	if stats.Rating.Current != 12345 || stats.Rating.Max != 12345 {
		t.Errorf("rating = %d/%d, want ranking 12345 for both", stats.Rating.Current, stats.Rating.Max)
	}
}

func TestNormalizeLeetCode_SkipsAggregateRows(t *testing.T) {
	payload := leetCodePayload("", []LeetCodeSubmissionCount{
		{Difficulty: "All", Count: 80},
		{Difficulty: "Easy", Count: 50},
		{Difficulty: "Medium", Count: 30},
	})

	stats, err := NormalizeLeetCode("alice", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Problems.Total != 80 {
		t.Errorf("total = %d, want 80 (aggregate row must not double-count)", stats.Problems.Total)
	}
}

func TestNormalizeLeetCode_SubmissionCalendar(t *testing.T) {
	// 1718928000 = 2024-06-21 00:00 UTC, 1719014400 = 2024-06-22.
	payload := leetCodePayload(`{"1718928000": 3, "1719014400": 1}`, nil)

	stats, err := NormalizeLeetCode("alice", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	daily := stats.Activity.DailyActivity
	if len(daily) != 2 {
		t.Fatalf("daily entries = %d, want 2", len(daily))
	}
	want := []models.DailyActivity{
		{Date: "2024-06-21", ProblemsSolved: 3, Submissions: 3},
		{Date: "2024-06-22", ProblemsSolved: 1, Submissions: 1},
	}
	for i, entry := range want {
		if daily[i] != entry {
			t.Errorf("daily[%d] = %+v, want %+v", i, daily[i], entry)
		}
	}
}

func TestNormalizeLeetCode_MalformedCalendar(t *testing.T) {
	payload := leetCodePayload(`{not json`, nil)
	if _, err := NormalizeLeetCode("alice", payload); !errors.Is(err, ErrUpstreamShape) {
		t.Fatalf("expected ErrUpstreamShape, got %v", err)
	}
}

func TestNormalizeLeetCode_RecentSubmissions(t *testing.T) {
	payload := leetCodePayload("", nil)
	payload.RecentSubmissionList = []LeetCodeRecentSubmission{
		{Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1718928000", StatusDisplay: "Accepted", Lang: "go"},
	}

	stats, err := NormalizeLeetCode("alice", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats.Activity.Submissions) != 1 {
		t.Fatalf("submissions = %d, want 1", len(stats.Activity.Submissions))
	}
	sub := stats.Activity.Submissions[0]
	if sub.ProblemID != "two-sum" || sub.ProblemName != "Two Sum" || sub.Status != "Accepted" || sub.Language != "go" {
		t.Errorf("unexpected submission mapping: %+v", sub)
	}
	if !sub.Timestamp.Equal(time.Unix(1718928000, 0).UTC()) {
		t.Errorf("timestamp = %v, want %v", sub.Timestamp, time.Unix(1718928000, 0).UTC())
	}
	if len(sub.Tags) != 0 {
		t.Errorf("leetcode recent submissions carry no tags, got %v", sub.Tags)
	}
}

func cfSubmission(contestID int, index, verdict, participantType string, creation int64, tags ...string) CodeforcesSubmission {
	return CodeforcesSubmission{
		ContestID:           contestID,
		CreationTimeSeconds: creation,
		Problem: CodeforcesProblem{
			ContestID: contestID,
			Index:     index,
			Name:      "Problem " + index,
			Tags:      tags,
		},
		Author:              CodeforcesParty{ParticipantType: participantType},
		ProgrammingLanguage: "GNU C++17",
		Verdict:             verdict,
	}
}

func TestNormalizeCodeforces_UniqueSolvedDedup(t *testing.T) {
	// Two OK verdicts for the same (contestId, index) by a CONTESTANT
	// must contribute a single solved problem.
	payload := &CodeforcesUserPayload{
		UserInfo: CodeforcesUserInfo{Handle: "bob", Rating: 1500, MaxRating: 1600},
		Submissions: []CodeforcesSubmission{
			cfSubmission(1800, "A", "OK", "CONTESTANT", 1718928000),
			cfSubmission(1800, "A", "OK", "CONTESTANT", 1718929000),
		},
	}

	stats, err := NormalizeCodeforces("bob", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Problems.Solved != 1 {
		t.Errorf("solved = %d, want 1 (distinct pair cardinality)", stats.Problems.Solved)
	}
	if stats.Problems.Total != 2 || stats.Problems.Attempted != 2 {
		t.Errorf("total/attempted = %d/%d, want 2/2 (raw submission counts)",
			stats.Problems.Total, stats.Problems.Attempted)
	}
}

func TestNormalizeCodeforces_SolvedRestrictions(t *testing.T) {
	tests := []struct {
		name string
		sub  CodeforcesSubmission
		want int
	}{
		{"official contestant OK", cfSubmission(1800, "A", "OK", "CONTESTANT", 1718928000), 1},
		{"wrong answer", cfSubmission(1800, "B", "WRONG_ANSWER", "CONTESTANT", 1718928000), 0},
		{"gym contest id", cfSubmission(100500, "A", "OK", "CONTESTANT", 1718928000), 0},
		{"virtual participant", cfSubmission(1800, "C", "OK", "VIRTUAL", 1718928000), 0},
		{"practice participant", cfSubmission(1800, "D", "OK", "PRACTICE", 1718928000), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := &CodeforcesUserPayload{Submissions: []CodeforcesSubmission{tc.sub}}
			stats, err := NormalizeCodeforces("bob", payload)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stats.Problems.Solved != tc.want {
				t.Errorf("solved = %d, want %d", stats.Problems.Solved, tc.want)
			}
		})
	}
}

func TestNormalizeCodeforces_TagCounts(t *testing.T) {
	payload := &CodeforcesUserPayload{
		Submissions: []CodeforcesSubmission{
			cfSubmission(1800, "A", "OK", "CONTESTANT", 1718928000, "dp", "greedy"),
			cfSubmission(1801, "B", "OK", "CONTESTANT", 1718929000, "dp"),
			// Non-OK submissions contribute no tags.
			cfSubmission(1802, "C", "WRONG_ANSWER", "CONTESTANT", 1718930000, "math"),
		},
	}

	stats, err := NormalizeCodeforces("bob", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []models.TagCount{{Tag: "dp", Count: 2}, {Tag: "greedy", Count: 1}}
	if len(stats.Problems.ByTag) != len(want) {
		t.Fatalf("byTag = %+v, want %+v", stats.Problems.ByTag, want)
	}
	for i := range want {
		if stats.Problems.ByTag[i] != want[i] {
			t.Errorf("byTag[%d] = %+v, want %+v", i, stats.Problems.ByTag[i], want[i])
		}
	}
}

func TestNormalizeCodeforces_DailyActivity(t *testing.T) {
	day1 := time.Date(2024, 6, 21, 10, 0, 0, 0, time.UTC).Unix()
	day1Later := time.Date(2024, 6, 21, 18, 0, 0, 0, time.UTC).Unix()
	day2 := time.Date(2024, 6, 22, 9, 0, 0, 0, time.UTC).Unix()

	payload := &CodeforcesUserPayload{
		Submissions: []CodeforcesSubmission{
			cfSubmission(1800, "A", "OK", "CONTESTANT", day1),
			cfSubmission(1800, "A", "OK", "CONTESTANT", day1Later), // same problem solved twice that day counts twice
			cfSubmission(1800, "B", "WRONG_ANSWER", "CONTESTANT", day1),
			cfSubmission(1801, "A", "OK", "CONTESTANT", day2),
		},
	}

	stats, err := NormalizeCodeforces("bob", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []models.DailyActivity{
		{Date: "2024-06-21", ProblemsSolved: 2, Submissions: 3},
		{Date: "2024-06-22", ProblemsSolved: 1, Submissions: 1},
	}
	if len(stats.Activity.DailyActivity) != len(want) {
		t.Fatalf("daily = %+v, want %+v", stats.Activity.DailyActivity, want)
	}
	for i := range want {
		if stats.Activity.DailyActivity[i] != want[i] {
			t.Errorf("daily[%d] = %+v, want %+v", i, stats.Activity.DailyActivity[i], want[i])
		}
	}
}

func TestNormalizeCodeforces_RatingAndContests(t *testing.T) {
	payload := &CodeforcesUserPayload{
		UserInfo: CodeforcesUserInfo{Handle: "bob", Rating: 1742, MaxRating: 1803},
		RatingHistory: []CodeforcesRatingChange{
			{ContestName: "Round 900", Rank: 512, RatingUpdateTimeSeconds: 1700000000, NewRating: 1650},
			{ContestName: "Round 901", Rank: 230, RatingUpdateTimeSeconds: 1701000000, NewRating: 1742},
		},
	}

	stats, err := NormalizeCodeforces("bob", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Rating.Current != 1742 || stats.Rating.Max != 1803 {
		t.Errorf("rating = %d/%d, want 1742/1803", stats.Rating.Current, stats.Rating.Max)
	}
	if len(stats.Rating.History) != 2 || stats.Rating.History[1].Rating != 1742 {
		t.Errorf("rating history = %+v", stats.Rating.History)
	}
	if stats.Contests.Total != 2 {
		t.Errorf("contests.total = %d, want 2", stats.Contests.Total)
	}
	if stats.Contests.BestRank != 230 {
		t.Errorf("bestRank = %d, want 230", stats.Contests.BestRank)
	}
}

func TestNormalizeCodeforces_NoContests(t *testing.T) {
	stats, err := NormalizeCodeforces("bob", &CodeforcesUserPayload{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Contests.BestRank != 0 {
		t.Errorf("bestRank = %d, want 0 when no contests attended", stats.Contests.BestRank)
	}
	if stats.Rating.Current != 0 || stats.Rating.Max != 0 {
		t.Errorf("rating defaults = %d/%d, want 0/0", stats.Rating.Current, stats.Rating.Max)
	}
}
