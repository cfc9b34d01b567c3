package services

import "testing"

func TestShortContestTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Weekly Contest 455", "W455"},
		{"Biweekly Contest 124", "B124"},
		{"Special Anniversary Round", "Special Anniversary Round"},
		{"Cup Finals 2026", "Cup Finals 2026"},
	}
	for _, tc := range tests {
		if got := shortContestTitle(tc.title); got != tc.want {
			t.Errorf("shortContestTitle(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func historyEntry(title string, start int64, rating float64, ranking int) LeetCodeContestHistoryEntry {
	var entry LeetCodeContestHistoryEntry
	entry.Contest.Title = title
	entry.Contest.StartTime = start
	entry.Rating = rating
	entry.Ranking = ranking
	return entry
}

func TestBuildRatingTimeline(t *testing.T) {
	calendar := []LeetCodeContest{
		{Title: "Weekly Contest 100", StartTime: 100},
		{Title: "Weekly Contest 101", StartTime: 200},
		{Title: "Biweekly Contest 50", StartTime: 300},
		{Title: "Weekly Contest 102", StartTime: 400},
		{Title: "Weekly Contest 103", StartTime: 500}, // after last participation
	}
	history := []LeetCodeContestHistoryEntry{
		historyEntry("Weekly Contest 100", 100, 1500, 2000),
		historyEntry("Weekly Contest 102", 400, 1550, 1800),
	}

	timeline := buildRatingTimeline(calendar, history)

	// Bounded by first and last attended contests: 100..400 inclusive.
	if len(timeline) != 4 {
		t.Fatalf("timeline = %d points, want 4", len(timeline))
	}
	if !timeline[0].Participated || timeline[0].Rating == nil || *timeline[0].Rating != 1500 {
		t.Errorf("first point = %+v, want participated at 1500", timeline[0])
	}
	if timeline[1].Participated || timeline[1].Rating != nil {
		t.Errorf("skipped contest must have nil rating: %+v", timeline[1])
	}
	if timeline[2].ShortTitle != "B50" {
		t.Errorf("shortTitle = %q, want B50", timeline[2].ShortTitle)
	}
	if !timeline[3].Participated || timeline[3].Ranking == nil || *timeline[3].Ranking != 1800 {
		t.Errorf("last point = %+v, want participated with ranking 1800", timeline[3])
	}
}

func TestBuildRatingTimeline_NoHistory(t *testing.T) {
	timeline := buildRatingTimeline([]LeetCodeContest{{Title: "Weekly Contest 1", StartTime: 1}}, nil)
	if len(timeline) != 0 {
		t.Errorf("timeline = %d points, want 0 for empty history", len(timeline))
	}
}
