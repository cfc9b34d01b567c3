package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"cp-mate-backend/utils"
)

const defaultLeetCodeURL = "https://leetcode.com/graphql"

// leetCodeUserQuery fetches profile, accepted counts by difficulty, the
// submission calendar and the 50 most recent submissions in one round trip.
const leetCodeUserQuery = `
  query getUserProfile($username: String!) {
    matchedUser(username: $username) {
      username
      profile {
        ranking
      }
      submitStats {
        acSubmissionNum {
          difficulty
          count
          submissions
        }
      }
      submissionCalendar
    }
    recentSubmissionList(username: $username, limit: 50) {
      title
      titleSlug
      timestamp
      statusDisplay
      lang
    }
  }
`

const leetCodeAllContestsQuery = `
  query {
    allContests {
      title
      titleSlug
      startTime
      duration
      isVirtual
    }
  }
`

const leetCodeContestCalendarQuery = `
  query {
    contestCalendar {
      contests {
        title
        titleSlug
        startTime
        duration
      }
    }
  }
`

const leetCodeContestRankingQuery = `
  query userContestRankingInfo($username: String!) {
    userContestRanking(username: $username) {
      attendedContestsCount
      rating
      globalRanking
      totalParticipants
      topPercentage
    }
    userContestRankingHistory(username: $username) {
      contest {
        title
        startTime
      }
      rating
      ranking
      trendDirection
    }
  }
`

// LeetCodeClient issues GraphQL queries against the LeetCode public API.
// No retries here; upstream failures surface to the caller.
type LeetCodeClient struct {
	BaseURL string
	Client  *http.Client
}

func NewLeetCodeClient() *LeetCodeClient {
	return &LeetCodeClient{
		BaseURL: defaultLeetCodeURL,
		Client:  utils.HTTPClient,
	}
}

// LeetCodeUserPayload is the raw combined-query response for one user.
type LeetCodeUserPayload struct {
	MatchedUser          *LeetCodeMatchedUser       `json:"matchedUser"`
	RecentSubmissionList []LeetCodeRecentSubmission `json:"recentSubmissionList"`
}

type LeetCodeMatchedUser struct {
	Username string `json:"username"`
	Profile  struct {
		Ranking int `json:"ranking"`
	} `json:"profile"`
	SubmitStats struct {
		ACSubmissionNum []LeetCodeSubmissionCount `json:"acSubmissionNum"`
	} `json:"submitStats"`
	// SubmissionCalendar is a JSON string mapping epoch-second day keys to
	// submission counts, exactly as the API returns it.
	SubmissionCalendar string `json:"submissionCalendar"`
}

type LeetCodeSubmissionCount struct {
	Difficulty  string `json:"difficulty"`
	Count       int    `json:"count"`
	Submissions int    `json:"submissions"`
}

type LeetCodeRecentSubmission struct {
	Title         string `json:"title"`
	TitleSlug     string `json:"titleSlug"`
	Timestamp     string `json:"timestamp"`
	StatusDisplay string `json:"statusDisplay"`
	Lang          string `json:"lang"`
}

type LeetCodeContest struct {
	Title     string  `json:"title"`
	TitleSlug string  `json:"titleSlug"`
	StartTime int64   `json:"startTime"`
	Duration  float64 `json:"duration"` // seconds
	IsVirtual bool    `json:"isVirtual"`
}

type LeetCodeContestRanking struct {
	AttendedContestsCount int     `json:"attendedContestsCount"`
	Rating                float64 `json:"rating"`
	GlobalRanking         int     `json:"globalRanking"`
	TotalParticipants     int     `json:"totalParticipants"`
	TopPercentage         float64 `json:"topPercentage"`
}

type LeetCodeContestHistoryEntry struct {
	Contest struct {
		Title     string `json:"title"`
		StartTime int64  `json:"startTime"`
	} `json:"contest"`
	Rating         float64 `json:"rating"`
	Ranking        int     `json:"ranking"`
	TrendDirection string  `json:"trendDirection"`
}

type LeetCodeContestRankingPayload struct {
	UserContestRanking        *LeetCodeContestRanking       `json:"userContestRanking"`
	UserContestRankingHistory []LeetCodeContestHistoryEntry `json:"userContestRankingHistory"`
}

// FetchUserStats runs the combined profile query for one handle.
func (c *LeetCodeClient) FetchUserStats(ctx context.Context, username string) (*LeetCodeUserPayload, error) {
	var payload LeetCodeUserPayload
	if err := c.query(ctx, leetCodeUserQuery, map[string]any{"username": username}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchAllContests returns the full contest list (upcoming and past).
func (c *LeetCodeClient) FetchAllContests(ctx context.Context) ([]LeetCodeContest, error) {
	var payload struct {
		AllContests []LeetCodeContest `json:"allContests"`
	}
	if err := c.query(ctx, leetCodeAllContestsQuery, nil, &payload); err != nil {
		return nil, err
	}
	return payload.AllContests, nil
}

// FetchContestCalendar returns the contest calendar used for rating
// timelines.
func (c *LeetCodeClient) FetchContestCalendar(ctx context.Context) ([]LeetCodeContest, error) {
	var payload struct {
		ContestCalendar struct {
			Contests []LeetCodeContest `json:"contests"`
		} `json:"contestCalendar"`
	}
	if err := c.query(ctx, leetCodeContestCalendarQuery, nil, &payload); err != nil {
		return nil, err
	}
	return payload.ContestCalendar.Contests, nil
}

// FetchContestRanking returns contest ranking info and per-contest history
// for one handle.
func (c *LeetCodeClient) FetchContestRanking(ctx context.Context, username string) (*LeetCodeContestRankingPayload, error) {
	var payload LeetCodeContestRankingPayload
	if err := c.query(ctx, leetCodeContestRankingQuery, map[string]any{"username": username}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// query posts one GraphQL document and decodes response.data into out.
func (c *LeetCodeClient) query(ctx context.Context, query string, variables map[string]any, out any) error {
	reqBody := map[string]any{"query": query}
	if len(variables) > 0 {
		reqBody["variables"] = variables
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal leetcode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("build leetcode request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", "https://leetcode.com")
	req.Header.Set("Origin", "https://leetcode.com")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: leetcode: %v", ErrUpstreamUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: leetcode returned %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: leetcode: %v", ErrUpstreamShape, err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("%w: leetcode: %s", ErrUpstreamShape, envelope.Errors[0].Message)
	}
	if len(envelope.Data) == 0 {
		return fmt.Errorf("%w: leetcode: empty data", ErrUpstreamShape)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: leetcode: %v", ErrUpstreamShape, err)
	}
	return nil
}
