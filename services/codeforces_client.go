package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"cp-mate-backend/utils"
)

const defaultCodeforcesURL = "https://codeforces.com/api"

// maxCodeforcesSubmissions caps the user.status page size, matching the
// upstream API's own limit for a single page.
const maxCodeforcesSubmissions = 1000

// CodeforcesClient talks to the Codeforces REST API. A user fetch is three
// independent calls that must all succeed; no retries here.
type CodeforcesClient struct {
	BaseURL string
	Client  *http.Client
}

func NewCodeforcesClient() *CodeforcesClient {
	return &CodeforcesClient{
		BaseURL: defaultCodeforcesURL,
		Client:  utils.HTTPClient,
	}
}

type CodeforcesUserInfo struct {
	Handle    string `json:"handle"`
	Rating    int    `json:"rating"`
	MaxRating int    `json:"maxRating"`
}

type CodeforcesRatingChange struct {
	ContestID               int    `json:"contestId"`
	ContestName             string `json:"contestName"`
	Handle                  string `json:"handle"`
	Rank                    int    `json:"rank"`
	RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds"`
	OldRating               int    `json:"oldRating"`
	NewRating               int    `json:"newRating"`
}

type CodeforcesProblem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Tags      []string `json:"tags"`
}

type CodeforcesParty struct {
	ParticipantType string `json:"participantType"`
}

type CodeforcesSubmission struct {
	ID                  int64             `json:"id"`
	ContestID           int               `json:"contestId"`
	CreationTimeSeconds int64             `json:"creationTimeSeconds"`
	Problem             CodeforcesProblem `json:"problem"`
	Author              CodeforcesParty   `json:"author"`
	ProgrammingLanguage string            `json:"programmingLanguage"`
	Verdict             string            `json:"verdict"`
}

type CodeforcesContest struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Phase            string `json:"phase"`
	StartTimeSeconds int64  `json:"startTimeSeconds"`
	DurationSeconds  int64  `json:"durationSeconds"`
}

// CodeforcesUserPayload bundles the three per-user responses. It only exists
// when all three calls succeeded.
type CodeforcesUserPayload struct {
	UserInfo      CodeforcesUserInfo
	RatingHistory []CodeforcesRatingChange
	Submissions   []CodeforcesSubmission
}

// FetchUserData issues user.info, user.rating and user.status concurrently.
// If any call fails the whole fetch fails; no partial payload is returned.
func (c *CodeforcesClient) FetchUserData(ctx context.Context, handle string) (*CodeforcesUserPayload, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error

		users       []CodeforcesUserInfo
		ratings     []CodeforcesRatingChange
		submissions []CodeforcesSubmission
	)

	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		if err := c.call(ctx, "user.info", url.Values{"handles": {handle}}, &users); err != nil {
			record(err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := c.call(ctx, "user.rating", url.Values{"handle": {handle}}, &ratings); err != nil {
			record(err)
		}
	}()
	go func() {
		defer wg.Done()
		params := url.Values{"handle": {handle}, "count": {fmt.Sprint(maxCodeforcesSubmissions)}}
		if err := c.call(ctx, "user.status", params, &submissions); err != nil {
			record(err)
		}
	}()
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: codeforces: empty user.info result", ErrUpstreamShape)
	}

	return &CodeforcesUserPayload{
		UserInfo:      users[0],
		RatingHistory: ratings,
		Submissions:   submissions,
	}, nil
}

// FetchContests returns the non-gym contest list.
func (c *CodeforcesClient) FetchContests(ctx context.Context) ([]CodeforcesContest, error) {
	var contests []CodeforcesContest
	if err := c.call(ctx, "contest.list", url.Values{"gym": {"false"}}, &contests); err != nil {
		return nil, err
	}
	return contests, nil
}

// call GETs one API method and decodes the result field of the standard
// {status, comment, result} envelope into out.
func (c *CodeforcesClient) call(ctx context.Context, method string, params url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/%s?%s", c.BaseURL, method, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build codeforces request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: codeforces %s: %v", ErrUpstreamUnavailable, method, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	// Codeforces reports handle errors as 400 with a FAILED envelope, so
	// decode the body before judging the status code.
	var envelope struct {
		Status  string          `json:"status"`
		Comment string          `json:"comment"`
		Result  json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: codeforces %s returned %d", ErrUpstreamUnavailable, method, resp.StatusCode)
		}
		return fmt.Errorf("%w: codeforces %s: %v", ErrUpstreamShape, method, err)
	}

	if envelope.Status != "OK" {
		if strings.Contains(strings.ToLower(envelope.Comment), "not found") {
			return fmt.Errorf("%w: codeforces: %s", ErrPlatformUserNotFound, envelope.Comment)
		}
		return fmt.Errorf("%w: codeforces %s: %s", ErrUpstreamUnavailable, method, envelope.Comment)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: codeforces %s returned %d", ErrUpstreamUnavailable, method, resp.StatusCode)
	}

	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("%w: codeforces %s: %v", ErrUpstreamShape, method, err)
	}
	return nil
}
