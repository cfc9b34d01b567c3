package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLeetCodeClient_FetchUserStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var body struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("request body did not decode: %v", err)
		}
		if body.Variables["username"] != "alice" {
			t.Errorf("username variable = %v, want alice", body.Variables["username"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{
			"matchedUser":{
				"username":"alice",
				"profile":{"ranking":4242},
				"submitStats":{"acSubmissionNum":[{"difficulty":"Easy","count":10,"submissions":15}]},
				"submissionCalendar":"{\"1718928000\": 2}"
			},
			"recentSubmissionList":[
				{"title":"Two Sum","titleSlug":"two-sum","timestamp":"1718928000","statusDisplay":"Accepted","lang":"go"}
			]
		}}`))
	}))
	defer server.Close()

	client := &LeetCodeClient{BaseURL: server.URL, Client: server.Client()}
	payload, err := client.FetchUserStats(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payload.MatchedUser == nil || payload.MatchedUser.Profile.Ranking != 4242 {
		t.Errorf("unexpected matchedUser: %+v", payload.MatchedUser)
	}
	if len(payload.RecentSubmissionList) != 1 || payload.RecentSubmissionList[0].TitleSlug != "two-sum" {
		t.Errorf("unexpected recent submissions: %+v", payload.RecentSubmissionList)
	}
}

func TestLeetCodeClient_Non2xxIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := &LeetCodeClient{BaseURL: server.URL, Client: server.Client()}
	if _, err := client.FetchUserStats(context.Background(), "alice"); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestLeetCodeClient_MalformedBodyIsShapeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>definitely not json</html>`))
	}))
	defer server.Close()

	client := &LeetCodeClient{BaseURL: server.URL, Client: server.Client()}
	if _, err := client.FetchUserStats(context.Background(), "alice"); !errors.Is(err, ErrUpstreamShape) {
		t.Fatalf("expected ErrUpstreamShape, got %v", err)
	}
}

func TestLeetCodeClient_GraphQLErrorsAreShapeErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"query malformed"}]}`))
	}))
	defer server.Close()

	client := &LeetCodeClient{BaseURL: server.URL, Client: server.Client()}
	if _, err := client.FetchUserStats(context.Background(), "alice"); !errors.Is(err, ErrUpstreamShape) {
		t.Fatalf("expected ErrUpstreamShape, got %v", err)
	}
}

func TestLeetCodeClient_NetworkFailureIsUnavailable(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := &LeetCodeClient{BaseURL: url, Client: http.DefaultClient}
	if _, err := client.FetchUserStats(context.Background(), "alice"); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}
