package tba

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vivandoshi08/cheesycareApp/internal/platform/logging"
	"github.com/vivandoshi08/cheesycareApp/internal/platform/resilience"
	"github.com/vivandoshi08/cheesycareApp/internal/usecase"
)

const matchesPayload = `[
  {
    "key": "2025casj_qm2",
    "comp_level": "qm",
    "set_number": 1,
    "match_number": 2,
    "event_key": "2025casj",
    "predicted_time": 1740832200,
    "alliances": {
      "red": {"team_keys": ["frc254", "frc1678", "frc973"], "score": -1},
      "blue": {"team_keys": ["frc118", "frc148", "frc2056"], "score": -1}
    }
  },
  {
    "key": "2025casj_qm1",
    "comp_level": "qm",
    "set_number": 1,
    "match_number": 1,
    "event_key": "2025casj",
    "alliances": {
      "red": {"team_keys": ["frc254", "frc1678", "frc973"], "score": 45},
      "blue": {"team_keys": ["frc118", "frc148", "frc2056"], "score": 12}
    }
  }
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Logger:  logging.NewNop(),
	})
}

func TestEventMatchesDecodesBracket(t *testing.T) {
	t.Parallel()

	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get(authHeader)
		if r.URL.Path != "/event/2025casj/matches" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(matchesPayload))
	})

	matches, err := client.EventMatches(context.Background(), "2025casj")
	if err != nil {
		t.Fatalf("EventMatches: %v", err)
	}
	if gotAuth != "test-key" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	unplayed := matches[0]
	if unplayed.RedScore != nil || unplayed.BlueScore != nil {
		t.Fatalf("negative scores must normalize to nil: %+v", unplayed)
	}
	if !unplayed.Upcoming() {
		t.Fatalf("expected qm2 to be upcoming")
	}
	if unplayed.PredictedTime == nil || *unplayed.PredictedTime != 1740832200 {
		t.Fatalf("predicted time = %v", unplayed.PredictedTime)
	}

	played := matches[1]
	if !played.Played() {
		t.Fatalf("expected qm1 to be played")
	}
	if played.RedScore == nil || *played.RedScore != 45 {
		t.Fatalf("red score = %v", played.RedScore)
	}
}

func TestEventTeamKeysFetchesRoster(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/event/2025casj/teams/keys" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`["frc118", "frc254", "frc999"]`))
	})

	keys, err := client.EventTeamKeys(context.Background(), "2025casj")
	if err != nil {
		t.Fatalf("EventTeamKeys: %v", err)
	}
	if len(keys) != 3 || keys[2] != "frc999" {
		t.Fatalf("keys = %v, want the full roster", keys)
	}

	if _, err := client.EventTeamKeys(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty event key")
	}
}

func TestEventMatchesPropagatesFailure(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not authorized", http.StatusUnauthorized)
	})

	if _, err := client.EventMatches(context.Background(), "2025casj"); err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
}

func TestEventMatchesRetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "temporary", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		MaxRetries: 1,
		Logger:     logging.NewNop(),
	})

	if _, err := client.EventMatches(context.Background(), "2025casj"); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestCircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Logger:  logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 2; i++ {
		if _, err := client.EventMatches(context.Background(), "2025casj"); err == nil {
			t.Fatalf("expected failure on attempt %d", i+1)
		}
	}

	_, err := client.EventMatches(context.Background(), "2025casj")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected circuit rejection, got %v", err)
	}
}

func TestEventMatchesRedactsAPIKey(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{
		BaseURL: "http://127.0.0.1:1",
		APIKey:  "super-secret-key",
		Logger:  logging.NewNop(),
	})
	client.httpClient.Timeout = time.Second

	_, err := client.EventMatches(context.Background(), "2025casj")
	if err == nil {
		t.Fatalf("expected connection failure")
	}
	if strings.Contains(err.Error(), "super-secret-key") {
		t.Fatalf("error leaks the api key: %v", err)
	}
}

func TestTeamEventsForYearCachesResponses(t *testing.T) {
	t.Parallel()

	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/team/frc254/events/2025" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`[{"key":"2025casj","name":"Silicon Valley","start_date":"2025-02-27","end_date":"2025-03-02","year":2025}]`))
	})

	for i := 0; i < 3; i++ {
		events, err := client.TeamEventsForYear(context.Background(), "frc254", 2025)
		if err != nil {
			t.Fatalf("TeamEventsForYear: %v", err)
		}
		if len(events) != 1 || events[0].Key != "2025casj" {
			t.Fatalf("unexpected events %+v", events)
		}
		if events[0].StartDate != "2025-02-27" || events[0].EndDate != "2025-03-02" {
			t.Fatalf("unexpected dates %+v", events[0])
		}
	}

	if calls != 1 {
		t.Fatalf("calls = %d, want cached single fetch", calls)
	}
}
