package nexus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vivandoshi08/cheesycareApp/internal/platform/logging"
)

const snapshotPayload = `{
  "eventKey": "2025casj",
  "dataAsOfTime": 1740830000000,
  "nowQueuing": "Qualification 12",
  "matches": [
    {
      "label": "Qualification 12",
      "status": "Queuing",
      "redTeams": ["254", "1678", "973"],
      "blueTeams": ["118", "148", "2056"],
      "times": {
        "estimatedQueueTime": 1740830400000,
        "estimatedOnDeckTime": 1740830700000,
        "estimatedOnFieldTime": 1740831000000,
        "estimatedStartTime": 1740831300000
      }
    }
  ]
}`

func TestEventSnapshotDecodesLiveData(t *testing.T) {
	t.Parallel()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get(authHeader)
		if r.URL.Path != "/event/2025casj" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(snapshotPayload))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "live-key", Logger: logging.NewNop()})

	snapshot := client.EventSnapshot(context.Background(), "2025casj")
	if gotAuth != "live-key" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if snapshot.NowQueuing == nil || *snapshot.NowQueuing != "Qualification 12" {
		t.Fatalf("now queuing = %v", snapshot.NowQueuing)
	}
	if len(snapshot.Matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(snapshot.Matches))
	}
	if snapshot.Matches[0].Times.EstimatedStartTime != 1740831300000 {
		t.Fatalf("start time = %d", snapshot.Matches[0].Times.EstimatedStartTime)
	}
}

func TestEventSnapshotDegradesOnServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{BaseURL: server.URL, Logger: logging.NewNop()})
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return fixed }

	snapshot := client.EventSnapshot(context.Background(), "2025casj")
	if snapshot.EventKey != "2025casj" {
		t.Fatalf("event key = %q", snapshot.EventKey)
	}
	if snapshot.NowQueuing != nil || len(snapshot.Matches) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snapshot)
	}
	if snapshot.DataAsOfTime != fixed.UnixMilli() {
		t.Fatalf("data as of = %d, want %d", snapshot.DataAsOfTime, fixed.UnixMilli())
	}
}

func TestEventSnapshotDegradesOnConnectionFailure(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:1", Logger: logging.NewNop()})
	client.httpClient.Timeout = time.Second

	snapshot := client.EventSnapshot(context.Background(), "2025casj")
	if len(snapshot.Matches) != 0 || snapshot.NowQueuing != nil {
		t.Fatalf("expected empty snapshot, got %+v", snapshot)
	}
}

func TestEventSnapshotDegradesOnMalformedPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"matches": "nope"`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{BaseURL: server.URL, Logger: logging.NewNop()})

	snapshot := client.EventSnapshot(context.Background(), "2025casj")
	if len(snapshot.Matches) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snapshot)
	}
}
