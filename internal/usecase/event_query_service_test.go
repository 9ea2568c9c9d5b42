package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/vivandoshi08/cheesycareApp/internal/domain/event"
	"github.com/vivandoshi08/cheesycareApp/internal/domain/match"
	"github.com/vivandoshi08/cheesycareApp/internal/domain/team"
	"github.com/vivandoshi08/cheesycareApp/internal/infrastructure/repository/memory"
)

func TestActiveEventsFormatsQualLabel(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	repo := memory.NewEventRepository([]event.Event{
		{Key: "2025casj", Name: "Silicon Valley", CurrentQualMatch: strPtr("42"), LastUpdated: now.Add(-time.Hour)},
		{Key: "2024old", Name: "Last Season", LastUpdated: now.Add(-48 * time.Hour)},
	})

	svc := NewEventQueryService(repo, memory.NewTeamRepository(nil))
	svc.now = func() time.Time { return now }

	events, err := svc.ActiveEvents(context.Background())
	if err != nil {
		t.Fatalf("ActiveEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 active event, got %d", len(events))
	}
	if events[0].Key != "2025casj" {
		t.Fatalf("key = %s", events[0].Key)
	}
	if events[0].CurrentQualMatch != "Qualification 42" {
		t.Fatalf("current qual = %q, want Qualification 42", events[0].CurrentQualMatch)
	}
}

func TestEventMatchesDecodesStoredSnapshot(t *testing.T) {
	snapshot := match.LiveSnapshot{
		EventKey: "2025casj",
		Matches: []match.LiveMatch{{
			Label:     "Qualification 7",
			Status:    "Queuing",
			RedTeams:  []string{"254", "1678", "973"},
			BlueTeams: []string{"118", "148", "2056"},
			Times:     match.LiveMatchTimes{EstimatedQueueTime: 1740830400000, EstimatedStartTime: 1740831300000},
		}},
	}
	payload, err := sonic.Marshal(snapshot)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}

	repo := memory.NewEventRepository([]event.Event{
		{Key: "2025casj", LiveSnapshot: payload, LastUpdated: time.Now()},
	})
	svc := NewEventQueryService(repo, memory.NewTeamRepository(nil))

	matches, err := svc.EventMatches(context.Background(), "2025casj")
	if err != nil {
		t.Fatalf("EventMatches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Label != "Qualification 7" || matches[0].Status != "Queuing" {
		t.Fatalf("unexpected match %+v", matches[0])
	}
	if matches[0].QueueAt == nil || *matches[0].QueueAt != 1740830400000 {
		t.Fatalf("queue_at = %v", matches[0].QueueAt)
	}
}

func TestEventMatchesErrors(t *testing.T) {
	svc := NewEventQueryService(memory.NewEventRepository(nil), memory.NewTeamRepository(nil))

	if _, err := svc.EventMatches(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty key: got %v, want ErrInvalidInput", err)
	}
	if _, err := svc.EventMatches(context.Background(), "2025nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing event: got %v, want ErrNotFound", err)
	}
}

func TestTeamsWithUpcomingMatchesOrdersByTime(t *testing.T) {
	early := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	repo := memory.NewTeamRepository([]team.Team{
		{Number: "1678", NextMatch: strPtr("qm9"), NextMatchTime: &late, EventKey: strPtr("2025casj")},
		{Number: "254", NextMatch: strPtr("sf1m2"), NextMatchTime: &early, EventKey: strPtr("2025casj")},
		{Number: "118"},
	})
	svc := NewEventQueryService(memory.NewEventRepository(nil), repo)

	teams, err := svc.TeamsWithUpcomingMatches(context.Background())
	if err != nil {
		t.Fatalf("TeamsWithUpcomingMatches: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(teams))
	}
	if teams[0].Number != "254" || teams[1].Number != "1678" {
		t.Fatalf("unexpected order: %s, %s", teams[0].Number, teams[1].Number)
	}
	if teams[0].NextMatchLabel != "Semifinal 1-2" {
		t.Fatalf("label = %q, want Semifinal 1-2", teams[0].NextMatchLabel)
	}
}
