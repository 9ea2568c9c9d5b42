package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/vivandoshi08/cheesycareApp/internal/domain/event"
	"github.com/vivandoshi08/cheesycareApp/internal/domain/match"
	"github.com/vivandoshi08/cheesycareApp/internal/domain/team"
)

// activeEventWindow bounds how stale an event record may be and still count
// as active for the read surface.
const activeEventWindow = 24 * time.Hour

type ActiveEvent struct {
	Key              string    `json:"key"`
	Name             string    `json:"name"`
	CurrentQualMatch string    `json:"current_qual_match,omitempty"`
	LastUpdated      time.Time `json:"last_updated"`
}

type EventMatch struct {
	Label     string   `json:"label"`
	Status    string   `json:"status"`
	RedTeams  []string `json:"red_teams"`
	BlueTeams []string `json:"blue_teams"`
	QueueAt   *int64   `json:"queue_at,omitempty"`
	StartAt   *int64   `json:"start_at,omitempty"`
}

type UpcomingTeam struct {
	Number             string     `json:"number"`
	Name               string     `json:"name,omitempty"`
	EventKey           string     `json:"event_key,omitempty"`
	NextMatch          string     `json:"next_match,omitempty"`
	NextMatchLabel     string     `json:"next_match_label,omitempty"`
	NextMatchTime      *time.Time `json:"next_match_time,omitempty"`
	EstimatedQueueTime *time.Time `json:"estimated_queue_time,omitempty"`
}

// EventQueryService serves the read side of the match schedule: active
// events, their live match lists, and teams with upcoming matches.
type EventQueryService struct {
	events event.Repository
	teams  team.Repository
	now    func() time.Time
}

func NewEventQueryService(eventRepo event.Repository, teamRepo team.Repository) *EventQueryService {
	return &EventQueryService{
		events: eventRepo,
		teams:  teamRepo,
		now:    time.Now,
	}
}

// ActiveEvents lists events reconciled within the active window, newest
// first. The current qual match is expanded to its display label.
func (s *EventQueryService) ActiveEvents(ctx context.Context) ([]ActiveEvent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventQueryService.ActiveEvents")
	defer span.End()

	records, err := s.events.ListUpdatedSince(ctx, s.now().Add(-activeEventWindow))
	if err != nil {
		return nil, fmt.Errorf("list active events: %w", err)
	}

	out := make([]ActiveEvent, 0, len(records))
	for _, record := range records {
		item := ActiveEvent{
			Key:         record.Key,
			Name:        record.Name,
			LastUpdated: record.LastUpdated,
		}
		if record.CurrentQualMatch != nil {
			item.CurrentQualMatch = match.FormatLabel("qm" + *record.CurrentQualMatch)
		}
		out = append(out, item)
	}
	return out, nil
}

// EventMatches decodes the stored live snapshot for an event into its match
// list.
func (s *EventQueryService) EventMatches(ctx context.Context, eventKey string) ([]EventMatch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventQueryService.EventMatches")
	defer span.End()

	if eventKey == "" {
		return nil, fmt.Errorf("%w: event key is required", ErrInvalidInput)
	}

	record, found, err := s.events.GetByKey(ctx, eventKey)
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", eventKey, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: event %s", ErrNotFound, eventKey)
	}

	var snapshot match.LiveSnapshot
	if len(record.LiveSnapshot) > 0 {
		if err := sonic.Unmarshal(record.LiveSnapshot, &snapshot); err != nil {
			return nil, fmt.Errorf("decode live snapshot for %s: %w", eventKey, err)
		}
	}

	out := make([]EventMatch, 0, len(snapshot.Matches))
	for _, m := range snapshot.Matches {
		item := EventMatch{
			Label:     m.Label,
			Status:    m.Status,
			RedTeams:  m.RedTeams,
			BlueTeams: m.BlueTeams,
		}
		if m.Times.EstimatedQueueTime > 0 {
			queueAt := m.Times.EstimatedQueueTime
			item.QueueAt = &queueAt
		}
		if m.Times.EstimatedStartTime > 0 {
			startAt := m.Times.EstimatedStartTime
			item.StartAt = &startAt
		}
		out = append(out, item)
	}
	return out, nil
}

// TeamsWithUpcomingMatches lists teams ordered by next match time, with
// display labels expanded.
func (s *EventQueryService) TeamsWithUpcomingMatches(ctx context.Context) ([]UpcomingTeam, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventQueryService.TeamsWithUpcomingMatches")
	defer span.End()

	teams, err := s.teams.ListWithUpcomingMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams with upcoming matches: %w", err)
	}

	out := make([]UpcomingTeam, 0, len(teams))
	for _, t := range teams {
		item := UpcomingTeam{
			Number:             t.Number,
			Name:               t.Name,
			NextMatchTime:      t.NextMatchTime,
			EstimatedQueueTime: t.EstimatedQueueTime,
		}
		if t.EventKey != nil {
			item.EventKey = *t.EventKey
		}
		if t.NextMatch != nil {
			item.NextMatch = *t.NextMatch
			item.NextMatchLabel = match.FormatLabel(*t.NextMatch)
		}
		out = append(out, item)
	}
	return out, nil
}
