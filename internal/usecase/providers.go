package usecase

import (
	"context"

	"github.com/vivandoshi08/cheesycareApp/internal/domain/match"
)

// BracketProvider is the authoritative bracket/results feed. Its failures
// propagate: without bracket data an event cannot be reconciled.
type BracketProvider interface {
	EventMatches(ctx context.Context, eventKey string) ([]match.BracketMatch, error)
	EventTeamKeys(ctx context.Context, eventKey string) ([]string, error)
	TeamEventsForYear(ctx context.Context, teamKey string, year int) ([]EventSummary, error)
}

// LiveProvider is the live queuing feed. It degrades instead of failing:
// when the feed is unreachable it returns an empty snapshot so that
// reconciliation can continue on bracket data alone.
type LiveProvider interface {
	EventSnapshot(ctx context.Context, eventKey string) match.LiveSnapshot
}

// EventSummary is one event from the bracket feed's per-team event list.
// Dates are calendar days in ISO form (2006-01-02).
type EventSummary struct {
	Key       string
	Name      string
	StartDate string
	EndDate   string
	Year      int
}
