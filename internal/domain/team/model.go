package team

import (
	"fmt"
	"time"
)

// Team is an FRC team tracked by the app, including its current match
// schedule projection. The projection fields are nil for teams not at an
// active event.
type Team struct {
	Number             string
	Name               string
	EventKey           *string
	CurrentMatch       *string
	NextMatch          *string
	NextMatchTime      *time.Time
	EstimatedQueueTime *time.Time
	EstimatedFieldTime *time.Time
	UpdatedAt          time.Time
}

func (t Team) Validate() error {
	if t.Number == "" {
		return fmt.Errorf("team number is required")
	}

	return nil
}

// Projection is the per-team match schedule state derived from one
// reconciliation pass over an event's feeds.
type Projection struct {
	EventKey           string
	CurrentMatch       *string
	NextMatch          *string
	NextMatchTime      *time.Time
	EstimatedQueueTime *time.Time
	EstimatedFieldTime *time.Time
}
