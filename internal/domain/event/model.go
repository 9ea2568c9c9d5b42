package event

import (
	"fmt"
	"time"
)

// Event is the stored status record for one competition event. The two
// snapshot payloads hold the most recent raw feed data as JSON.
type Event struct {
	Key              string
	Name             string
	CurrentQualMatch *string
	LastUpdated      time.Time
	LiveSnapshot     []byte
	BracketSnapshot  []byte
}

func (e Event) Validate() error {
	if e.Key == "" {
		return fmt.Errorf("event key is required")
	}

	return nil
}
