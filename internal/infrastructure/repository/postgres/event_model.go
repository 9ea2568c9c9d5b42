package postgres

import (
	"database/sql"
	"time"

	"github.com/vivandoshi08/cheesycareApp/internal/domain/event"
)

type eventTableModel struct {
	ID               int64          `db:"id"`
	Key              string         `db:"key"`
	Name             string         `db:"name"`
	CurrentQualMatch sql.NullString `db:"current_qual_match"`
	LastUpdated      sql.NullTime   `db:"last_updated"`
	LiveData         []byte         `db:"live_data"`
	BracketData      []byte         `db:"bracket_data"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (m eventTableModel) toDomain() event.Event {
	out := event.Event{
		Key:              m.Key,
		Name:             m.Name,
		CurrentQualMatch: nullStringPtr(m.CurrentQualMatch),
		LiveSnapshot:     m.LiveData,
		BracketSnapshot:  m.BracketData,
	}
	if m.LastUpdated.Valid {
		out.LastUpdated = m.LastUpdated.Time
	}
	return out
}

type eventInsertModel struct {
	Key              string         `db:"key"`
	Name             string         `db:"name"`
	CurrentQualMatch sql.NullString `db:"current_qual_match"`
	LastUpdated      time.Time      `db:"last_updated"`
	LiveData         sql.NullString `db:"live_data"`
	BracketData      sql.NullString `db:"bracket_data"`
}

func eventToInsertModel(e event.Event) eventInsertModel {
	return eventInsertModel{
		Key:              e.Key,
		Name:             e.Name,
		CurrentQualMatch: nullString(e.CurrentQualMatch),
		LastUpdated:      e.LastUpdated,
		LiveData:         jsonText(e.LiveSnapshot),
		BracketData:      jsonText(e.BracketSnapshot),
	}
}
