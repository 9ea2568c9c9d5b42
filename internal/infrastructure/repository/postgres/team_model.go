package postgres

import (
	"database/sql"
	"time"

	"github.com/vivandoshi08/cheesycareApp/internal/domain/team"
)

type teamTableModel struct {
	ID                 int64          `db:"id"`
	Number             string         `db:"number"`
	Name               string         `db:"name"`
	EventKey           sql.NullString `db:"event_key"`
	CurrentMatch       sql.NullString `db:"current_match"`
	NextMatch          sql.NullString `db:"next_match"`
	NextMatchTime      sql.NullTime   `db:"next_match_time"`
	EstimatedQueueTime sql.NullTime   `db:"estimated_queue_time"`
	EstimatedFieldTime sql.NullTime   `db:"estimated_field_time"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		Number:             m.Number,
		Name:               m.Name,
		EventKey:           nullStringPtr(m.EventKey),
		CurrentMatch:       nullStringPtr(m.CurrentMatch),
		NextMatch:          nullStringPtr(m.NextMatch),
		NextMatchTime:      nullTime(m.NextMatchTime),
		EstimatedQueueTime: nullTime(m.EstimatedQueueTime),
		EstimatedFieldTime: nullTime(m.EstimatedFieldTime),
		UpdatedAt:          m.UpdatedAt,
	}
}
