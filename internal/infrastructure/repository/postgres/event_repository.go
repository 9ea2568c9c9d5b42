package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vivandoshi08/cheesycareApp/internal/domain/event"
	qb "github.com/vivandoshi08/cheesycareApp/internal/platform/querybuilder"
)

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) GetByKey(ctx context.Context, key string) (event.Event, bool, error) {
	query, args, err := qb.Select("*").From("events").
		Where(qb.Eq("key", key)).
		Limit(1).
		ToSQL()
	if err != nil {
		return event.Event{}, false, fmt.Errorf("build select event by key query: %w", err)
	}

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return event.Event{}, false, nil
		}
		return event.Event{}, false, fmt.Errorf("select event by key: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *EventRepository) ListUpdatedSince(ctx context.Context, since time.Time) ([]event.Event, error) {
	query, args, err := qb.Select("*").From("events").
		Where(qb.Expr("last_updated > ?", since)).
		OrderBy("last_updated DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select events updated since query: %w", err)
	}

	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select events updated since: %w", err)
	}

	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *EventRepository) Insert(ctx context.Context, e event.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	query, args, err := qb.InsertModel("events", eventToInsertModel(e), "")
	if err != nil {
		return fmt.Errorf("build insert event query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert event %s: %w", e.Key, err)
	}
	return nil
}

func (r *EventRepository) Update(ctx context.Context, e event.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	query, args, err := qb.Update("events").
		Set("name", e.Name).
		Set("current_qual_match", nullString(e.CurrentQualMatch)).
		Set("last_updated", e.LastUpdated).
		Set("live_data", jsonText(e.LiveSnapshot)).
		Set("bracket_data", jsonText(e.BracketSnapshot)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("key", e.Key)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update event query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update event %s: %w", e.Key, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update event %s: no row matched", e.Key)
	}
	return nil
}
