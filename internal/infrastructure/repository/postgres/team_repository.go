package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vivandoshi08/cheesycareApp/internal/domain/team"
	qb "github.com/vivandoshi08/cheesycareApp/internal/platform/querybuilder"
	"github.com/vivandoshi08/cheesycareApp/internal/usecase"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByNumber(ctx context.Context, number string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("number", number)).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team by number query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team by number: %w", err)
	}

	return row.toDomain(), true, nil
}

// ListActiveEventKeys returns the distinct event keys of teams still
// waiting on a next match. These are the events worth reconciling.
func (r *TeamRepository) ListActiveEventKeys(ctx context.Context) ([]string, error) {
	query, args, err := qb.Select("DISTINCT event_key").From("teams").
		Where(
			qb.Expr("next_match_time IS NOT NULL"),
			qb.Expr("event_key IS NOT NULL"),
		).
		OrderBy("event_key").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select active event keys query: %w", err)
	}

	var keys []string
	if err := r.db.SelectContext(ctx, &keys, query, args...); err != nil {
		return nil, fmt.Errorf("select active event keys: %w", err)
	}
	return keys, nil
}

func (r *TeamRepository) ListWithUpcomingMatches(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Expr("next_match_time IS NOT NULL")).
		OrderBy("next_match_time", "number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select upcoming teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select upcoming teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamRepository) UpdateProjection(ctx context.Context, number string, p team.Projection) error {
	if number == "" {
		return fmt.Errorf("%w: team number is required", usecase.ErrInvalidInput)
	}

	query, args, err := qb.Update("teams").
		Set("event_key", p.EventKey).
		Set("current_match", nullString(p.CurrentMatch)).
		Set("next_match", nullString(p.NextMatch)).
		Set("next_match_time", nullTimeValue(p.NextMatchTime)).
		Set("estimated_queue_time", nullTimeValue(p.EstimatedQueueTime)).
		Set("estimated_field_time", nullTimeValue(p.EstimatedFieldTime)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("number", number)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team projection query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update team %s projection: %w", number, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: team %s", usecase.ErrNotFound, number)
	}
	return nil
}
