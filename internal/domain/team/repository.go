package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByNumber(ctx context.Context, number string) (Team, bool, error)
	ListActiveEventKeys(ctx context.Context) ([]string, error)
	ListWithUpcomingMatches(ctx context.Context) ([]Team, error)
	UpdateProjection(ctx context.Context, number string, p Projection) error
}
