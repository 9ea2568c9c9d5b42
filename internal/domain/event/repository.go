package event

import (
	"context"
	"time"
)

// Repository describes event status persistence needs from use cases.
type Repository interface {
	GetByKey(ctx context.Context, key string) (Event, bool, error)
	ListUpdatedSince(ctx context.Context, since time.Time) ([]Event, error)
	Insert(ctx context.Context, e Event) error
	Update(ctx context.Context, e Event) error
}
