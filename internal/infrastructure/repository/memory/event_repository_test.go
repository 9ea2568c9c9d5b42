package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivandoshi08/cheesycareApp/internal/domain/event"
)

func TestEventRepositoryInsertThenUpdate(t *testing.T) {
	repo := NewEventRepository(nil)
	ctx := context.Background()

	qual := "12"
	seeded := event.Event{
		Key:              "2025casj",
		Name:             "Silicon Valley Regional",
		CurrentQualMatch: &qual,
		LastUpdated:      time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Insert(ctx, seeded))
	require.Error(t, repo.Insert(ctx, seeded), "duplicate insert must fail")

	seeded.Name = "Silicon Valley Regional presented by Google"
	require.NoError(t, repo.Update(ctx, seeded))

	got, ok, err := repo.GetByKey(ctx, "2025casj")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, seeded.Name, got.Name)
}

func TestEventRepositoryUpdateUnknownEvent(t *testing.T) {
	repo := NewEventRepository(nil)

	err := repo.Update(context.Background(), event.Event{Key: "2025missing"})
	require.Error(t, err)
}

func TestEventRepositoryListUpdatedSince(t *testing.T) {
	now := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	repo := NewEventRepository([]event.Event{
		{Key: "2025casj", LastUpdated: now.Add(-time.Hour)},
		{Key: "2024stale", LastUpdated: now.Add(-72 * time.Hour)},
	})

	events, err := repo.ListUpdatedSince(context.Background(), now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "2025casj", events[0].Key)
}
