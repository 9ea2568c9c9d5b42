package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivandoshi08/cheesycareApp/internal/domain/team"
)

func seedTeams(t *testing.T) []team.Team {
	t.Helper()

	eventA := "2025casj"
	eventB := "2025azva"
	early := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
	late := early.Add(45 * time.Minute)

	return []team.Team{
		{Number: "254", Name: "The Cheesy Poofs", EventKey: &eventA, NextMatchTime: &late},
		{Number: "1678", Name: "Citrus Circuits", EventKey: &eventB, NextMatchTime: &early},
		{Number: "973", Name: "Greybots"},
	}
}

func TestTeamRepositoryListActiveEventKeys(t *testing.T) {
	repo := NewTeamRepository(seedTeams(t))

	keys, err := repo.ListActiveEventKeys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2025azva", "2025casj"}, keys)
}

func TestTeamRepositoryListWithUpcomingMatches(t *testing.T) {
	repo := NewTeamRepository(seedTeams(t))

	teams, err := repo.ListWithUpcomingMatches(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "1678", teams[0].Number)
	assert.Equal(t, "254", teams[1].Number)
}

func TestTeamRepositoryUpdateProjection(t *testing.T) {
	repo := NewTeamRepository(seedTeams(t))
	repo.now = func() time.Time {
		return time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)
	}

	next := "qm12"
	nextTime := time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC)
	err := repo.UpdateProjection(context.Background(), "973", team.Projection{
		EventKey:      "2025casj",
		NextMatch:     &next,
		NextMatchTime: &nextTime,
	})
	require.NoError(t, err)

	updated, ok, err := repo.GetByNumber(context.Background(), "973")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, updated.EventKey)
	assert.Equal(t, "2025casj", *updated.EventKey)
	require.NotNil(t, updated.NextMatch)
	assert.Equal(t, "qm12", *updated.NextMatch)
	assert.Equal(t, repo.now(), updated.UpdatedAt)
	assert.Nil(t, updated.CurrentMatch)
}

func TestTeamRepositoryUpdateProjectionUnknownTeam(t *testing.T) {
	repo := NewTeamRepository(nil)

	err := repo.UpdateProjection(context.Background(), "9999", team.Projection{EventKey: "2025casj"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "9999")
}
