package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vivandoshi08/cheesycareApp/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams map[string]team.Team
	now   func() time.Time
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	byNumber := make(map[string]team.Team, len(teams))
	for _, item := range teams {
		byNumber[item.Number] = item
	}

	return &TeamRepository{teams: byNumber, now: time.Now}
}

func (r *TeamRepository) GetByNumber(_ context.Context, number string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[number]
	return item, ok, nil
}

func (r *TeamRepository) ListActiveEventKeys(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	keys := make([]string, 0)
	for _, item := range r.teams {
		if item.NextMatchTime == nil || item.EventKey == nil || *item.EventKey == "" {
			continue
		}
		if _, ok := seen[*item.EventKey]; ok {
			continue
		}
		seen[*item.EventKey] = struct{}{}
		keys = append(keys, *item.EventKey)
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *TeamRepository) ListWithUpcomingMatches(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	for _, item := range r.teams {
		if item.NextMatchTime != nil {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextMatchTime.Before(*out[j].NextMatchTime)
	})
	return out, nil
}

func (r *TeamRepository) UpdateProjection(_ context.Context, number string, p team.Projection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.teams[number]
	if !ok {
		return fmt.Errorf("team %s not found", number)
	}

	item.EventKey = &p.EventKey
	item.CurrentMatch = p.CurrentMatch
	item.NextMatch = p.NextMatch
	item.NextMatchTime = p.NextMatchTime
	item.EstimatedQueueTime = p.EstimatedQueueTime
	item.EstimatedFieldTime = p.EstimatedFieldTime
	item.UpdatedAt = r.now()
	r.teams[number] = item
	return nil
}
