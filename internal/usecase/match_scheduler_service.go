package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/vivandoshi08/cheesycareApp/internal/domain/event"
	"github.com/vivandoshi08/cheesycareApp/internal/domain/match"
	"github.com/vivandoshi08/cheesycareApp/internal/domain/team"
	"github.com/vivandoshi08/cheesycareApp/internal/platform/logging"
)

const (
	defaultSchedulerWorkers = 4
	maxSchedulerWorkers     = 16

	// teamKeyPrefix is the bracket feed's program prefix on team keys
	// ("frc254"); stored team numbers drop it.
	teamKeyPrefix = "frc"
)

type MatchSchedulerConfig struct {
	// FocusTeamKey anchors event discovery when no team rows point at an
	// active event yet.
	FocusTeamKey string
	MaxWorkers   int
}

type MatchSchedulerInput struct {
	// EventKeys restricts the run to the given events. Empty means
	// discover active events from stored team state.
	EventKeys []string `json:"event_keys" validate:"omitempty,dive,required"`
}

type MatchSchedulerResult struct {
	Message string        `json:"message"`
	Results []EventResult `json:"results"`
}

type EventResult struct {
	EventKey         string       `json:"event_key"`
	CurrentQualMatch *string      `json:"current_qual_match,omitempty"`
	TeamsUpdated     int          `json:"teams_updated"`
	TeamResults      []TeamResult `json:"team_results,omitempty"`
	DataAsOfTime     int64        `json:"data_as_of_time,omitempty"`
	Error            string       `json:"error,omitempty"`
}

type TeamResult struct {
	TeamKey string `json:"team_key"`
	Updated bool   `json:"updated"`
	Error   string `json:"error,omitempty"`
}

// MatchSchedulerService reconciles bracket and live feed data into per-team
// match projections and per-event status records.
type MatchSchedulerService struct {
	bracket BracketProvider
	live    LiveProvider
	events  event.Repository
	teams   team.Repository
	cfg     MatchSchedulerConfig
	logger  *logging.Logger
	now     func() time.Time
}

func NewMatchSchedulerService(
	bracket BracketProvider,
	live LiveProvider,
	eventRepo event.Repository,
	teamRepo team.Repository,
	cfg MatchSchedulerConfig,
	logger *logging.Logger,
) *MatchSchedulerService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchSchedulerService{
		bracket: bracket,
		live:    live,
		events:  eventRepo,
		teams:   teamRepo,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Run reconciles every active event. Per-event and per-team failures are
// reported inside the result; Run itself fails only when discovery or the
// worker pool cannot be set up.
func (s *MatchSchedulerService) Run(ctx context.Context, input MatchSchedulerInput) (MatchSchedulerResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSchedulerService.Run")
	defer span.End()

	if s.bracket == nil || s.live == nil || s.events == nil || s.teams == nil {
		return MatchSchedulerResult{}, fmt.Errorf("%w: match scheduler is not fully configured", ErrDependencyUnavailable)
	}

	eventKeys := normalizeEventKeys(input.EventKeys)
	if len(eventKeys) == 0 {
		discovered, err := s.discoverActiveEventKeys(ctx)
		if err != nil {
			return MatchSchedulerResult{}, err
		}
		eventKeys = discovered
	}

	if len(eventKeys) == 0 {
		s.logger.InfoContext(ctx, "match scheduler run found no active events")
		return MatchSchedulerResult{Message: "No active events found", Results: []EventResult{}}, nil
	}

	workerCount := normalizeSchedulerWorkerCount(s.cfg.MaxWorkers, len(eventKeys))
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return MatchSchedulerResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan EventResult, len(eventKeys))
	var updatedTeams atomic.Int32

	var workers sync.WaitGroup
	for _, key := range eventKeys {
		key := key
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := s.reconcileEvent(ctx, key)
			updatedTeams.Add(int32(row.TeamsUpdated))
			results <- row
		}); err != nil {
			workers.Done()
			return MatchSchedulerResult{}, fmt.Errorf("submit event to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	out := MatchSchedulerResult{
		Message: "Match scheduling completed",
		Results: make([]EventResult, 0, len(eventKeys)),
	}
	for row := range results {
		out.Results = append(out.Results, row)
	}
	sort.SliceStable(out.Results, func(i, j int) bool {
		return out.Results[i].EventKey < out.Results[j].EventKey
	})

	s.logger.InfoContext(ctx, "match scheduler run completed",
		"events", len(eventKeys),
		"teams_updated", updatedTeams.Load(),
	)
	return out, nil
}

// discoverActiveEventKeys returns the distinct event keys of teams with a
// pending next match. When no team points at an event yet, it falls back to
// the focus team's current-year events whose window contains now.
func (s *MatchSchedulerService) discoverActiveEventKeys(ctx context.Context) ([]string, error) {
	keys, err := s.teams.ListActiveEventKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active event keys: %w", err)
	}
	if len(keys) > 0 {
		sort.Strings(keys)
		return keys, nil
	}

	if s.cfg.FocusTeamKey == "" {
		return nil, nil
	}

	now := s.now()
	summaries, err := s.bracket.TeamEventsForYear(ctx, s.cfg.FocusTeamKey, now.Year())
	if err != nil {
		return nil, fmt.Errorf("%w: fetch events for %s: %v", ErrDependencyUnavailable, s.cfg.FocusTeamKey, err)
	}

	active := make([]string, 0, len(summaries))
	for _, summary := range summaries {
		ok, err := eventWindowContains(summary, now)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping event with unparseable dates",
				"event_key", summary.Key,
				"error", err,
			)
			continue
		}
		if ok {
			active = append(active, summary.Key)
		}
	}
	sort.Strings(active)
	return active, nil
}

// eventWindowContains reports whether now falls inside the event's window.
// The end date is extended by a day so the event stays active through its
// final calendar day.
func eventWindowContains(summary EventSummary, now time.Time) (bool, error) {
	start, err := time.Parse("2006-01-02", summary.StartDate)
	if err != nil {
		return false, fmt.Errorf("start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", summary.EndDate)
	if err != nil {
		return false, fmt.Errorf("end date: %w", err)
	}
	end = end.Add(24 * time.Hour)

	return !now.Before(start) && !now.After(end), nil
}

// reconcileEvent merges both feeds for one event and persists the outcome.
// It never returns an error; failures land in the result row.
func (s *MatchSchedulerService) reconcileEvent(ctx context.Context, eventKey string) (row EventResult) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSchedulerService.reconcileEvent")
	defer span.End()

	row = EventResult{EventKey: eventKey}
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "event reconciliation panicked", "event_key", eventKey, "panic", r)
			row.Error = fmt.Sprintf("reconcile panicked: %v", r)
		}
	}()

	var (
		bracketMatches []match.BracketMatch
		bracketErr     error
		eventTeamKeys  []string
		rosterErr      error
		snapshot       match.LiveSnapshot
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		bracketMatches, bracketErr = s.bracket.EventMatches(ctx, eventKey)
	})
	wg.Go(func() {
		eventTeamKeys, rosterErr = s.bracket.EventTeamKeys(ctx, eventKey)
	})
	wg.Go(func() {
		snapshot = s.live.EventSnapshot(ctx, eventKey)
	})
	wg.Wait()

	if bracketErr != nil {
		s.logger.WarnContext(ctx, "bracket fetch failed", "event_key", eventKey, "error", bracketErr)
		row.Error = bracketErr.Error()
		return row
	}
	if rosterErr != nil {
		s.logger.WarnContext(ctx, "event team roster fetch failed", "event_key", eventKey, "error", rosterErr)
		row.Error = rosterErr.Error()
		return row
	}

	row.CurrentQualMatch = determineCurrentQualMatch(snapshot, bracketMatches)
	row.DataAsOfTime = snapshot.DataAsOfTime

	// The roster, not the bracket, drives the team loop: a rostered team
	// with no scheduled match still gets its stale projection cleared.
	for _, teamKey := range eventTeamKeys {
		projection := buildTeamProjection(eventKey, teamKey, bracketMatches, snapshot)
		number := strings.TrimPrefix(teamKey, teamKeyPrefix)

		if err := s.teams.UpdateProjection(ctx, number, projection); err != nil {
			s.logger.WarnContext(ctx, "team projection update failed",
				"event_key", eventKey,
				"team_key", teamKey,
				"error", err,
			)
			row.TeamResults = append(row.TeamResults, TeamResult{TeamKey: teamKey, Error: err.Error()})
			continue
		}

		row.TeamsUpdated++
		row.TeamResults = append(row.TeamResults, TeamResult{TeamKey: teamKey, Updated: true})
	}

	// The status record is best-effort: team projections are already
	// persisted, so a failure here is logged and swallowed.
	if err := s.upsertEventStatus(ctx, eventKey, row.CurrentQualMatch, bracketMatches, snapshot); err != nil {
		s.logger.WarnContext(ctx, "event status update failed", "event_key", eventKey, "error", err)
	}

	return row
}

// determineCurrentQualMatch resolves the qualification match currently on
// the field, as a match number string. Preference order: the live queuing
// label, then the first unscored qualification match, then the last
// qualification match of the schedule.
func determineCurrentQualMatch(snapshot match.LiveSnapshot, matches []match.BracketMatch) *string {
	if snapshot.NowQueuing != nil {
		if number := match.QualNumberFromQueuing(*snapshot.NowQueuing); number != "" {
			return &number
		}
	}

	quals := make([]match.BracketMatch, 0, len(matches))
	for _, m := range matches {
		if m.CompLevel == match.LevelQualification {
			quals = append(quals, m)
		}
	}
	if len(quals) == 0 {
		return nil
	}
	sort.SliceStable(quals, func(i, j int) bool {
		return quals[i].MatchNumber < quals[j].MatchNumber
	})

	for _, m := range quals {
		if m.Upcoming() {
			number := strconv.Itoa(m.MatchNumber)
			return &number
		}
	}

	number := strconv.Itoa(quals[len(quals)-1].MatchNumber)
	return &number
}

// buildTeamProjection derives one team's schedule state from the event's
// bracket, preferring live feed estimates over bracket predictions.
func buildTeamProjection(eventKey, teamKey string, matches []match.BracketMatch, snapshot match.LiveSnapshot) team.Projection {
	teamMatches := make([]match.BracketMatch, 0, len(matches))
	for _, m := range matches {
		if m.HasTeam(teamKey) {
			teamMatches = append(teamMatches, m)
		}
	}
	match.SortBracket(teamMatches)

	projection := team.Projection{EventKey: eventKey}

	for _, m := range teamMatches {
		if m.Played() {
			label := m.RawLabel()
			projection.CurrentMatch = &label
		}
	}

	for _, m := range teamMatches {
		if !m.Upcoming() {
			continue
		}

		label := m.RawLabel()
		projection.NextMatch = &label

		if live, ok := snapshot.FindByLabel(m.LiveLabel()); ok {
			if live.Times.EstimatedQueueTime > 0 {
				queueAt := time.UnixMilli(live.Times.EstimatedQueueTime)
				projection.EstimatedQueueTime = &queueAt
			}
			// The start estimate doubles as the field estimate.
			if live.Times.EstimatedStartTime > 0 {
				startAt := time.UnixMilli(live.Times.EstimatedStartTime)
				projection.EstimatedFieldTime = &startAt
				projection.NextMatchTime = &startAt
			}
		} else if m.PredictedTime != nil {
			predictedAt := time.Unix(*m.PredictedTime, 0)
			projection.NextMatchTime = &predictedAt
		}
		break
	}

	return projection
}

func (s *MatchSchedulerService) upsertEventStatus(
	ctx context.Context,
	eventKey string,
	currentQual *string,
	matches []match.BracketMatch,
	snapshot match.LiveSnapshot,
) error {
	liveData, err := sonic.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal live snapshot: %w", err)
	}
	bracketData, err := sonic.Marshal(matches)
	if err != nil {
		return fmt.Errorf("marshal bracket snapshot: %w", err)
	}

	existing, found, err := s.events.GetByKey(ctx, eventKey)
	if err != nil {
		return fmt.Errorf("read event status: %w", err)
	}

	record := event.Event{
		Key:              eventKey,
		Name:             eventKey,
		CurrentQualMatch: currentQual,
		LastUpdated:      s.now(),
		LiveSnapshot:     liveData,
		BracketSnapshot:  bracketData,
	}

	if !found {
		return s.events.Insert(ctx, record)
	}

	if existing.Name != "" {
		record.Name = existing.Name
	}
	return s.events.Update(ctx, record)
}

func normalizeEventKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func normalizeSchedulerWorkerCount(requested, taskCount int) int {
	count := requested
	if count <= 0 {
		count = defaultSchedulerWorkers
	}
	if count > maxSchedulerWorkers {
		count = maxSchedulerWorkers
	}
	if taskCount > 0 && count > taskCount {
		count = taskCount
	}
	return count
}
