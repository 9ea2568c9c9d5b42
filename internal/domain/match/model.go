package match

import "sort"

// BracketMatch is one match from the authoritative bracket/results feed.
// Scores are nil until the match has been played and scored.
type BracketMatch struct {
	Key           string
	EventKey      string
	CompLevel     CompLevel
	SetNumber     int
	MatchNumber   int
	RedTeamKeys   []string
	BlueTeamKeys  []string
	RedScore      *int
	BlueScore     *int
	ScheduledTime *int64
	ActualTime    *int64
	PredictedTime *int64
}

// Played reports whether both alliances have a recorded score.
func (m BracketMatch) Played() bool {
	return m.RedScore != nil && m.BlueScore != nil
}

// Upcoming reports whether either alliance is still missing a score.
func (m BracketMatch) Upcoming() bool {
	return m.RedScore == nil || m.BlueScore == nil
}

// HasTeam reports whether the team key appears on either alliance.
func (m BracketMatch) HasTeam(teamKey string) bool {
	for _, key := range m.RedTeamKeys {
		if key == teamKey {
			return true
		}
	}
	for _, key := range m.BlueTeamKeys {
		if key == teamKey {
			return true
		}
	}
	return false
}

// RawLabel is the compact stored label for this match.
func (m BracketMatch) RawLabel() string {
	return RawLabel(m.CompLevel, m.SetNumber, m.MatchNumber)
}

// LiveLabel is the label the live feed would use for this match.
func (m BracketMatch) LiveLabel() string {
	return LiveLabel(m.CompLevel, m.MatchNumber)
}

// SortBracket orders matches by level rank, then set number, then match
// number. The sort is stable, so equal keys keep their input order.
func SortBracket(matches []BracketMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if ra, rb := Rank(a.CompLevel), Rank(b.CompLevel); ra != rb {
			return ra < rb
		}
		if a.SetNumber != b.SetNumber {
			return a.SetNumber < b.SetNumber
		}
		return a.MatchNumber < b.MatchNumber
	})
}

// LiveMatchTimes carries the live feed's time estimates in unix millis.
// ActualQueueTime is set once the match has actually queued.
type LiveMatchTimes struct {
	EstimatedQueueTime   int64  `json:"estimatedQueueTime"`
	EstimatedOnDeckTime  int64  `json:"estimatedOnDeckTime"`
	EstimatedOnFieldTime int64  `json:"estimatedOnFieldTime"`
	EstimatedStartTime   int64  `json:"estimatedStartTime"`
	ActualQueueTime      *int64 `json:"actualQueueTime,omitempty"`
}

// LiveMatch is one match from the live queuing feed.
type LiveMatch struct {
	Label     string         `json:"label"`
	Status    string         `json:"status"`
	RedTeams  []string       `json:"redTeams"`
	BlueTeams []string       `json:"blueTeams"`
	Times     LiveMatchTimes `json:"times"`
	ReplayOf  *string        `json:"replayOf,omitempty"`
}

// LiveSnapshot is the live feed's view of an event at a point in time.
// A degraded snapshot has no matches and no queuing label.
type LiveSnapshot struct {
	EventKey     string      `json:"eventKey"`
	DataAsOfTime int64       `json:"dataAsOfTime"`
	NowQueuing   *string     `json:"nowQueuing"`
	Matches      []LiveMatch `json:"matches"`
}

// FindByLabel returns the live match with the given label, if any.
func (s LiveSnapshot) FindByLabel(label string) (LiveMatch, bool) {
	for _, m := range s.Matches {
		if m.Label == label {
			return m, true
		}
	}
	return LiveMatch{}, false
}
