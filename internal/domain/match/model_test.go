package match

import "testing"

func bm(level CompLevel, set, num int) BracketMatch {
	return BracketMatch{CompLevel: level, SetNumber: set, MatchNumber: num}
}

func TestSortBracket(t *testing.T) {
	matches := []BracketMatch{
		bm(LevelFinal, 1, 1),
		bm(LevelQualification, 1, 10),
		bm(LevelSemiFinal, 2, 1),
		bm(LevelQualification, 1, 2),
		bm(LevelSemiFinal, 1, 2),
		bm(LevelQuarterFinal, 4, 1),
		bm(LevelSemiFinal, 1, 1),
	}

	SortBracket(matches)

	want := []string{"qm2", "qm10", "qf4m1", "sf1m1", "sf1m2", "sf2m1", "f1"}
	for i, w := range want {
		if got := matches[i].RawLabel(); got != w {
			t.Fatalf("position %d: got %s, want %s", i, got, w)
		}
	}
}

func TestSortBracketUnknownLevelFirst(t *testing.T) {
	matches := []BracketMatch{
		bm(LevelQualification, 1, 1),
		bm("pm", 1, 1),
	}

	SortBracket(matches)

	if matches[0].CompLevel != "pm" {
		t.Fatalf("expected unknown level to sort first, got %s", matches[0].CompLevel)
	}
}

func TestBracketMatchScores(t *testing.T) {
	score := func(v int) *int { return &v }

	tests := []struct {
		name     string
		m        BracketMatch
		played   bool
		upcoming bool
	}{
		{name: "unscored", m: BracketMatch{}, played: false, upcoming: true},
		{name: "half scored", m: BracketMatch{RedScore: score(45)}, played: false, upcoming: true},
		{name: "scored", m: BracketMatch{RedScore: score(45), BlueScore: score(12)}, played: true, upcoming: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.m.Played() != tc.played {
				t.Fatalf("Played() = %v, want %v", tc.m.Played(), tc.played)
			}
			if tc.m.Upcoming() != tc.upcoming {
				t.Fatalf("Upcoming() = %v, want %v", tc.m.Upcoming(), tc.upcoming)
			}
		})
	}
}

func TestBracketMatchHasTeam(t *testing.T) {
	m := BracketMatch{
		RedTeamKeys:  []string{"frc254", "frc1678", "frc973"},
		BlueTeamKeys: []string{"frc118", "frc148", "frc2056"},
	}

	if !m.HasTeam("frc254") || !m.HasTeam("frc2056") {
		t.Fatalf("expected both alliances to be searched")
	}
	if m.HasTeam("frc1114") {
		t.Fatalf("unexpected team match")
	}
}

func TestLiveSnapshotFindByLabel(t *testing.T) {
	snap := LiveSnapshot{Matches: []LiveMatch{
		{Label: "Qualification 1"},
		{Label: "Quarter Final 3"},
	}}

	if _, ok := snap.FindByLabel("Quarter Final 3"); !ok {
		t.Fatalf("expected label hit")
	}
	if _, ok := snap.FindByLabel("Final 1"); ok {
		t.Fatalf("expected label miss")
	}
}
