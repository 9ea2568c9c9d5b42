package match

import (
	"strconv"
	"strings"
)

// CompLevel is a competition level code from the bracket feed.
type CompLevel string

const (
	LevelQualification CompLevel = "qm"
	LevelEighthFinal   CompLevel = "ef"
	LevelQuarterFinal  CompLevel = "qf"
	LevelSemiFinal     CompLevel = "sf"
	LevelFinal         CompLevel = "f"
)

var levelOrder = []CompLevel{LevelQualification, LevelEighthFinal, LevelQuarterFinal, LevelSemiFinal, LevelFinal}

// Rank orders levels qm < ef < qf < sf < f. Unknown levels rank before qm,
// matching the upstream comparator.
func Rank(level CompLevel) int {
	for i, l := range levelOrder {
		if l == level {
			return i
		}
	}
	return -1
}

var levelNames = map[CompLevel]string{
	LevelQualification: "Qualification",
	LevelEighthFinal:   "Eighth Final",
	LevelQuarterFinal:  "Quarter Final",
	LevelSemiFinal:     "Semi Final",
	LevelFinal:         "Final",
}

// LevelName returns the spelled-out level name used by the live feed's
// match labels, or the raw code for levels the feed does not name.
func LevelName(level CompLevel) string {
	if name, ok := levelNames[level]; ok {
		return name
	}
	return string(level)
}

// LiveLabel builds the label the live feed uses for a match, e.g.
// "Quarter Final 3" or "Qualification 12".
func LiveLabel(level CompLevel, matchNumber int) string {
	return LevelName(level) + " " + strconv.Itoa(matchNumber)
}

// RawLabel builds the compact stored label for a match. Qualification and
// final matches carry only the match number (qm24, f1); other playoff
// levels carry set and match (sf1m2, qf3m1).
func RawLabel(level CompLevel, setNumber, matchNumber int) string {
	switch level {
	case LevelQualification, LevelFinal:
		return string(level) + strconv.Itoa(matchNumber)
	default:
		return string(level) + strconv.Itoa(setNumber) + "m" + strconv.Itoa(matchNumber)
	}
}

// FormatLabel expands a compact stored label for display:
//
//	qm24  -> "Qualification 24"
//	sf1m2 -> "Semifinal 1-2"
//	qf3m1 -> "Quarterfinal 3-1"
//	f1    -> "Final 1"
//
// Empty input stays empty and unrecognized prefixes pass through unchanged.
func FormatLabel(raw string) string {
	if raw == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(raw, "qm"):
		return "Qualification " + raw[2:]
	case strings.HasPrefix(raw, "sf"):
		return "Semifinal " + splitSetMatch(raw[2:])
	case strings.HasPrefix(raw, "qf"):
		return "Quarterfinal " + splitSetMatch(raw[2:])
	case strings.HasPrefix(raw, "f"):
		return "Final " + raw[1:]
	default:
		return raw
	}
}

func splitSetMatch(suffix string) string {
	set, num, ok := strings.Cut(suffix, "m")
	if !ok {
		return suffix
	}
	return set + "-" + num
}

// QualNumberFromQueuing extracts the qualification match number from a live
// "now queuing" label such as "Qualification 42". It returns the empty
// string when the label does not describe a qualification match.
func QualNumberFromQueuing(nowQueuing string) string {
	if !strings.Contains(strings.ToLower(nowQueuing), "qualification") {
		return ""
	}
	_, number, ok := strings.Cut(nowQueuing, " ")
	if !ok {
		return ""
	}
	return number
}
