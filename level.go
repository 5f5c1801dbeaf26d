package loglatch

import "strings"

// Level identifies the severity of a log record. Levels are ordered from
// most to least severe; zero value is CriticalLevel.
type Level uint8

const (
	CriticalLevel Level = iota
	ErrorLevel
	WarningLevel
	InfoLevel
	VerboseLevel
	numLevels
)

func (l Level) String() string {
	switch l {
	case CriticalLevel:
		return "critical"
	case ErrorLevel:
		return "error"
	case WarningLevel:
		return "warning"
	case InfoLevel:
		return "info"
	case VerboseLevel:
		return "verbose"
	default:
		return "unknown"
	}
}

// ParseLevel accepts the level's String() form, case-insensitively, plus a
// handful of common abbreviations (crit, warn, verb).
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical", "crit":
		return CriticalLevel, true
	case "error", "err":
		return ErrorLevel, true
	case "warning", "warn":
		return WarningLevel, true
	case "info":
		return InfoLevel, true
	case "verbose", "verb", "debug", "trace":
		return VerboseLevel, true
	default:
		return 0, false
	}
}

// LevelSet is a fixed-width bitset over the five Level values.
type LevelSet uint8

// NewLevelSet builds a LevelSet containing the given levels.
func NewLevelSet(levels ...Level) LevelSet {
	var s LevelSet
	for _, l := range levels {
		s = s.Set(l)
	}
	return s
}

// LevelSetAtOrAbove returns the set of every level at least as severe as
// threshold (i.e. threshold and everything lower-numbered).
func LevelSetAtOrAbove(threshold Level) LevelSet {
	var s LevelSet
	for l := CriticalLevel; l <= threshold && l < numLevels; l++ {
		s = s.Set(l)
	}
	return s
}

// Set returns a LevelSet with level added.
func (s LevelSet) Set(level Level) LevelSet {
	if level >= numLevels {
		return s
	}
	return s | (1 << level)
}

// Clear returns a LevelSet with level removed.
func (s LevelSet) Clear(level Level) LevelSet {
	if level >= numLevels {
		return s
	}
	return s &^ (1 << level)
}

// Get reports whether level is a member of s.
func (s LevelSet) Get(level Level) bool {
	if level >= numLevels {
		return false
	}
	return s&(1<<level) != 0
}

// All returns the LevelSet containing every level.
func All() LevelSet {
	return LevelSet(1<<numLevels) - 1
}

// None returns the empty LevelSet.
func None() LevelSet {
	return LevelSet(0)
}

func (s LevelSet) String() string {
	if s == None() {
		return "none"
	}
	if s == All() {
		return "all"
	}
	var parts []string
	for l := CriticalLevel; l < numLevels; l++ {
		if s.Get(l) {
			parts = append(parts, l.String())
		}
	}
	return strings.Join(parts, "|")
}
