package loglatch

import "testing"

func TestLevelSetSetClearGet(t *testing.T) {
	s := None()
	if s.Get(WarningLevel) {
		t.Fatalf("empty set should not contain WarningLevel")
	}
	s = s.Set(WarningLevel)
	if !s.Get(WarningLevel) {
		t.Fatalf("set should contain WarningLevel after Set")
	}
	s = s.Clear(WarningLevel)
	if s.Get(WarningLevel) {
		t.Fatalf("set should not contain WarningLevel after Clear")
	}
}

func TestLevelSetAtOrAbove(t *testing.T) {
	s := LevelSetAtOrAbove(WarningLevel)
	for _, l := range []Level{CriticalLevel, ErrorLevel, WarningLevel} {
		if !s.Get(l) {
			t.Fatalf("LevelSetAtOrAbove(WarningLevel) should contain %v", l)
		}
	}
	for _, l := range []Level{InfoLevel, VerboseLevel} {
		if s.Get(l) {
			t.Fatalf("LevelSetAtOrAbove(WarningLevel) should not contain %v", l)
		}
	}
}

func TestAllAndNone(t *testing.T) {
	if None() != LevelSet(0) {
		t.Fatalf("None() should be zero")
	}
	for l := CriticalLevel; l < numLevels; l++ {
		if !All().Get(l) {
			t.Fatalf("All() should contain %v", l)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"critical": CriticalLevel,
		"CRIT":     CriticalLevel,
		"error":    ErrorLevel,
		"warn":     WarningLevel,
		"info":     InfoLevel,
		"verbose":  VerboseLevel,
		"trace":    VerboseLevel,
	}
	for in, want := range cases {
		got, ok := ParseLevel(in)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = (%v, %v), want (%v, true)", in, got, ok, want)
		}
	}
	if _, ok := ParseLevel("bogus"); ok {
		t.Fatalf("ParseLevel(bogus) should fail")
	}
}
