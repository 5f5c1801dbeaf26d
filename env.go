package loglatch

import (
	"os"
	"strings"
)

// LevelFromEnv reads the environment variable named key and parses it as a
// Level. ok is false if the variable is unset or its value isn't a
// recognised level name.
func LevelFromEnv(key string) (Level, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	return ParseLevel(v)
}

// InstallFromEnv reads a colon-separated "tag=level" list from the
// environment variable named key (e.g. "db=info:http=warning") and
// installs one PredicatePolicy per tag on mgr, matching sites by exact tag
// and writing through target at or above the level named for that tag.
// The entry at list index i is installed at priority+i+1. Malformed
// entries are skipped (their index is still counted).
//
//	LOGLATCH_LEVELS=db=verbose:http=warning
func InstallFromEnv(mgr *ConfigManager, key string, target Emitter, priority int) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return
	}
	for i, entry := range strings.Split(raw, ":") {
		tag, levelName, found := strings.Cut(entry, "=")
		if !found {
			continue
		}
		level, ok := ParseLevel(levelName)
		if !ok {
			continue
		}
		mgr.InsertPolicy(priority+i+1, NewTagPolicy(strings.TrimSpace(tag), target, LevelSetAtOrAbove(level)))
	}
}
