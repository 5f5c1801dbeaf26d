package loglatch

import (
	"os"
	"sync"
)

var (
	defaultOnce sync.Once
	defaultMgr  *ConfigManager
)

// Default returns the process-wide ConfigManager. It is built lazily, on
// first use, with a single MatchAllPolicy installed at DefaultPriority
// that writes warnings and worse to stderr through a SinkEmitter — a
// caller that never touches configuration still gets reasonable output.
func Default() *ConfigManager {
	defaultOnce.Do(func() {
		defaultMgr = NewConfigManager()
		sink := NewSinkEmitter(os.Stderr)
		defaultMgr.InsertPolicy(DefaultPriority, NewMatchAllPolicy(sink, LevelSetAtOrAbove(WarningLevel)))
	})
	return defaultMgr
}

// SetDefault replaces the process-wide ConfigManager. Existing Sites keep
// whatever emitter/levels they currently have until something (a Log call
// through the bootstrap emitter, or an explicit Rescan) touches them again
// against the new manager.
func SetDefault(mgr *ConfigManager) {
	defaultOnce.Do(func() {})
	defaultMgr = mgr
}
