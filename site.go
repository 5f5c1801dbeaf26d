package loglatch

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

const defaultTag = "untagged"

// Site is a call-site descriptor: one Site exists per logging call-site in
// the program (a package-level var, typically), and every Log call through
// it reuses the same descriptor. Its identity (location, context, tag) is
// immutable after construction; its emitter and level mask are replaced
// atomically as policies are (re)applied by a ConfigManager.
type Site struct {
	location string
	context  string
	tag      string

	emitter atomic.Pointer[Emitter]
	levels  atomic.Uint32
}

// NewSite constructs a Site for the caller's location, tagged tag (defaults
// to "untagged" if empty). The returned Site starts wired to the bootstrap
// emitter, which lazily registers it with the default ConfigManager on its
// first Log call.
func NewSite(tag string) *Site {
	return newSiteSkip(tag, 3)
}

func newSiteSkip(tag string, skip int) *Site {
	if tag == "" {
		tag = defaultTag
	}
	s := &Site{
		location: callerLocation(skip),
		context:  functionNameFromCaller(skip),
		tag:      tag,
	}
	s.levels.Store(uint32(All()))
	var boot Emitter = bootstrapEmitter{}
	s.emitter.Store(&boot)
	return s
}

func callerLocation(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown:0"
	}
	return fmt.Sprintf("%s:%d", file, line)
}

// Location returns the call site's file:line identity.
func (s *Site) Location() string { return s.location }

// Context returns the function name the site was constructed in.
func (s *Site) Context() string { return s.context }

// Tag returns the site's user-assigned tag.
func (s *Site) Tag() string { return s.tag }

// Levels returns the currently active LevelSet.
func (s *Site) Levels() LevelSet { return LevelSet(s.levels.Load()) }

// setEmitter atomically installs emitter as the active destination. A nil
// emitter disables the site (every Log call becomes a no-op).
func (s *Site) setEmitter(e Emitter) {
	if e == nil {
		s.emitter.Store(nil)
		return
	}
	s.emitter.Store(&e)
}

// setLevels atomically installs levels as the active mask.
func (s *Site) setLevels(levels LevelSet) {
	s.levels.Store(uint32(levels))
}

// Log is the wait-free fast path: one relaxed atomic load of the emitter
// pointer and one bitset test, and only if both succeed is a Message built
// (via build) and handed to the emitter. Every allocation happens after
// the gate, never before it.
func (s *Site) Log(level Level, build func(*Message)) {
	if s == nil {
		return
	}
	ep := s.emitter.Load()
	if ep == nil {
		return
	}
	e := *ep
	if e == nil {
		return
	}
	if !LevelSet(s.levels.Load()).Get(level) {
		return
	}
	msg := newMessage(s, level, build)
	e.Emit(s, msg)
	msg.Release()
}
