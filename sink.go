package loglatch

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"pkt.systems/loglatch/ansi"
)

// SinkEmitter is the built-in text Emitter: every Emit call renders one
// line (timestamp, level, site, tag, serialized arguments) into a single
// pooled buffer and writes it to its destination with one Write call, so a
// burst of log calls costs one syscall per line rather than several.
type SinkEmitter struct {
	dst       io.Writer
	observed  *ObservedWriter
	colorize  bool
	timeCache *timeCache
	closed    atomic.Bool
}

// NewSinkEmitter builds a SinkEmitter writing to dst. dst is never closed
// by SinkEmitter.Close — it is assumed the caller owns it. Colour is
// enabled automatically when dst looks like a terminal.
func NewSinkEmitter(dst io.Writer) *SinkEmitter {
	return newSinkEmitter(dst, isTerminal(dst))
}

// NewSinkEmitterToFile opens path for appending (creating it if needed)
// and returns a SinkEmitter that owns the resulting file: SinkEmitter.Close
// closes it.
func NewSinkEmitterToFile(path string) (*SinkEmitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	owned := newOwnedOutput(f, f)
	return newSinkEmitter(owned, false), nil
}

func newSinkEmitter(dst io.Writer, colorize bool) *SinkEmitter {
	s := &SinkEmitter{colorize: colorize}
	s.observed = NewObservedWriter(dst, s.onWriteFailure)
	s.dst = s.observed
	s.timeCache = newTimeCache(time.RFC3339, false, formatRFC3339)
	return s
}

func (s *SinkEmitter) onWriteFailure(f WriteFailure) {
	diagnosticf("sink emitter write failed: attempted %d bytes, wrote %d: %v", f.Attempted, f.Written, f.Err)
}

// Emit implements Emitter.
func (s *SinkEmitter) Emit(site *Site, msg *Message) {
	if s == nil || s.closed.Load() {
		return
	}
	lw := acquireLineWriter(s.dst)
	defer releaseLineWriter(lw)
	lw.autoFlush = false

	s.appendPrefix(lw, site, msg.Level())
	lw.buf = msg.appendTo(lw.buf)
	lw.finishLine()
	lw.commit()
}

func (s *SinkEmitter) appendPrefix(lw *lineWriter, site *Site, level Level) {
	levelColor, levelTag := s.levelStyle(level)

	if s.colorize {
		lw.writeString(ansi.Timestamp)
	}
	lw.writeString(s.timeCache.Current())
	if s.colorize {
		lw.writeString(ansi.Reset)
	}
	lw.writeByte(' ')

	if s.colorize {
		lw.writeString(levelColor)
	}
	lw.writeString(levelTag)
	if s.colorize {
		lw.writeString(ansi.Reset)
	}
	lw.writeByte(' ')

	if site != nil {
		if s.colorize {
			lw.writeString(ansi.Site)
		}
		lw.writeString(site.Location())
		if s.colorize {
			lw.writeString(ansi.Reset)
		}
		lw.writeByte(' ')

		if s.colorize {
			lw.writeString(ansi.Tag)
		}
		lw.writeByte('[')
		lw.writeString(site.Tag())
		lw.writeByte(']')
		if s.colorize {
			lw.writeString(ansi.Reset)
		}
		lw.writeByte(' ')
	}
}

func (s *SinkEmitter) levelStyle(level Level) (color, tag string) {
	switch level {
	case CriticalLevel:
		return ansi.Critical, "CRITICAL"
	case ErrorLevel:
		return ansi.Error, "ERROR"
	case WarningLevel:
		return ansi.Warning, "WARNING"
	case InfoLevel:
		return ansi.Info, "INFO"
	case VerboseLevel:
		return ansi.Verbose, "VERBOSE"
	default:
		return "", "UNKNOWN"
	}
}

// Close stops the emitter's background timestamp refresh and closes its
// destination if SinkEmitter itself opened it (NewSinkEmitterToFile).
// Policies should be removed from any ConfigManager before Close is
// called, so no in-flight Emit races a closed destination.
func (s *SinkEmitter) Close() error {
	if s == nil || !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.timeCache.Close()
	return closeOutput(s.observed)
}
