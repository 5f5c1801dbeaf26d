package loglatch

import (
	"io"
	"os"
	"sync"
)

// ownedCloser is implemented by writers this package wraps with its own
// Close semantics (see newOwnedOutput), distinguishing them from
// caller-supplied writers that SinkEmitter.Close must leave open.
type ownedCloser interface {
	ownedClose() error
}

// ownedOutput wraps a writer this package opened itself (e.g. via
// NewSinkEmitterToFile) so SinkEmitter.Close can close it, while a
// caller-supplied io.Writer passed to NewSinkEmitter is never closed on
// the caller's behalf.
type ownedOutput struct {
	writer   io.Writer
	closer   io.Closer
	closeErr error
	once     sync.Once
}

func newOwnedOutput(writer io.Writer, closer io.Closer) io.Writer {
	if writer == nil {
		writer = io.Discard
	}
	if closer == nil {
		return writer
	}
	if existing, ok := writer.(*ownedOutput); ok {
		return existing
	}
	return &ownedOutput{writer: writer, closer: closer}
}

func (o *ownedOutput) Write(p []byte) (int, error) {
	return o.writer.Write(p)
}

func (o *ownedOutput) Close() error {
	return o.ownedClose()
}

func (o *ownedOutput) ownedClose() error {
	o.once.Do(func() {
		if o.closer != nil {
			o.closeErr = o.closer.Close()
		}
	})
	return o.closeErr
}

// closeOutput closes w if it is something this package owns (an
// ownedOutput, or an *ObservedWriter wrapping one). os.Stdout/os.Stderr and
// plain caller-supplied writers are left alone.
func closeOutput(w io.Writer) error {
	if w == nil || w == os.Stdout || w == os.Stderr {
		return nil
	}
	if c, ok := w.(ownedCloser); ok {
		return c.ownedClose()
	}
	return nil
}
