package loglatch

import (
	"fmt"
	"io"
	"reflect"
)

// Message is a heterogeneous, reference-counted container for a single log
// record's captured arguments. Messages are built on the Site's fast path
// from a pool-recycled buffer (see buffer.go) and are safe to retain past
// the call that produced them as long as Retain/Release are balanced —
// DeferredEmitter relies on this to hand a Message to a worker goroutine.
type Message struct {
	site *Site
	level Level
	buf  *messageBuffer
}

// newMessage builds a Message for site/level, running build against it so
// the caller can populate its arguments before the emitter sees it.
func newMessage(site *Site, level Level, build func(*Message)) *Message {
	m := &Message{site: site, level: level, buf: acquireBuffer()}
	if build != nil {
		build(m)
	}
	return m
}

// Site returns the call site that produced this message.
func (m *Message) Site() *Site { return m.site }

// Level returns the severity this message was logged at.
func (m *Message) Level() Level { return m.level }

// Format appends args to the message's argument list. It may be called
// more than once; arguments accumulate in call order.
func (m *Message) Format(args ...any) {
	if m == nil || m.buf == nil {
		return
	}
	m.buf.args = append(m.buf.args, args...)
}

// Empty reports whether the message has no captured arguments.
func (m *Message) Empty() bool {
	return m == nil || m.buf == nil || len(m.buf.args) == 0
}

// Len returns the number of captured arguments.
func (m *Message) Len() int {
	if m == nil || m.buf == nil {
		return 0
	}
	return len(m.buf.args)
}

// Retain increments the message's reference count. Pair with Release.
func (m *Message) Retain() {
	if m != nil && m.buf != nil {
		m.buf.retain()
	}
}

// Release decrements the message's reference count, returning its buffer
// to the pool once the count reaches zero.
func (m *Message) Release() {
	if m != nil && m.buf != nil {
		m.buf.release()
	}
}

// Serialize writes a plain-text rendering of the message's arguments,
// space-separated, to w. String arguments are escaped the same way the
// sink emitter escapes them.
func (m *Message) Serialize(w io.Writer) error {
	if m == nil || m.buf == nil {
		return nil
	}
	_, err := w.Write(m.appendTo(make([]byte, 0, 64)))
	return err
}

// appendTo appends the message's space-separated, quoted-string rendering
// to dst and returns the grown slice. SinkEmitter uses this directly so a
// whole log line is assembled in one buffer before the single underlying
// Write call.
func (m *Message) appendTo(dst []byte) []byte {
	if m == nil || m.buf == nil {
		return dst
	}
	for i, arg := range m.buf.args {
		if i > 0 {
			dst = append(dst, ' ')
		}
		dst = appendArg(dst, arg)
	}
	return dst
}

func appendArg(dst []byte, arg any) []byte {
	switch v := arg.(type) {
	case string:
		dst = append(dst, '"')
		dst = appendMessageEscaped(dst, v)
		dst = append(dst, '"')
		return dst
	case error:
		dst = append(dst, '"')
		dst = appendMessageEscaped(dst, v.Error())
		dst = append(dst, '"')
		return dst
	case fmt.Stringer:
		dst = append(dst, '"')
		dst = appendMessageEscaped(dst, v.String())
		dst = append(dst, '"')
		return dst
	default:
		return fmt.Append(dst, v)
	}
}

// Reflection is a typed, read-only view over one captured argument,
// returned by Message.Reflect. Go has no reference semantics distinct from
// pointers, so IsReference is always false; it is kept for parity with the
// reflection model this is ported from.
type Reflection struct {
	valid      bool
	typ        reflect.Type
	value      any
	IsConst    bool
	IsPointer  bool
	IsReference bool
	IsArray    bool
	IsDecayed  bool
}

// Valid reports whether the reflection refers to a real argument.
func (r Reflection) Valid() bool { return r.valid }

// Type returns the argument's reflect.Type, or nil for an invalid
// reflection.
func (r Reflection) Type() reflect.Type { return r.typ }

// Value returns the argument's boxed value.
func (r Reflection) Value() any { return r.value }

// Reflect returns a Reflection over the i-th captured argument. An
// out-of-range index returns the zero Reflection (Valid() == false), per
// the runtime's convention of never panicking on malformed call-site use.
func (m *Message) Reflect(i int) Reflection {
	if m == nil || m.buf == nil || i < 0 || i >= len(m.buf.args) {
		return Reflection{}
	}
	v := m.buf.args[i]
	t := reflect.TypeOf(v)
	r := Reflection{
		valid: true,
		typ:   t,
		value: v,
		IsConst: true,
	}
	if t != nil {
		r.IsPointer = t.Kind() == reflect.Pointer
		r.IsArray = t.Kind() == reflect.Array || t.Kind() == reflect.Slice
		r.IsDecayed = r.IsArray
	}
	return r
}
