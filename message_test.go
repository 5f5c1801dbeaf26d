package loglatch

import (
	"bytes"
	"errors"
	"testing"
)

func TestMessageFormatAndSerialize(t *testing.T) {
	m := newMessage(nil, InfoLevel, func(m *Message) {
		m.Format("connected to", "db01", 3)
	})
	defer m.Release()

	if m.Empty() {
		t.Fatalf("message should not be empty after Format")
	}
	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}

	var buf bytes.Buffer
	if err := m.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := `"connected to" "db01" 3`
	if buf.String() != want {
		t.Fatalf("Serialize() = %q, want %q", buf.String(), want)
	}
}

func TestMessageReflectOutOfRangeIsEmpty(t *testing.T) {
	m := newMessage(nil, InfoLevel, func(m *Message) { m.Format(42) })
	defer m.Release()

	r := m.Reflect(5)
	if r.Valid() {
		t.Fatalf("out-of-range Reflect should be invalid")
	}

	r0 := m.Reflect(0)
	if !r0.Valid() || r0.Value() != 42 {
		t.Fatalf("Reflect(0) = %+v, want valid with value 42", r0)
	}
}

func TestMessageSerializeError(t *testing.T) {
	m := newMessage(nil, ErrorLevel, func(m *Message) {
		m.Format(errors.New("boom"))
	})
	defer m.Release()

	var buf bytes.Buffer
	_ = m.Serialize(&buf)
	if buf.String() != `"boom"` {
		t.Fatalf("Serialize() = %q, want %q", buf.String(), `"boom"`)
	}
}

func TestMessageBufferRecycled(t *testing.T) {
	m1 := newMessage(nil, InfoLevel, func(m *Message) { m.Format("x") })
	buf1 := m1.buf
	m1.Release()

	m2 := acquireBuffer()
	defer releaseBuffer(m2)
	if len(m2.args) != 0 {
		t.Fatalf("recycled buffer should be cleared, got %v", m2.args)
	}
	_ = buf1
}
