package loglatch

import "testing"

func TestNoopEmitterDiscards(t *testing.T) {
	var e Emitter = NoopEmitter{}
	msg := newMessage(nil, InfoLevel, func(m *Message) { m.Format("x") })
	defer msg.Release()
	e.Emit(nil, msg)
}

func TestIsBootstrap(t *testing.T) {
	if !isBootstrap(bootstrapEmitter{}) {
		t.Fatalf("bootstrapEmitter should report isBootstrap true")
	}
	if isBootstrap(NoopEmitter{}) {
		t.Fatalf("NoopEmitter should not report isBootstrap true")
	}
}
