package loglatch

// Emitter is the sink-agnostic destination for emitted messages. A Site
// holds one Emitter at a time behind an atomic pointer; the ConfigManager
// is the only thing that changes which Emitter a Site points at.
//
// Implementations must never call back into a ConfigManager from Emit —
// doing so from inside a policy update would deadlock against the manager's
// own lock. The one exception is this package's internal bootstrap
// emitter, which registers its site with the default ConfigManager.
type Emitter interface {
	Emit(site *Site, msg *Message)
}

// NoopEmitter discards every message. It is useful as an explicit "silence
// this tag" policy destination, distinct from simply not matching any
// policy (which also discards, but leaves the site unmanaged).
type NoopEmitter struct{}

// Emit implements Emitter by doing nothing.
func (NoopEmitter) Emit(*Site, *Message) {}

// bootstrapEmitter is installed into every new Site. Its only job is to
// register the site with the default ConfigManager the first time it is
// asked to emit, then forward that same message on to whatever real
// emitter the registration produced.
type bootstrapEmitter struct{}

func (bootstrapEmitter) Emit(site *Site, msg *Message) {
	Default().InsertSite(site)
	ep := site.emitter.Load()
	if ep == nil {
		return
	}
	e := *ep
	if e == nil || isBootstrap(e) {
		return
	}
	e.Emit(site, msg)
}

func isBootstrap(e Emitter) bool {
	_, ok := e.(bootstrapEmitter)
	return ok
}
