// Package loglatch is a dynamic, structured logging runtime built around
// call-site descriptors (Site) whose emitter and level mask are decided at
// runtime by a priority-ordered set of policies (ConfigManager), rather
// than baked in at the call site.
//
// # Design overview
//
//   - Wait-free fast path: Site.Log does one relaxed atomic load of its
//     emitter pointer and one bitset test before it is willing to build a
//     Message and hand it to an Emitter. Disabled sites cost one load and
//     one branch.
//   - Lazy registration: a freshly constructed Site starts pointed at an
//     internal bootstrap emitter, which registers the site with the
//     default ConfigManager on its first Log call and forwards that same
//     message on to whatever policy matched.
//   - Policy reconciliation: ConfigManager holds policies in descending
//     priority order. Reassigning a site to a higher-priority policy always
//     releases the old policy's claim before the new one adopts it, so a
//     site is never simultaneously managed by two policies.
//   - Heterogeneous messages: Message is a reference-counted, pool-recycled
//     argument list; Message.Reflect exposes each argument's reflect.Type
//     and value without requiring the caller to know the argument types in
//     advance.
//   - Latency-bounded async dispatch: the latency and dispatch packages let
//     an Emitter forward work to a worker pool while bounding how long a
//     message can sit unflushed (see those packages' docs for the
//     producer-cache/depot/sweep design).
//
// # Usage
//
//	var dbSite = loglatch.NewSite("db")
//
//	func connect() {
//		dbSite.Log(loglatch.InfoLevel, func(m *loglatch.Message) {
//			m.Format("connected to", "db01")
//		})
//	}
//
// Without any configuration, the default ConfigManager installs a
// MatchAllPolicy that writes warnings and worse to stderr. Call
// loglatch.Default().InsertPolicy to change that, or build a private
// ConfigManager and wire Sites to it directly by calling InsertSite
// yourself.
package loglatch
