package loglatch

import (
	"fmt"
	"os"
)

// diagnosticf writes a single line to stderr through the same pooled
// lineWriter the sink emitter uses, so the runtime's own fallback
// diagnostics (queue-full, write failures) share one text-rendering path
// with everything else instead of going through the stdlib log package.
func diagnosticf(format string, args ...any) {
	lw := acquireLineWriter(os.Stderr)
	defer releaseLineWriter(lw)
	lw.writeString(fmt.Sprintf(format, args...))
	lw.finishLine()
	lw.commit()
}
