//go:build aix || solaris || plan9 || zos

package loglatch

import (
	"io"

	"pkt.systems/loglatch/internal/istty"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return istty.IsTerminal(int(f.Fd()))
}
