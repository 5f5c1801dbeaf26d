//go:build linux || darwin || freebsd || netbsd || openbsd

package loglatch

import (
	"io"

	"golang.org/x/term"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
