//go:build windows

package loglatch

import (
	"io"
	"syscall"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	var st uint32
	if syscall.GetConsoleMode(syscall.Handle(f.Fd()), &st) != nil {
		return false
	}
	return true
}
