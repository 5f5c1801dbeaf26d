// Package istty reports whether a file descriptor refers to a terminal on
// platforms not covered by golang.org/x/term.
package istty

// IsTerminal reports whether fd is a terminal.
func IsTerminal(fd int) bool {
	return isTerminal(fd)
}
