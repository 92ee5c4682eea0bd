// Package termfix sets environment variables to fix Warp terminal delays.
// Import this package FIRST (before any lipgloss/termenv imports) using:
//
//	_ "github.com/wahlandcase/gitweb/internal/termfix"
//
// Set GITWEB_NO_TERMFIX=1 to leave the environment alone.
package termfix

import "os"

func init() {
	apply(os.Getenv, os.Setenv)
}

// apply rewrites TERM for Warp. It reports whether anything changed.
func apply(getenv func(string) string, setenv func(string, string) error) bool {
	if getenv("GITWEB_NO_TERMFIX") != "" {
		return false
	}
	if getenv("TERM_PROGRAM") != "WarpTerminal" {
		return false
	}
	_ = setenv("TERM", "dumb")
	_ = setenv("COLORTERM", "truecolor")
	return true
}
