// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether both stdin and stdout are terminals, which the
// browser requires.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the width of stdout, or fallback when it is not a
// terminal.
func TerminalWidth(fallback int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
