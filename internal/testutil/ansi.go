// SPDX-License-Identifier: MPL-2.0

package testutil

import "regexp"

// ansiPattern matches ANSI escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// StripANSI removes ANSI escape sequences so styled output can be compared
// regardless of the terminal the tests run in.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
