// SPDX-License-Identifier: MPL-2.0

// Package tui provides the terminal views of addonscout built on Charm
// libraries: the interactive addon browser (Bubble Tea with Bubbles list,
// textinput and viewport), the detail and error panels shared with the plain
// CLI output, fuzzy filtering of entries, and a huh picker for ambiguous
// queries.
package tui
