// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/addonscout/addonscout/internal/discovery"
)

// NotAvailable is shown for missing detail values.
const NotAvailable = "N/A"

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorError   = lipgloss.Color("#EF4444")
	colorSuccess = lipgloss.Color("#10B981")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	headerStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	cursorStyle  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)

// DetailLines returns the rows of an addon's detail panel: the author header,
// the addon path, then every other metadata key in manifest order. The name
// and author keys are not repeated.
func DetailLines(a discovery.Addon) []string {
	md := a.Metadata()
	author, ok := md.Get("author")
	if !ok {
		author = NotAvailable
	}

	lines := []string{
		"Author: " + author,
		"Path: " + a.SourcePath(),
	}
	for key, value := range md.All() {
		if key == "name" || key == "author" {
			continue
		}
		lines = append(lines, Capitalize(key)+": "+value)
	}
	return lines
}

// RenderDetail renders the detail panel for e, wrapping long values to width
// columns. width <= 0 disables wrapping.
func RenderDetail(e discovery.Entry, width int) string {
	lines := DetailLines(e.Addon)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(e.Label()))
	sb.WriteString("\n")
	sb.WriteString(headerStyle.Render(lines[0]))
	for _, line := range lines[1:] {
		sb.WriteString("\n")
		if width > 0 {
			line = wordwrap.String(line, width)
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// RenderErrors renders the scan error panel.
func RenderErrors(errs []string, width int) string {
	if len(errs) == 0 {
		return successStyle.Render(NoErrorsMessage)
	}
	lines := make([]string, len(errs))
	for i, e := range errs {
		if width > 0 {
			e = wordwrap.String(e, width)
		}
		lines[i] = errorStyle.Render(e)
	}
	return strings.Join(lines, "\n")
}

// Capitalize upper-cases the first character of s and lower-cases the rest,
// so "doc_url" becomes "Doc_url" and "BLENDER" becomes "Blender".
func Capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
