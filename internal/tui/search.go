// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/addonscout/addonscout/internal/discovery"
)

// entrySource adapts entries to fuzzy.Source over their display names.
type entrySource []discovery.Entry

func (s entrySource) String(i int) string { return s[i].Addon.DisplayName() }
func (s entrySource) Len() int            { return len(s) }

// FilterAddons returns the entries whose display name contains query,
// ignoring case, in their original order. When nothing contains the query,
// fuzzy matches are returned best first. A blank query returns every entry.
// all is never modified.
func FilterAddons(all []discovery.Entry, query string) []discovery.Entry {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]discovery.Entry(nil), all...)
	}

	needle := strings.ToLower(query)
	var out []discovery.Entry
	for _, e := range all {
		if strings.Contains(strings.ToLower(e.Addon.DisplayName()), needle) {
			out = append(out, e)
		}
	}
	if len(out) > 0 {
		return out
	}

	for _, m := range fuzzy.FindFrom(query, entrySource(all)) {
		out = append(out, all[m.Index])
	}
	return out
}
