// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"cmp"
	"slices"

	"github.com/Masterminds/semver/v3"
)

// SortVersions returns a copy of versions ordered by semantic version, oldest
// first. Labels that do not parse (such as "2..0") follow the parseable ones in
// lexical order. Versions with equal labels keep their traversal order.
func SortVersions(versions []Version) []Version {
	type keyed struct {
		v      Version
		parsed *semver.Version
	}

	items := make([]keyed, len(versions))
	for i, v := range versions {
		parsed, err := semver.NewVersion(v.Label)
		if err != nil {
			parsed = nil
		}
		items[i] = keyed{v: v, parsed: parsed}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case a.parsed != nil && b.parsed != nil:
			return a.parsed.Compare(b.parsed)
		case a.parsed != nil:
			return -1
		case b.parsed != nil:
			return 1
		default:
			return cmp.Compare(a.v.Label, b.v.Label)
		}
	})

	out := make([]Version, len(items))
	for i, it := range items {
		out[i] = it.v
	}
	return out
}
