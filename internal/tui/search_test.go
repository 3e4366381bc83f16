// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/addonscout/addonscout/internal/discovery"
	"github.com/addonscout/addonscout/pkg/manifest"
)

func entry(version, name string) discovery.Entry {
	md := manifest.FromPairs(manifest.Pair{Key: "name", Value: name})
	return discovery.Entry{
		HostName:     "Blender",
		VersionLabel: version,
		Addon:        discovery.NewAddon(discovery.KindDirectory, "/r/"+version+"/"+name, "", name, md),
	}
}

func labels(entries []discovery.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Label()
	}
	return out
}

func TestFilterAddons(t *testing.T) {
	t.Parallel()

	all := []discovery.Entry{
		entry("3.6", "Node Wrangler"),
		entry("4.2", "Rigify"),
		entry("4.2", "Node Arrange"),
		entry("4.2", "Bool Tool"),
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"blank returns all", "  ", labels(all)},
		{"substring keeps order", "node", []string{"Node Wrangler (Blender 3.6)", "Node Arrange (Blender 4.2)"}},
		{"case insensitive", "RIGI", []string{"Rigify (Blender 4.2)"}},
		{"inner substring", "ol T", []string{"Bool Tool (Blender 4.2)"}},
		{"fuzzy fallback", "NWr", []string{"Node Wrangler (Blender 3.6)"}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FilterAddons(all, tt.query)
			if diff := cmp.Diff(tt.want, labelsOrNil(got)); diff != "" {
				t.Errorf("FilterAddons(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestFilterAddons_DoesNotAliasInput(t *testing.T) {
	t.Parallel()

	all := []discovery.Entry{entry("4.2", "A"), entry("4.2", "B")}
	got := FilterAddons(all, "")
	got[0] = entry("9.9", "Z")

	if all[0].Addon.DisplayName() != "A" {
		t.Error("FilterAddons() returned a slice sharing the input's backing array")
	}
}

func labelsOrNil(entries []discovery.Entry) []string {
	if len(entries) == 0 {
		return nil
	}
	return labels(entries)
}
