// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/addonscout/addonscout/pkg/manifest"
)

func TestNewAddon_DisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		md   manifest.Metadata
		want string
	}{
		{"manifest name", manifest.FromPairs(manifest.Pair{Key: "name", Value: "Node Wrangler"}), "Node Wrangler"},
		{"empty name", manifest.FromPairs(manifest.Pair{Key: "name", Value: ""}), "node_wrangler"},
		{"no name", manifest.FromPairs(manifest.Pair{Key: "author", Value: "x"}), "node_wrangler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := NewAddon(KindDirectory, "/a/node_wrangler", "/a/node_wrangler/__init__.py", "node_wrangler", tt.md)
			if got := a.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddon_EditPath(t *testing.T) {
	t.Parallel()

	withManifest := NewAddon(KindDirectory, "/a/foo", "/a/foo/__init__.py", "foo", manifest.Metadata{})
	if got := withManifest.EditPath(); got != "/a/foo/__init__.py" {
		t.Errorf("EditPath() = %q, want the manifest", got)
	}

	bare := NewAddon(KindDirectory, "/a/bar", "", "bar", manifest.Metadata{})
	if got := bare.EditPath(); got != "/a/bar" {
		t.Errorf("EditPath() = %q, want the directory", got)
	}
}

func TestEntry_Label(t *testing.T) {
	t.Parallel()

	a := NewAddon(KindArchive, "/a/foo.zip", "/a/foo.zip", "foo", manifest.Metadata{})
	if got := (Entry{HostName: "Blender", VersionLabel: "4.2", Addon: a}).Label(); got != "foo (Blender 4.2)" {
		t.Errorf("Label() = %q", got)
	}
	if got := (Entry{VersionLabel: "3.6", Addon: a}).Label(); got != "foo (Blender 3.6)" {
		t.Errorf("Label() without host = %q", got)
	}
}

func TestAddon_MarshalJSON(t *testing.T) {
	t.Parallel()

	a := NewAddon(KindDirectory, "/a/foo", "/a/foo/__init__.py", "foo", manifest.FromPairs(
		manifest.Pair{Key: "name", Value: "Foo"},
		manifest.Pair{Key: "blender", Value: "4.2.0"},
		manifest.Pair{Key: "author", Value: "Ann"},
	))

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got := string(data)
	for _, want := range []string{`"name":"Foo"`, `"kind":"directory"`, `"manifest":"/a/foo/__init__.py"`} {
		if !strings.Contains(got, want) {
			t.Errorf("Marshal() = %s, missing %s", got, want)
		}
	}
	if strings.Index(got, `"blender"`) > strings.Index(got, `"author"`) {
		t.Errorf("metadata keys out of manifest order: %s", got)
	}
}
