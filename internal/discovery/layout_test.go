// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/addonscout/addonscout/internal/roots"
)

func TestLayout_WithDefaults(t *testing.T) {
	t.Parallel()

	got := Layout{HostName: "Bforartists", ArchiveExtensions: []string{".zip", ".7z"}}.WithDefaults()

	if got.HostName != "Bforartists" {
		t.Errorf("HostName = %q, want override kept", got.HostName)
	}
	if got.ManifestFile != DefaultManifestFile || got.AddonDir != DefaultAddonDir ||
		got.CacheDir != DefaultCacheDir || got.BlockName != "bl_info" {
		t.Errorf("defaults not filled: %+v", got)
	}
	if !slices.Equal(got.ArchiveExtensions, []string{".zip", ".7z"}) {
		t.Errorf("ArchiveExtensions = %v", got.ArchiveExtensions)
	}
}

func TestLayout_IsArchive(t *testing.T) {
	t.Parallel()

	layout := Layout{ArchiveExtensions: []string{".zip", "tar.gz"}}.WithDefaults()

	tests := []struct {
		name     string
		archive  bool
		wantStem string
	}{
		{"foo.zip", true, "foo"},
		{"Foo.ZIP", true, "Foo"},
		{"pack.tar.gz", true, "pack"},
		{"my.addon.zip", true, "my.addon"},
		{".zip", false, ".zip"},
		{"foo.zipx", false, "foo.zipx"},
		{"node_wrangler", false, "node_wrangler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := layout.IsArchive(tt.name); got != tt.archive {
				t.Errorf("IsArchive(%q) = %v, want %v", tt.name, got, tt.archive)
			}
			if got := layout.ArchiveStem(tt.name); got != tt.wantStem {
				t.Errorf("ArchiveStem(%q) = %q, want %q", tt.name, got, tt.wantStem)
			}
		})
	}
}

func TestLayout_ContainerPath(t *testing.T) {
	t.Parallel()

	got := DefaultLayout().ContainerPath(filepath.Join("root", "4.2"))
	want := filepath.Join("root", "4.2", "scripts", "addons")
	if got != want {
		t.Errorf("ContainerPath() = %q, want %q", got, want)
	}
}

func TestLayout_WithDefaultsVendor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		layout Layout
		want   string
	}{
		{"empty layout takes default vendor", Layout{}, DefaultVendor},
		{"custom host keeps empty vendor", Layout{HostName: "Bforartists"}, ""},
		{"explicit vendor kept", Layout{HostName: "Goo Engine", Vendor: "Dillon"}, "Dillon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.layout.WithDefaults().Vendor; got != tt.want {
				t.Errorf("Vendor = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHostFor(t *testing.T) {
	t.Parallel()

	if got := hostFor(DefaultLayout()); got != roots.DefaultHost {
		t.Errorf("hostFor(DefaultLayout()) = %+v, want %+v", got, roots.DefaultHost)
	}
	got := hostFor(Layout{HostName: "Goo Engine", Vendor: "Dillon"})
	if got.Name != "Goo Engine" || got.Vendor != "Dillon" {
		t.Errorf("hostFor(custom) = %+v", got)
	}
}
