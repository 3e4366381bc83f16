// SPDX-License-Identifier: MPL-2.0

package roots

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/addonscout/addonscout/internal/testutil"
	"github.com/addonscout/addonscout/pkg/platform"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	home := filepath.Join("home", "artist")

	tests := []struct {
		goos string
		want []string
	}{
		{platform.Windows, []string{filepath.Join(home, "AppData", "Roaming", "Blender Foundation", "Blender")}},
		{platform.Darwin, []string{filepath.Join(home, "Library", "Application Support", "Blender")}},
		{platform.Linux, []string{filepath.Join(home, ".config", "blender")}},
		{"freebsd", []string{}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run("os_"+tt.goos, func(t *testing.T) {
			t.Parallel()

			got := Resolve(tt.goos, home, DefaultHost)
			if got == nil {
				t.Fatal("Resolve() returned nil, want non-nil slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Resolve(%q) = %v, want %v", tt.goos, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Resolve(%q)[%d] = %q, want %q", tt.goos, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestResolve_CustomHost(t *testing.T) {
	t.Parallel()

	host := Host{Name: "Krita"}
	home := "/h"

	if got := Resolve(platform.Windows, home, host); got[0] != filepath.Join(home, "AppData", "Roaming", "Krita") {
		t.Errorf("windows root without vendor = %q", got[0])
	}
	if got := Resolve(platform.Linux, home, host); got[0] != filepath.Join(home, ".config", "krita") {
		t.Errorf("linux root = %q, want lowercase application directory", got[0])
	}
}

func TestResolve_EmptyHostFallsBackToDefault(t *testing.T) {
	t.Parallel()

	got := Resolve(platform.Linux, "/h", Host{})
	if want := filepath.Join("/h", ".config", "blender"); got[0] != want {
		t.Errorf("Resolve() = %q, want %q", got[0], want)
	}
}

func TestDefault_UsesHomeDirectory(t *testing.T) {
	if !platform.IsSupported(runtime.GOOS) {
		t.Skipf("no root convention for %s", runtime.GOOS)
	}
	if runtime.GOOS == platform.Darwin {
		t.Skip("os.UserHomeDir does not reliably honor HOME overrides on macOS CI")
	}

	home := t.TempDir()
	testutil.SetHomeDir(t, home)

	got := Default(DefaultHost)
	if len(got) != 1 {
		t.Fatalf("Default() = %v, want exactly one root", got)
	}
	want := Resolve(runtime.GOOS, home, DefaultHost)[0]
	if got[0] != want {
		t.Errorf("Default() = %q, want %q", got[0], want)
	}
}
