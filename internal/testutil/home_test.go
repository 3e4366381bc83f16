// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"runtime"
	"testing"
)

func TestSetHomeDir(t *testing.T) {
	envVar := "HOME"
	if runtime.GOOS == "windows" {
		envVar = "USERPROFILE"
	}
	original := os.Getenv(envVar)
	dir := t.TempDir()

	t.Run("subtest", func(t *testing.T) {
		SetHomeDir(t, dir)
		if got := os.Getenv(envVar); got != dir {
			t.Errorf("%s = %q, want %q", envVar, got, dir)
		}
		if home, err := os.UserHomeDir(); err == nil && runtime.GOOS != "darwin" && home != dir {
			t.Errorf("os.UserHomeDir() = %q, want %q", home, dir)
		}
	})

	if got := os.Getenv(envVar); got != original {
		t.Errorf("after subtest %s = %q, want %q", envVar, got, original)
	}
}
