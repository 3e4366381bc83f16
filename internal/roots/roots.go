// SPDX-License-Identifier: MPL-2.0

// Package roots maps the running operating system to the directories where the
// host application keeps its per-version user data.
package roots

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/addonscout/addonscout/pkg/platform"
)

// DefaultHost is the host application addonscout targets out of the box.
var DefaultHost = Host{Vendor: "Blender Foundation", Name: "Blender"}

// Host names the application whose data directories are resolved.
type Host struct {
	// Vendor is the publisher directory used on Windows (e.g. "Blender Foundation").
	// Empty means the application directory sits directly under the roaming profile.
	Vendor string
	// Name is the application directory name (e.g. "Blender"). Linux uses its
	// lowercase form under the XDG config directory.
	Name string
}

// Resolve returns the candidate root directories for goos with home as the
// user's home directory. An unrecognized goos yields an empty slice.
func Resolve(goos, home string, host Host) []string {
	if host.Name == "" {
		host = DefaultHost
	}

	var resolved []string
	switch goos {
	case platform.Windows:
		parts := []string{home, "AppData", "Roaming"}
		if host.Vendor != "" {
			parts = append(parts, host.Vendor)
		}
		resolved = append(resolved, filepath.Join(append(parts, host.Name)...))
	case platform.Darwin:
		resolved = append(resolved, filepath.Join(home, "Library", "Application Support", host.Name))
	case platform.Linux:
		resolved = append(resolved, filepath.Join(home, ".config", strings.ToLower(host.Name)))
	default:
		resolved = []string{}
	}

	slog.Debug("resolved host roots", "os", goos, "roots", resolved)
	return resolved
}

// Default resolves roots for the running process. When the home directory
// cannot be determined no roots are returned; the scan then simply finds no
// versions.
func Default(host Host) []string {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Warn("cannot determine home directory, no host roots resolved", "error", err)
		return []string{}
	}
	return Resolve(runtime.GOOS, home, host)
}
