// SPDX-License-Identifier: MPL-2.0

package platform

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// IsSupported reports whether goos is one of the families with a known
// per-user data directory convention.
func IsSupported(goos string) bool {
	switch goos {
	case Windows, Darwin, Linux:
		return true
	default:
		return false
	}
}
