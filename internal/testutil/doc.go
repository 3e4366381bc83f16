// SPDX-License-Identifier: MPL-2.0

// Package testutil holds small test helpers that fail the test instead of
// returning errors: MustWriteFile, SetHomeDir and StripANSI for styled output.
// In-memory Blender data directories are built with the addontest subpackage.
package testutil
