// SPDX-License-Identifier: MPL-2.0

// Package platform names the operating system families addonscout knows how to
// resolve host application directories for.
package platform
