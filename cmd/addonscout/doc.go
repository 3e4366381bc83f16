// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for addonscout.
//
// The command tree is built by newRootCommand around an App, the composition
// root that owns the configuration provider, the scanner factory and the
// editor. Tests build an App with injected Dependencies and execute the tree
// directly; main calls Execute.
package cmd
