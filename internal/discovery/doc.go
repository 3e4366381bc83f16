// SPDX-License-Identifier: MPL-2.0

// Package discovery finds installed addons for every installed version of the
// host application.
//
// A scan walks each root directory, accepts version directories by name,
// enters each version's addon container and classifies the entries it finds
// there. Classification never fails: a directory without a manifest, an
// unparseable manifest and a packaged archive all produce a placeholder
// record. Problems encountered on the way are collected as Diagnostics on the
// ScanResult and never returned as errors.
//
// File organization:
//   - layout.go: host filesystem conventions (Layout)
//   - addon.go: result types (Addon, Version, ScanResult)
//   - classify.go: entry classification (Classifier)
//   - scanner.go: traversal (Scanner)
//   - sort.go: semantic version ordering (SortVersions)
//   - diagnostic.go: structured non-fatal diagnostics
package discovery
