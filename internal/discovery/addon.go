// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"encoding/json"
	"fmt"

	"github.com/addonscout/addonscout/pkg/manifest"
)

const (
	// KindDirectory is an unpacked addon directory.
	KindDirectory AddonKind = "directory"
	// KindArchive is a packaged, uninstalled addon archive.
	KindArchive AddonKind = "archive"
)

// Placeholder metadata values for addons whose manifest yields nothing usable.
const (
	UnknownVersion      = "N/A"
	ArchivedVersion     = "N/A (archived)"
	ArchivedDescription = "Uninstalled addon (archive)"
	ParseFailedMessage  = "Failed to parse manifest"
	NoManifestMessage   = "No manifest found"
)

type (
	// AddonKind distinguishes directory addons from archives.
	AddonKind string

	// Addon is one discovered addon. It is immutable once constructed.
	Addon struct {
		kind         AddonKind
		displayName  string
		metadata     manifest.Metadata
		sourcePath   string
		manifestPath string
		fallbackName string
	}

	// Version is one installed host version and the addons found under it.
	Version struct {
		// Label is the literal version directory name.
		Label string `json:"label"`
		// RootPath is the root directory the version was found in.
		RootPath string `json:"root"`
		// Path is the version directory itself.
		Path string `json:"path"`
		// Addons are in traversal order.
		Addons []Addon `json:"addons"`
	}

	// ScanResult is the outcome of one scan. Only versions with at least one
	// addon are present.
	ScanResult struct {
		HostName    string       `json:"host"`
		Versions    []Version    `json:"versions"`
		Errors      []string     `json:"errors"`
		Diagnostics []Diagnostic `json:"-"`
	}

	// Entry pairs an addon with the version it was found under.
	Entry struct {
		HostName     string
		VersionLabel string
		Addon        Addon
	}
)

// NewAddon builds an Addon. The display name is the manifest "name" when it is
// present and non-empty, otherwise fallbackName.
func NewAddon(kind AddonKind, sourcePath, manifestPath, fallbackName string, md manifest.Metadata) Addon {
	display := fallbackName
	if name, ok := md.Get("name"); ok && name != "" {
		display = name
	}
	return Addon{
		kind:         kind,
		displayName:  display,
		metadata:     md,
		sourcePath:   sourcePath,
		manifestPath: manifestPath,
		fallbackName: fallbackName,
	}
}

// Kind returns whether the addon is a directory or an archive.
func (a Addon) Kind() AddonKind { return a.kind }

// DisplayName returns the name shown to users. It is never empty for addons
// produced by a Classifier.
func (a Addon) DisplayName() string { return a.displayName }

// Metadata returns the decoded manifest block or the placeholder record.
func (a Addon) Metadata() manifest.Metadata { return a.metadata }

// SourcePath returns the addon directory or archive path.
func (a Addon) SourcePath() string { return a.sourcePath }

// ManifestPath returns the manifest file for directory addons and the archive
// path for archives.
func (a Addon) ManifestPath() string { return a.manifestPath }

// EditPath returns the file an editor should open: the manifest when there
// is one, otherwise the addon directory or archive.
func (a Addon) EditPath() string {
	if a.manifestPath != "" {
		return a.manifestPath
	}
	return a.sourcePath
}

// FallbackName returns the directory name or archive stem.
func (a Addon) FallbackName() string { return a.fallbackName }

// Equal reports whether two addons carry the same content.
func (a Addon) Equal(other Addon) bool {
	return a.kind == other.kind &&
		a.displayName == other.displayName &&
		a.sourcePath == other.sourcePath &&
		a.manifestPath == other.manifestPath &&
		a.fallbackName == other.fallbackName &&
		a.metadata.Equal(other.metadata)
}

// MarshalJSON encodes the addon with its metadata in manifest order.
func (a Addon) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name     string            `json:"name"`
		Kind     AddonKind         `json:"kind"`
		Path     string            `json:"path"`
		Manifest string            `json:"manifest,omitempty"`
		Metadata manifest.Metadata `json:"metadata"`
	}{a.displayName, a.kind, a.sourcePath, a.manifestPath, a.metadata})
}

// AddonCount returns the number of addons across all versions.
func (r ScanResult) AddonCount() int {
	n := 0
	for _, v := range r.Versions {
		n += len(v.Addons)
	}
	return n
}

// Entries flattens the result into version/addon pairs in listing order.
func (r ScanResult) Entries() []Entry {
	entries := make([]Entry, 0, r.AddonCount())
	for _, v := range r.Versions {
		for _, a := range v.Addons {
			entries = append(entries, Entry{HostName: r.HostName, VersionLabel: v.Label, Addon: a})
		}
	}
	return entries
}

// Label returns the listing label, e.g. "Node Wrangler (Blender 4.2)".
func (e Entry) Label() string {
	host := e.HostName
	if host == "" {
		host = DefaultHostName
	}
	return fmt.Sprintf("%s (%s %s)", e.Addon.DisplayName(), host, e.VersionLabel)
}
