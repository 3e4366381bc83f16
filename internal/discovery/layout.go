// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/addonscout/addonscout/pkg/manifest"
)

const (
	// DefaultHostName is the host application shown in listing labels.
	DefaultHostName = "Blender"
	// DefaultVendor publishes DefaultHostName.
	DefaultVendor = "Blender Foundation"
	// DefaultManifestFile is the file that marks a directory as an addon.
	DefaultManifestFile = "__init__.py"
	// DefaultAddonDir is the addon container, relative to a version directory.
	DefaultAddonDir = "scripts/addons"
	// DefaultCacheDir is the bytecode cache directory skipped inside containers.
	DefaultCacheDir = "__pycache__"
	// DefaultArchiveExtension marks packaged, uninstalled addons.
	DefaultArchiveExtension = ".zip"
)

// Layout describes where the host application keeps addons and how they are
// recognized. Zero-valued fields take the defaults above.
type Layout struct {
	// HostName is the application name used in labels (e.g. "Blender").
	HostName string
	// Vendor is the publisher directory used when resolving Windows roots.
	Vendor string
	// ManifestFile is the file name looked up inside each addon directory.
	ManifestFile string
	// BlockName is the identifier the metadata block is assigned to.
	BlockName string
	// AddonDir is the slash-separated container path under a version directory.
	AddonDir string
	// CacheDir is skipped by exact name when enumerating a container.
	CacheDir string
	// ArchiveExtensions lists archive suffixes including the dot.
	// Matching is case-insensitive.
	ArchiveExtensions []string
}

// DefaultLayout returns the Blender layout.
func DefaultLayout() Layout {
	return Layout{
		HostName:          DefaultHostName,
		Vendor:            DefaultVendor,
		ManifestFile:      DefaultManifestFile,
		BlockName:         manifest.DefaultBlockName,
		AddonDir:          DefaultAddonDir,
		CacheDir:          DefaultCacheDir,
		ArchiveExtensions: []string{DefaultArchiveExtension},
	}
}

// WithDefaults returns a copy of l where every empty field is filled from
// DefaultLayout.
func (l Layout) WithDefaults() Layout {
	def := DefaultLayout()
	if l.HostName == "" {
		l.HostName = def.HostName
		if l.Vendor == "" {
			l.Vendor = def.Vendor
		}
	}
	if l.ManifestFile == "" {
		l.ManifestFile = def.ManifestFile
	}
	if l.BlockName == "" {
		l.BlockName = def.BlockName
	}
	if l.AddonDir == "" {
		l.AddonDir = def.AddonDir
	}
	if l.CacheDir == "" {
		l.CacheDir = def.CacheDir
	}
	if len(l.ArchiveExtensions) == 0 {
		l.ArchiveExtensions = def.ArchiveExtensions
	} else {
		l.ArchiveExtensions = slices.Clone(l.ArchiveExtensions)
	}
	return l
}

// IsArchive reports whether name carries one of the archive extensions. A name
// that is only the extension (".zip") is a hidden file, not an archive.
func (l Layout) IsArchive(name string) bool {
	return l.archiveExt(name) != ""
}

// ArchiveStem returns name without its archive extension. Names that are not
// archives are returned unchanged.
func (l Layout) ArchiveStem(name string) string {
	if ext := l.archiveExt(name); ext != "" {
		return name[:len(name)-len(ext)]
	}
	return name
}

// ContainerPath returns the addon container for a version directory.
func (l Layout) ContainerPath(versionDir string) string {
	return filepath.Join(versionDir, filepath.FromSlash(l.AddonDir))
}

func (l Layout) archiveExt(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range l.ArchiveExtensions {
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if len(lower) > len(ext) && strings.HasSuffix(lower, strings.ToLower(ext)) {
			return ext
		}
	}
	return ""
}
