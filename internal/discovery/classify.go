// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/addonscout/addonscout/pkg/manifest"
)

// Classifier turns a container entry into an Addon record.
type Classifier struct {
	fs        afero.Fs
	layout    Layout
	extractor *manifest.Extractor
}

// NewClassifier creates a Classifier reading from fsys with the given layout.
// A nil fsys means the operating system filesystem.
func NewClassifier(fsys afero.Fs, layout Layout) *Classifier {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	layout = layout.WithDefaults()
	return &Classifier{
		fs:        fsys,
		layout:    layout,
		extractor: manifest.New(manifest.WithBlockName(layout.BlockName)),
	}
}

// Classify builds the record for the entry at path. It never fails: archives
// get an archive placeholder, directories without a manifest or with an
// unusable one get a descriptive placeholder. Manifest read failures are added
// to sink, which may be nil.
func (c *Classifier) Classify(path string, sink *Diagnostics) Addon {
	name := filepath.Base(path)

	if c.layout.IsArchive(name) {
		stem := c.layout.ArchiveStem(name)
		slog.Debug("classified archive addon", "path", path)
		return NewAddon(KindArchive, path, path, stem, manifest.FromPairs(
			manifest.Pair{Key: "name", Value: stem},
			manifest.Pair{Key: "version", Value: ArchivedVersion},
			manifest.Pair{Key: "description", Value: ArchivedDescription},
		))
	}

	manifestPath := filepath.Join(path, c.layout.ManifestFile)
	if _, err := c.fs.Stat(manifestPath); errors.Is(err, fs.ErrNotExist) {
		slog.Debug("addon directory has no manifest", "path", path)
		return NewAddon(KindDirectory, path, "", name, placeholder(name, NoManifestMessage))
	}

	var rep manifest.Reporter
	if sink != nil {
		rep = sink
	}
	md, ok := c.extractor.ExtractFile(c.fs, manifestPath, rep)
	if !ok {
		slog.Debug("manifest yielded no metadata block", "path", manifestPath)
		return NewAddon(KindDirectory, path, manifestPath, name, placeholder(name, ParseFailedMessage))
	}
	return NewAddon(KindDirectory, path, manifestPath, name, md)
}

func placeholder(name, description string) manifest.Metadata {
	return manifest.FromPairs(
		manifest.Pair{Key: "name", Value: name},
		manifest.Pair{Key: "version", Value: UnknownVersion},
		manifest.Pair{Key: "description", Value: description},
	)
}
