// SPDX-License-Identifier: MPL-2.0

// Package addontest builds host application layouts on an afero filesystem for
// discovery, CLI and watcher tests.
//
// Usage:
//
//	fsys := afero.NewMemMapFs()
//	tree := addontest.NewTree(t, fsys, "/blender")
//	tree.Addon("4.2", "node_wrangler", addontest.Manifest("name", `"Node Wrangler"`))
//	tree.Archive("4.2", "brushes.zip")
package addontest

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

const (
	// DefaultAddonDir mirrors the default addon container under a version.
	DefaultAddonDir = "scripts/addons"
	// DefaultManifestFile mirrors the default manifest name.
	DefaultManifestFile = "__init__.py"
)

type (
	// Tree writes fixtures below Root.
	Tree struct {
		t    testing.TB
		fs   afero.Fs
		Root string
		// AddonDir is the slash-separated container path under each version.
		AddonDir string
		// ManifestFile is the manifest written by Addon.
		ManifestFile string
	}

	// TreeOption configures a Tree.
	TreeOption func(*Tree)
)

// WithAddonDir overrides the container path.
func WithAddonDir(dir string) TreeOption {
	return func(tr *Tree) { tr.AddonDir = dir }
}

// WithManifestFile overrides the manifest file name.
func WithManifestFile(name string) TreeOption {
	return func(tr *Tree) { tr.ManifestFile = name }
}

// NewTree creates root on fsys and returns a builder for it.
func NewTree(t testing.TB, fsys afero.Fs, root string, opts ...TreeOption) *Tree {
	t.Helper()
	tr := &Tree{t: t, fs: fsys, Root: root, AddonDir: DefaultAddonDir, ManifestFile: DefaultManifestFile}
	for _, opt := range opts {
		opt(tr)
	}
	tr.mkdir(root)
	return tr
}

// Version creates an empty version directory and returns its path.
func (tr *Tree) Version(label string) string {
	tr.t.Helper()
	dir := filepath.Join(tr.Root, label)
	tr.mkdir(dir)
	return dir
}

// Container creates the addon container of a version and returns its path.
func (tr *Tree) Container(label string) string {
	tr.t.Helper()
	dir := filepath.Join(tr.Root, label, filepath.FromSlash(tr.AddonDir))
	tr.mkdir(dir)
	return dir
}

// Addon creates an addon directory with a manifest holding content and
// returns the addon directory.
func (tr *Tree) Addon(label, name, content string) string {
	tr.t.Helper()
	dir := filepath.Join(tr.Container(label), name)
	tr.write(filepath.Join(dir, tr.ManifestFile), content)
	return dir
}

// BareAddon creates an addon directory without a manifest.
func (tr *Tree) BareAddon(label, name string) string {
	tr.t.Helper()
	dir := filepath.Join(tr.Container(label), name)
	tr.mkdir(dir)
	return dir
}

// Archive creates an archive file in the container and returns its path.
func (tr *Tree) Archive(label, file string) string {
	tr.t.Helper()
	path := filepath.Join(tr.Container(label), file)
	tr.write(path, "PK\x03\x04")
	return path
}

// File writes content at a path relative to Root and returns the full path.
func (tr *Tree) File(rel, content string) string {
	tr.t.Helper()
	path := filepath.Join(tr.Root, filepath.FromSlash(rel))
	tr.write(path, content)
	return path
}

func (tr *Tree) mkdir(dir string) {
	tr.t.Helper()
	if err := tr.fs.MkdirAll(dir, 0o755); err != nil {
		tr.t.Fatalf("failed to create %s: %v", dir, err)
	}
}

func (tr *Tree) write(path, content string) {
	tr.t.Helper()
	tr.mkdir(filepath.Dir(path))
	if err := afero.WriteFile(tr.fs, path, []byte(content), 0o644); err != nil {
		tr.t.Fatalf("failed to write %s: %v", path, err)
	}
}

// Manifest renders a manifest whose metadata block holds the given key/value
// pairs. Values are written verbatim, so strings need their own quotes.
func Manifest(kv ...string) string {
	var sb strings.Builder
	sb.WriteString("import bpy\n\nbl_info = {\n")
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&sb, "    %q: %s,\n", kv[i], kv[i+1])
	}
	sb.WriteString("}\n\n\ndef register():\n    pass\n")
	return sb.String()
}
