// SPDX-License-Identifier: MPL-2.0

package addontest

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// DenyFs wraps an afero.Fs and fails selected paths with a permission error,
// which lets tests exercise access failures regardless of the user running them.
type DenyFs struct {
	afero.Fs

	mu   sync.RWMutex
	open map[string]bool
	stat map[string]bool
}

// NewDenyFs wraps base.
func NewDenyFs(base afero.Fs) *DenyFs {
	return &DenyFs{Fs: base, open: make(map[string]bool), stat: make(map[string]bool)}
}

// DenyOpen makes Open and OpenFile of path fail. Listing a denied directory
// and reading a denied file both go through Open.
func (d *DenyFs) DenyOpen(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open[filepath.Clean(path)] = true
}

// DenyStat makes Stat of path fail.
func (d *DenyFs) DenyStat(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stat[filepath.Clean(path)] = true
}

// Allow lifts every denial for path.
func (d *DenyFs) Allow(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.open, filepath.Clean(path))
	delete(d.stat, filepath.Clean(path))
}

// Open implements afero.Fs.
func (d *DenyFs) Open(name string) (afero.File, error) {
	if d.denied(d.open, name) {
		return nil, &os.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return d.Fs.Open(name)
}

// OpenFile implements afero.Fs.
func (d *DenyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if d.denied(d.open, name) {
		return nil, &os.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return d.Fs.OpenFile(name, flag, perm)
}

// Stat implements afero.Fs.
func (d *DenyFs) Stat(name string) (os.FileInfo, error) {
	if d.denied(d.stat, name) {
		return nil, &os.PathError{Op: "stat", Path: name, Err: fs.ErrPermission}
	}
	return d.Fs.Stat(name)
}

func (d *DenyFs) denied(set map[string]bool, name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return set[filepath.Clean(name)]
}
