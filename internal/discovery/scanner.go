// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/addonscout/addonscout/internal/roots"
)

type (
	// Scanner walks root directories for installed versions and their addons.
	// Scan calls may be issued from several goroutines; each builds its own
	// result and the most recent one is published through Result.
	Scanner struct {
		fs         afero.Fs
		roots      []string
		rootsSet   bool
		extraRoots []string
		layout     Layout
		classifier *Classifier

		mu        sync.RWMutex
		result    ScanResult
		hasResult bool
	}

	// Option configures a Scanner.
	Option func(*Scanner)

	// scanPass holds the state of a single Scan call.
	scanPass struct {
		ctx      context.Context
		diags    Diagnostics
		canceled bool
	}
)

// WithFs sets the filesystem to scan. Defaults to the operating system filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(s *Scanner) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

// WithRoots replaces the resolved per-OS roots.
func WithRoots(dirs ...string) Option {
	return func(s *Scanner) {
		s.roots = slices.Clone(dirs)
		s.rootsSet = true
	}
}

// WithExtraRoots appends roots after the resolved (or replaced) ones.
func WithExtraRoots(dirs ...string) Option {
	return func(s *Scanner) {
		s.extraRoots = append(s.extraRoots, dirs...)
	}
}

// WithLayout sets the host filesystem conventions.
func WithLayout(layout Layout) Option {
	return func(s *Scanner) {
		s.layout = layout
	}
}

// NewScanner creates a Scanner. Unless WithRoots is given, roots are resolved
// once here for the running operating system.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{fs: afero.NewOsFs(), layout: DefaultLayout()}
	for _, opt := range opts {
		opt(s)
	}
	s.layout = s.layout.WithDefaults()
	if !s.rootsSet {
		s.roots = roots.Default(hostFor(s.layout))
	}
	s.roots = dedupe(append(s.roots, s.extraRoots...))
	s.classifier = NewClassifier(s.fs, s.layout)
	return s
}

// Roots returns the directories scanned, in order.
func (s *Scanner) Roots() []string { return slices.Clone(s.roots) }

// Layout returns the effective layout.
func (s *Scanner) Layout() Layout { return s.layout }

// Result returns the most recently published scan result, and false when no
// scan has completed yet.
func (s *Scanner) Result() (ScanResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.hasResult
}

// Scan walks every root and returns a fresh result that replaces the
// previously published one. It never fails; problems are reported as
// diagnostics. ctx is checked between entries; a canceled scan returns what it
// found so far plus a cancellation diagnostic.
func (s *Scanner) Scan(ctx context.Context) ScanResult {
	p := &scanPass{ctx: ctx}
	versions := make([]Version, 0)

	for _, root := range s.roots {
		if p.stopped() {
			break
		}
		versions = append(versions, s.scanRoot(p, root)...)
	}

	result := ScanResult{
		HostName:    s.layout.HostName,
		Versions:    versions,
		Errors:      p.diags.Messages(),
		Diagnostics: p.diags.Items(),
	}
	slog.Debug("scan complete", "versions", len(result.Versions), "addons", result.AddonCount(), "errors", len(result.Errors))

	s.mu.Lock()
	s.result = result
	s.hasResult = true
	s.mu.Unlock()

	return result
}

func (s *Scanner) scanRoot(p *scanPass, root string) []Version {
	info, err := s.fs.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("root does not exist", "root", root)
			return nil
		}
		p.report(CodeRootUnreadable, root, err)
		return nil
	}
	if !info.IsDir() {
		slog.Debug("root is not a directory", "root", root)
		return nil
	}

	entries, err := afero.ReadDir(s.fs, root)
	if err != nil {
		p.report(CodeRootUnreadable, root, err)
		return nil
	}

	var versions []Version
	for _, entry := range entries {
		if p.stopped() {
			break
		}
		versionDir := filepath.Join(root, entry.Name())
		if !IsVersionLabel(entry.Name()) || !s.isDir(versionDir, entry) {
			continue
		}
		if v, ok := s.scanVersion(p, root, entry.Name()); ok {
			versions = append(versions, v)
		}
	}
	return versions
}

func (s *Scanner) scanVersion(p *scanPass, root, label string) (Version, bool) {
	versionDir := filepath.Join(root, label)
	container := s.layout.ContainerPath(versionDir)

	info, err := s.fs.Stat(container)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			p.report(CodeContainerUnreadable, container, err)
		}
		return Version{}, false
	}
	if !info.IsDir() {
		return Version{}, false
	}

	entries, err := afero.ReadDir(s.fs, container)
	if err != nil {
		p.report(CodeContainerUnreadable, container, err)
		return Version{}, false
	}

	v := Version{Label: label, RootPath: root, Path: versionDir}
	for _, entry := range entries {
		if p.stopped() {
			break
		}
		path := filepath.Join(container, entry.Name())
		isDir := s.isDir(path, entry)
		if isDir && entry.Name() == s.layout.CacheDir {
			continue
		}
		if !s.qualifies(p, path, isDir) {
			continue
		}
		v.Addons = append(v.Addons, s.classifier.Classify(path, &p.diags))
	}

	if len(v.Addons) == 0 {
		slog.Debug("version has no addons", "version", label, "container", container)
		return Version{}, false
	}
	return v, true
}

// qualifies reports whether a container entry is an archive or a directory
// holding a manifest file.
func (s *Scanner) qualifies(p *scanPass, path string, isDir bool) bool {
	if s.layout.IsArchive(filepath.Base(path)) {
		return true
	}
	if !isDir {
		return false
	}
	_, err := s.fs.Stat(filepath.Join(path, s.layout.ManifestFile))
	switch {
	case err == nil:
		return true
	case errors.Is(err, fs.ErrNotExist):
		return false
	default:
		p.report(CodeEntryFailed, path, err)
		return false
	}
}

// isDir resolves symlinked entries so linked version and addon directories
// are treated like real ones.
func (s *Scanner) isDir(path string, info os.FileInfo) bool {
	if info.Mode()&os.ModeSymlink == 0 {
		return info.IsDir()
	}
	target, err := s.fs.Stat(path)
	return err == nil && target.IsDir()
}

// IsVersionLabel reports whether name looks like a version directory: with
// every "." removed it must be a non-empty run of ASCII digits. Labels such
// as "2..0" are accepted.
func IsVersionLabel(name string) bool {
	digits := strings.ReplaceAll(name, ".", "")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (p *scanPass) stopped() bool {
	if p.canceled {
		return true
	}
	if err := p.ctx.Err(); err != nil {
		p.canceled = true
		p.diags.Add(Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeScanCanceled,
			Message:  fmt.Sprintf("Scan canceled: %v", err),
			Cause:    err,
		})
		return true
	}
	return false
}

func (p *scanPass) report(code DiagnosticCode, path string, err error) {
	slog.Debug("discovery failure", "code", code, "path", path, "error", err)
	p.diags.Add(Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  describeFailure(path, err),
		Path:     path,
		Cause:    err,
	})
}

func hostFor(layout Layout) roots.Host {
	if layout.HostName == roots.DefaultHost.Name && layout.Vendor == "" {
		return roots.DefaultHost
	}
	return roots.Host{Vendor: layout.Vendor, Name: layout.HostName}
}

func dedupe(dirs []string) []string {
	seen := make(map[string]struct{}, len(dirs))
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		clean := filepath.Clean(d)
		if _, ok := seen[clean]; ok || d == "" {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}
	return out
}
