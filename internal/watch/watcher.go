// SPDX-License-Identifier: MPL-2.0

// Package watch triggers debounced rescans when addon files change.
//
// It monitors every directory under a set of scan roots and invokes a callback
// after a configurable debounce period. Events within the debounce window are
// coalesced so the callback fires once with the full set of changed paths.
package watch

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the delay before firing the onChange callback after the
// last filesystem event. An editor writing then renaming a temp file produces
// several events that coalesce into one callback.
const defaultDebounce = 500 * time.Millisecond

// defaultIgnores lists path patterns, relative to a root, that are always
// excluded from watching. They cover bytecode caches, VCS metadata, editor
// swap files and OS metadata.
var defaultIgnores = []string{
	"**/__pycache__/**",
	"**/*.pyc",
	"**/.git/**",
	"**/*.swp",
	"**/*~",
	"**/.DS_Store",
}

// ErrNoRoots is returned by New when none of the roots exists.
var ErrNoRoots = errors.New("watch: no existing root to watch")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Roots are the directories watched recursively. Roots that do not
		// exist are skipped.
		Roots []string

		// Ignore are additional doublestar patterns, matched against paths
		// relative to their root, that never trigger callbacks.
		Ignore []string

		// Debounce is the quiet period after the last event before the callback
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// ClearScreen writes ANSI clear-screen sequences to Stdout before each
		// callback.
		ClearScreen bool

		// OnChange is called after the debounce window closes with the
		// deduplicated, sorted list of changed absolute paths.
		OnChange func(ctx context.Context, changed []string) error

		// Stdout receives the clear-screen sequence. Defaults to os.Stdout.
		Stdout io.Writer

		// Logger receives watcher diagnostics. Defaults to slog.Default().
		Logger *slog.Logger
	}

	// Watcher monitors the roots and fires a debounced callback when files
	// change. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		roots    []string
		stdout   io.Writer
		logger   *slog.Logger
		debounce time.Duration
		started  atomic.Bool
	}
)

// New creates a Watcher from cfg and registers every non-ignored directory
// under the existing roots.
func New(cfg Config) (*Watcher, error) {
	if err := validatePatterns(cfg.Ignore); err != nil {
		return nil, err
	}

	w := &Watcher{
		cfg:      cfg,
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		stdout:   cmp.Or[io.Writer](cfg.Stdout, os.Stdout),
		logger:   cmp.Or(cfg.Logger, slog.Default()),
		debounce: cfg.Debounce,
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}

	roots, err := existingRoots(cfg.Roots, w.logger)
	if err != nil {
		return nil, err
	}
	w.roots = roots

	if w.fsw, err = fsnotify.NewWatcher(); err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	for _, root := range roots {
		if err := w.addDirectories(root); err != nil {
			_ = w.fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// existingRoots returns the absolute, deduplicated directories among roots.
func existingRoots(roots []string, logger *slog.Logger) ([]string, error) {
	var out []string
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve root %q: %w", root, err)
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			logger.Debug("watch: skipping missing root", "root", abs)
			continue
		}
		if !slices.Contains(out, abs) {
			out = append(out, abs)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoRoots
	}
	return out, nil
}

// Roots returns the existing roots being watched.
func (w *Watcher) Roots() []string { return slices.Clone(w.roots) }

// Run blocks until ctx is canceled, collecting filesystem events into
// debounced batches for OnChange. It returns nil on cancellation and an error
// when the OS watcher can no longer deliver events.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	b := newBatch(w.debounce, func(changed []string) { w.dispatch(ctx, changed) })
	defer func() {
		b.stop()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("watch: close fsnotify", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if w.isIgnored(evt.Name) {
				continue
			}
			// A freshly installed addon or a new version directory.
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			b.add(evt.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if watcherExhausted(err) {
				return fmt.Errorf("watch: watcher exhausted: %w", err)
			}
			w.logger.Warn("watch: fsnotify error", "error", err)
		}
	}
}

// dispatch runs OnChange for one batch unless ctx is already done.
func (w *Watcher) dispatch(ctx context.Context, changed []string) {
	if ctx.Err() != nil {
		return
	}
	if w.cfg.ClearScreen {
		fmt.Fprint(w.stdout, "\033[2J\033[H")
	}
	if w.cfg.OnChange == nil {
		return
	}
	if err := w.cfg.OnChange(ctx, changed); err != nil {
		w.logger.Error("watch: callback failed", "error", err)
	}
}

// addDirectories walks root and adds every non-ignored directory to the
// fsnotify watcher. Inaccessible directories are skipped.
func (w *Watcher) addDirectories(root string) error {
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			w.logger.Warn("watch: skipping inaccessible path", "path", path, "error", walkDirErr)
			return nil //nolint:nilerr // skip inaccessible paths
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.isIgnored(path) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk %s: %w", root, walkErr)
	}
	return nil
}

// maybeAddDir watches path if it is a non-ignored directory.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if addErr := w.addDirectories(path); addErr != nil {
		w.logger.Warn("watch: add new directory", "path", path, "error", addErr)
	}
}

// isIgnored matches path, made relative to its root, against the ignore
// patterns. Directories are also tried with a trailing slash so "dir/**"
// patterns exclude the directory itself.
func (w *Watcher) isIgnored(path string) bool {
	rel := w.relative(path)
	if rel == "" {
		return false
	}
	for _, pat := range w.ignores {
		for _, candidate := range []string{rel, rel + "/"} {
			if matched, matchErr := doublestar.Match(pat, candidate); matchErr == nil && matched {
				return true
			}
		}
	}
	return false
}

// relative returns path relative to the watched root containing it, with
// forward slashes. It returns "" for a root itself.
func (w *Watcher) relative(path string) string {
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return filepath.ToSlash(rel)
	}
	return ""
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

func validatePatterns(patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid ignore pattern %q: %w", pat, doublestar.ErrBadPattern)
		}
	}
	return nil
}
