// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// startWatcher runs w until the test ends and fails the test if Run errors.
func startWatcher(t *testing.T, w *Watcher) context.CancelFunc {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errCh:
			if err != nil {
				t.Errorf("Run() error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("Run() did not return after cancellation")
		}
	})
	return cancel
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// TestWatcherDebounce verifies that multiple rapid filesystem events are
// coalesced into a single callback invocation containing all changed paths.
func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	addons := filepath.Join(root, "4.2", "scripts", "addons")
	if err := os.MkdirAll(addons, 0o755); err != nil {
		t.Fatal(err)
	}

	var (
		mu        sync.Mutex
		calls     int
		collected []string
	)
	done := make(chan struct{})

	w, err := New(Config{
		Roots:    []string{root},
		Debounce: 100 * time.Millisecond,
		Logger:   quietLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			collected = append(collected, changed...)
			if calls == 1 {
				close(done)
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	startWatcher(t, w)

	for _, name := range []string{"a.zip", "b.zip", "c.zip"} {
		mustWrite(t, filepath.Join(addons, name), "PK")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if calls != 1 {
		t.Errorf("expected 1 debounced callback, got %d", calls)
	}
	for _, name := range []string{"a.zip", "b.zip", "c.zip"} {
		if want := filepath.Join(addons, name); !slices.Contains(collected, want) {
			t.Errorf("expected %q in changed files, got %v", want, collected)
		}
	}
}

// TestWatcherIgnorePatterns confirms that ignored paths never trigger the
// callback.
func TestWatcherIgnorePatterns(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	callbackFired := make(chan []string, 10)

	w, err := New(Config{
		Roots:    []string{root},
		Ignore:   []string{"**/*.log"},
		Debounce: 50 * time.Millisecond,
		Logger:   quietLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			callbackFired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	startWatcher(t, w)

	mustWrite(t, filepath.Join(root, "debug.log"), "log")
	mustWrite(t, filepath.Join(root, "stale.pyc"), "x")
	time.Sleep(200 * time.Millisecond)

	manifest := filepath.Join(root, "__init__.py")
	mustWrite(t, manifest, "bl_info = {}")

	select {
	case changed := <-callbackFired:
		for _, ignored := range []string{"debug.log", "stale.pyc"} {
			if slices.Contains(changed, filepath.Join(root, ignored)) {
				t.Errorf("ignored file %s appeared in changed set", ignored)
			}
		}
		if !slices.Contains(changed, manifest) {
			t.Errorf("expected %s in changed set, got %v", manifest, changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback on non-ignored file")
	}
}

// TestWatcherMultipleRoots verifies that every existing root is watched and
// missing roots are skipped.
func TestWatcherMultipleRoots(t *testing.T) {
	t.Parallel()

	first, second := t.TempDir(), t.TempDir()
	missing := filepath.Join(t.TempDir(), "nope")
	callbackFired := make(chan []string, 10)

	w, err := New(Config{
		Roots:    []string{first, missing, second, first},
		Debounce: 50 * time.Millisecond,
		Logger:   quietLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			callbackFired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if got := w.Roots(); len(got) != 2 {
		t.Fatalf("Roots() = %v, want the two existing roots once each", got)
	}
	startWatcher(t, w)

	target := filepath.Join(second, "addon.zip")
	mustWrite(t, target, "PK")

	select {
	case changed := <-callbackFired:
		if !slices.Contains(changed, target) {
			t.Errorf("expected %s in changed set, got %v", target, changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback from second root")
	}
}

// TestWatcherNewDirectory verifies that directories created after startup are
// watched as well.
func TestWatcherNewDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	callbackFired := make(chan []string, 10)

	w, err := New(Config{
		Roots:    []string{root},
		Debounce: 50 * time.Millisecond,
		Logger:   quietLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			callbackFired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	startWatcher(t, w)

	addon := filepath.Join(root, "4.3", "scripts", "addons", "fresh")
	if err := os.MkdirAll(addon, 0o755); err != nil {
		t.Fatal(err)
	}
	// Drain the events caused by the directory creation.
	select {
	case <-callbackFired:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for directory creation callback")
	}

	time.Sleep(100 * time.Millisecond)
	manifest := filepath.Join(addon, "__init__.py")
	mustWrite(t, manifest, "bl_info = {}")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case changed := <-callbackFired:
			if slices.Contains(changed, manifest) {
				return
			}
		case <-deadline:
			t.Fatal("no callback for a file inside a directory created after startup")
		}
	}
}

func TestNew_NoExistingRoots(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Roots: []string{filepath.Join(t.TempDir(), "missing")}, Logger: quietLogger()})
	if !errors.Is(err, ErrNoRoots) {
		t.Fatalf("New() error = %v, want ErrNoRoots", err)
	}

	if _, err := New(Config{}); !errors.Is(err, ErrNoRoots) {
		t.Fatalf("New(empty) error = %v, want ErrNoRoots", err)
	}
}

// TestWatcherContextCancel verifies that Run returns cleanly when its context
// is canceled.
func TestWatcherContextCancel(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Roots: []string{t.TempDir()}, Debounce: 50 * time.Millisecond, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run() returned error on cancel: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after context cancellation")
	}
}

func TestDefaultIgnores(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := &Watcher{ignores: DefaultIgnores(), roots: []string{root}}

	tests := []struct {
		rel     string
		ignored bool
	}{
		{"4.2/scripts/addons/foo/__pycache__/mod.cpython-311.pyc", true},
		{"4.2/scripts/addons/__pycache__", true},
		{"4.2/scripts/addons/foo/helper.pyc", true},
		{".git/config", true},
		{"4.2/scripts/addons/foo/__init__.py.swp", true},
		{"backup~", true},
		{".DS_Store", true},
		{"4.2/scripts/addons/foo/__init__.py", false},
		{"4.2/scripts/addons/bar.zip", false},
		{".gitignore", false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(root, filepath.FromSlash(tt.rel))
			if got := w.isIgnored(path); got != tt.ignored {
				t.Errorf("isIgnored(%q) = %v, want %v", tt.rel, got, tt.ignored)
			}
		})
	}

	if w.isIgnored(root) {
		t.Error("a root itself must never be ignored")
	}
	if w.isIgnored(filepath.Join(filepath.Dir(root), "outside.pyc")) {
		t.Error("paths outside every root are not matched")
	}
}

// TestWatcherSkipIfBusy verifies that callbacks never overlap when a rescan
// takes longer than the debounce period.
func TestWatcherSkipIfBusy(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	var (
		mu      sync.Mutex
		calls   int
		active  int
		overlap bool
	)
	firstCallDone := make(chan struct{})

	w, err := New(Config{
		Roots:    []string{root},
		Debounce: 50 * time.Millisecond,
		Logger:   quietLogger(),
		OnChange: func(_ context.Context, _ []string) error {
			mu.Lock()
			calls++
			callNum := calls
			active++
			if active > 1 {
				overlap = true
			}
			mu.Unlock()

			if callNum == 1 {
				time.Sleep(300 * time.Millisecond)
				close(firstCallDone)
			}

			mu.Lock()
			active--
			mu.Unlock()
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	startWatcher(t, w)

	mustWrite(t, filepath.Join(root, "first.zip"), "1")
	time.Sleep(100 * time.Millisecond)
	mustWrite(t, filepath.Join(root, "second.zip"), "2")

	select {
	case <-firstCallDone:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for first callback")
	}
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if overlap {
		t.Error("callbacks ran concurrently")
	}
	if calls > 2 {
		t.Errorf("expected at most 2 callback invocations, got %d", calls)
	}
}

// TestWatcherClearScreen verifies that ClearScreen writes the ANSI clear
// sequence before invoking the callback.
func TestWatcherClearScreen(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	done := make(chan struct{})
	var stdoutBuf bytes.Buffer

	w, err := New(Config{
		Roots:       []string{root},
		Debounce:    50 * time.Millisecond,
		ClearScreen: true,
		Stdout:      &stdoutBuf,
		Logger:      quietLogger(),
		OnChange: func(_ context.Context, _ []string) error {
			close(done)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	cancel := startWatcher(t, w)

	mustWrite(t, filepath.Join(root, "addon.zip"), "x")

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	cancel()

	if out := stdoutBuf.String(); !strings.Contains(out, "\033[2J\033[H") {
		t.Errorf("expected ANSI clear sequence in stdout, got %q", out)
	}
}

func TestWatcherInvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Roots: []string{t.TempDir()}, Ignore: []string{"[invalid"}})
	if err == nil {
		t.Fatal("New() should return an error for an invalid glob pattern")
	}
	if !strings.Contains(err.Error(), "invalid ignore pattern") {
		t.Errorf("error message should mention invalid ignore pattern, got: %v", err)
	}
}

// TestWatcherDoubleRunError verifies that calling Run a second time returns
// an error immediately rather than starting a second event loop.
func TestWatcherDoubleRunError(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Roots: []string{t.TempDir()}, Debounce: 50 * time.Millisecond, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	startWatcher(t, w)
	time.Sleep(50 * time.Millisecond)

	err = w.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "Run called more than once") {
		t.Fatalf("second Run() error = %v, want double-run error", err)
	}
}
