// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/addonscout/addonscout/internal/config"
	"github.com/addonscout/addonscout/internal/issue"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got, want := getVersionString(), "dev (built from source)"; got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	actionable := issue.NewErrorContext().
		WithOperation("find addon").
		WithResource("node").
		WithSuggestion("Run 'addonscout search node'").
		Wrap(errors.New("no addon matches the query")).
		BuildError()

	tests := []struct {
		name    string
		err     error
		verbose bool
		want    []string
		notWant []string
	}{
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: []string{"boom"},
		},
		{
			name:    "actionable error",
			err:     actionable,
			want:    []string{"failed to find addon: node", "• Run 'addonscout search node'"},
			notWant: []string{"Error chain:"},
		},
		{
			name:    "actionable error verbose",
			err:     actionable,
			verbose: true,
			want:    []string{"Error chain:", "1. no addon matches the query"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := formatErrorForDisplay(tt.err, tt.verbose)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("formatErrorForDisplay() missing %q:\n%s", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("formatErrorForDisplay() unexpectedly contains %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestReportError_VerboseRendersIssue(t *testing.T) {
	t.Parallel()

	fsys, tree := cliFixture(t)
	ta := newTestApp(t, fsys, tree.Root)

	err := ta.run("show", "zzzzzz", "--verbose")
	if got := exitCode(t, err); got != ExitFailure {
		t.Fatalf("exit code = %d, want %d", got, ExitFailure)
	}
	stderr := ta.stderr.String()
	for _, want := range []string{"Error chain:", "Addon not found"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
}

func TestReportError_QuietOmitsIssue(t *testing.T) {
	t.Parallel()

	fsys, tree := cliFixture(t)
	ta := newTestApp(t, fsys, tree.Root)

	_ = ta.run("show", "zzzzzz")
	if strings.Contains(ta.stderr.String(), "Addon not found") {
		t.Errorf("issue page rendered without --verbose:\n%s", ta.stderr)
	}
}

func TestScanIssues(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, afero.NewMemMapFs())
	if err := ta.run("scan", "-v"); err != nil {
		t.Fatalf("scan error = %v", err)
	}
	if !strings.Contains(ta.stderr.String(), "No addons found") {
		t.Errorf("verbose empty scan did not explain itself:\n%s", ta.stderr)
	}
}

func TestGlamourStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme config.ColorScheme
		want   string
	}{
		{config.ColorSchemeDark, "dark"},
		{config.ColorSchemeLight, "light"},
		{config.ColorSchemeAuto, "notty"},
	}
	for _, tt := range tests {
		cfg := config.DefaultConfig()
		cfg.UI.ColorScheme = tt.scheme
		if got := glamourStyle(&session{cfg: cfg}); got != tt.want {
			t.Errorf("glamourStyle(%s) = %q, want %q", tt.scheme, got, tt.want)
		}
	}
	if got := glamourStyle(&session{}); got != "notty" {
		t.Errorf("glamourStyle(no config) = %q, want notty", got)
	}
}

func TestRootCommand_Help(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, afero.NewMemMapFs())
	if err := ta.run("--help"); err != nil {
		t.Fatalf("--help error = %v", err)
	}
	out := ta.stdout.String()
	for _, sub := range []string{"scan", "show", "search", "open", "browse", "watch", "roots", "config"} {
		if !strings.Contains(out, sub) {
			t.Errorf("help missing subcommand %q", sub)
		}
	}
}

func TestProbeRoots_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := probeRoots(ctx, afero.NewMemMapFs(), []string{"/a", "/b"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("probeRoots() error = %v, want context.Canceled", err)
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	err := &ExitError{Code: ExitUsage, Err: inner}
	if !errors.Is(err, inner) {
		t.Error("ExitError does not unwrap to its cause")
	}
	if got := err.Error(); got != "inner" {
		t.Errorf("Error() = %q, want %q", got, "inner")
	}
}
