// SPDX-License-Identifier: MPL-2.0

// Package editor opens addon files in an external editor.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"mvdan.cc/sh/v3/shell"
)

// DefaultCommand opens files in Visual Studio Code.
const DefaultCommand = "code"

var (
	// ErrFileNotFound is returned when the file to open does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrEmptyCommand is returned when the editor command has no words.
	ErrEmptyCommand = errors.New("editor command is empty")
)

type (
	// Runner runs argv[0] with the remaining arguments and waits for it.
	// A detached run must not touch the terminal's standard streams.
	Runner func(ctx context.Context, argv []string, detached bool) error

	// Launcher starts the configured editor command with a file path appended.
	Launcher struct {
		command string
		fs      afero.Fs
		run     Runner
		logger  *slog.Logger
		wg      sync.WaitGroup
	}

	// Option configures a Launcher.
	Option func(*Launcher)
)

// WithFs sets the filesystem used for the existence check.
func WithFs(fsys afero.Fs) Option {
	return func(l *Launcher) { l.fs = fsys }
}

// WithRunner replaces process execution.
func WithRunner(run Runner) Option {
	return func(l *Launcher) { l.run = run }
}

// WithLogger sets the logger receiving launch failures.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Launcher) { l.logger = logger }
}

// New creates a Launcher for command, a shell-style command line such as
// `code --wait` or `"$EDITOR"`. An empty command means DefaultCommand.
func New(command string, opts ...Option) *Launcher {
	if command == "" {
		command = DefaultCommand
	}
	l := &Launcher{
		command: command,
		fs:      afero.NewOsFs(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.run == nil {
		l.run = l.runProcess
	}
	return l
}

// Argv splits the command line, expanding environment variables, and appends
// path as the final argument.
func (l *Launcher) Argv(path string) ([]string, error) {
	words, err := shell.Fields(l.command, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("parse editor command %q: %w", l.command, err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyCommand
	}
	return append(words, path), nil
}

// Open checks that path exists and runs the editor on it, waiting for the
// command to return. The editor shares the terminal.
func (l *Launcher) Open(ctx context.Context, path string) error {
	return l.launch(ctx, path, false)
}

func (l *Launcher) launch(ctx context.Context, path string, detached bool) error {
	if _, err := l.fs.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}

	argv, err := l.Argv(path)
	if err != nil {
		return err
	}

	l.logger.Debug("launching editor", "argv", argv, "detached", detached)
	if err := l.run(ctx, argv, detached); err != nil {
		return fmt.Errorf("run %s: %w", argv[0], err)
	}
	return nil
}

// OpenExternally opens path on a separate goroutine and returns immediately.
// The editor gets no terminal streams; its output goes to the logger.
// Failures are logged, never returned.
func (l *Launcher) OpenExternally(path string) {
	l.wg.Go(func() {
		if err := l.launch(context.Background(), path, true); err != nil {
			l.logger.Error("failed to open in editor", "path", path, "error", err)
		}
	})
}

// Wait blocks until every launch started by OpenExternally has returned.
func (l *Launcher) Wait() {
	l.wg.Wait()
}

func (l *Launcher) runProcess(ctx context.Context, argv []string, detached bool) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if !detached {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}

	// Stdin stays nil so the child reads from the null device.
	out, err := cmd.CombinedOutput()
	if len(out) > 0 {
		l.logger.Debug("editor output", "command", argv[0], "output", strings.TrimSpace(string(out)))
	}
	return err
}
