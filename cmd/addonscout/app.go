// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/addonscout/addonscout/internal/config"
	"github.com/addonscout/addonscout/internal/discovery"
	"github.com/addonscout/addonscout/internal/editor"
	"github.com/addonscout/addonscout/internal/logging"
	"github.com/addonscout/addonscout/internal/tui"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: every Cobra handler receives an App and reaches the
	// config, the scanner and the editor through it.
	App struct {
		Config     ConfigProvider
		NewScanner ScannerFactory
		NewEditor  EditorFactory
		IsTerminal func() bool
		fs         afero.Fs
		stdin      io.Reader
		stdout     io.Writer
		stderr     io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config     ConfigProvider
		NewScanner ScannerFactory
		NewEditor  EditorFactory
		IsTerminal func() bool
		// Fs is read by "roots"; scanners get their filesystem from NewScanner.
		Fs         afero.Fs
		Stdin      io.Reader
		Stdout     io.Writer
		Stderr     io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
		SourcePath(opts config.LoadOptions) (string, error)
	}

	// ScannerFactory builds a scanner for cfg. extraRoots come from --root flags
	// and are scanned after the configured roots.
	ScannerFactory func(cfg *config.Config, extraRoots []string) *discovery.Scanner

	// Editor opens addon files.
	Editor interface {
		Open(ctx context.Context, path string) error
		OpenExternally(path string)
		Wait()
	}

	// EditorFactory builds the editor for cfg.
	EditorFactory func(cfg *config.Config, logger *slog.Logger) Editor

	// session holds the state of one CLI invocation: the global flag values,
	// the lazily loaded configuration and the logging manager.
	session struct {
		configPath string
		verbose    bool
		logLevel   string

		once   sync.Once
		cfg    *config.Config
		cfgErr error

		logs   *logging.Manager
		logger *slog.Logger
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.NewScanner == nil {
		deps.NewScanner = defaultScannerFactory
	}
	if deps.NewEditor == nil {
		deps.NewEditor = defaultEditorFactory
	}
	if deps.IsTerminal == nil {
		deps.IsTerminal = tui.IsTerminal
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}

	return &App{
		Config:     deps.Config,
		NewScanner: deps.NewScanner,
		NewEditor:  deps.NewEditor,
		IsTerminal: deps.IsTerminal,
		fs:         deps.Fs,
		stdin:      deps.Stdin,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}, nil
}

// LayoutFromConfig converts the host section of the configuration into a
// discovery layout. Empty fields take the Blender defaults.
func LayoutFromConfig(host config.HostConfig) discovery.Layout {
	return discovery.Layout{
		HostName:          host.Name,
		Vendor:            host.Vendor,
		ManifestFile:      host.ManifestFile,
		BlockName:         host.BlockName,
		AddonDir:          host.AddonDir,
		CacheDir:          host.CacheDir,
		ArchiveExtensions: host.ArchiveExtensions,
	}.WithDefaults()
}

func defaultScannerFactory(cfg *config.Config, extraRoots []string) *discovery.Scanner {
	extra := make([]string, 0, len(cfg.Roots)+len(extraRoots))
	for _, root := range slices.Concat(cfg.Roots, extraRoots) {
		extra = append(extra, expandHome(root))
	}
	return discovery.NewScanner(
		discovery.WithLayout(LayoutFromConfig(cfg.Host)),
		discovery.WithExtraRoots(extra...),
	)
}

func defaultEditorFactory(cfg *config.Config, logger *slog.Logger) Editor {
	return editor.New(cfg.Editor.Command, editor.WithLogger(logger))
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// loadOptions returns the config load options selected by the global flags.
func (s *session) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: s.configPath}
}

// config loads the configuration once per invocation.
func (s *session) config(ctx context.Context, app *App) (*config.Config, error) {
	s.once.Do(func() {
		s.cfg, s.cfgErr = app.Config.Load(ctx, s.loadOptions())
	})
	return s.cfg, s.cfgErr
}

// isVerbose reports whether --verbose or ui.verbose is set.
func (s *session) isVerbose() bool {
	return s.verbose || (s.cfg != nil && s.cfg.UI.Verbose)
}

// setupLogging installs the process logger. The level comes from --log-level,
// then --verbose or ui.verbose (debug), then log.level.
func (s *session) setupLogging(ctx context.Context, app *App) {
	cfg, err := s.config(ctx, app)
	if err != nil || cfg == nil {
		cfg = config.DefaultConfig()
	}

	level := cfg.Log.Level
	switch {
	case s.logLevel != "":
		level = s.logLevel
	case s.isVerbose():
		level = "debug"
	}

	s.logs, s.logger = logging.NewManager(logging.Config{
		Level:          level,
		Format:         cfg.Log.Format.String(),
		FilePath:       expandHome(cfg.Log.File),
		FileMaxSizeMB:  cfg.Log.FileMaxSizeMB,
		FileMaxFiles:   cfg.Log.FileMaxFiles,
		FileMaxAgeDays: cfg.Log.FileMaxAgeDays,
		Console:        app.stderr,
	})
	slog.SetDefault(s.logger)
}

// close flushes the log file, if any.
func (s *session) close() {
	if s.logs == nil {
		return
	}
	if err := s.logs.Close(); err != nil {
		slog.Warn("failed to close log file", "error", err)
	}
}

// log returns the session logger, or the process default before setup.
func (s *session) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
