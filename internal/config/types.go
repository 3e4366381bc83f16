// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// LogFormatPretty writes colored, human-oriented log lines.
	LogFormatPretty LogFormat = "pretty"
	// LogFormatText writes logfmt lines.
	LogFormatText LogFormat = "text"
	// LogFormatJSON writes one JSON object per line.
	LogFormatJSON LogFormat = "json"

	// DefaultEditorCommand opens files in Visual Studio Code.
	DefaultEditorCommand = "code"
	// DefaultDebounce is the quiet period before the watcher rescans.
	DefaultDebounce = 500 * time.Millisecond
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogFormat is returned when a LogFormat value is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format")
	// ErrInvalidLogLevel is returned when a log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidHostConfig is the sentinel error wrapped by InvalidHostConfigError.
	ErrInvalidHostConfig = errors.New("invalid host config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// LogFormat selects the log line encoding.
	LogFormat string

	// InvalidLogFormatError is returned when a LogFormat value is not recognized.
	InvalidLogFormatError struct {
		Value LogFormat
	}

	// InvalidLogLevelError is returned when a log level is not recognized.
	InvalidLogLevelError struct {
		Value string
	}

	// InvalidHostConfigError is returned when HostConfig has invalid fields.
	InvalidHostConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when Config has invalid fields.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Roots are extra root directories scanned after the per-OS host roots.
		Roots []string `json:"roots" mapstructure:"roots"`
		// Host describes the host application's filesystem layout.
		Host HostConfig `json:"host" mapstructure:"host"`
		// Editor configures the external editor used by "open".
		Editor EditorConfig `json:"editor" mapstructure:"editor"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Watch configures the filesystem watcher
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
		// Log configures logging
		Log LogConfig `json:"log" mapstructure:"log"`
	}

	// HostConfig describes the host application. Empty fields fall back to
	// the Blender layout.
	HostConfig struct {
		Name              string   `json:"name" mapstructure:"name"`
		Vendor            string   `json:"vendor" mapstructure:"vendor"`
		ManifestFile      string   `json:"manifest_file" mapstructure:"manifest_file"`
		BlockName         string   `json:"block_name" mapstructure:"block_name"`
		AddonDir          string   `json:"addon_dir" mapstructure:"addon_dir"`
		CacheDir          string   `json:"cache_dir" mapstructure:"cache_dir"`
		ArchiveExtensions []string `json:"archive_extensions" mapstructure:"archive_extensions"`
	}

	// EditorConfig configures the external editor.
	EditorConfig struct {
		// Command is a shell-style command line; the file path is appended.
		Command string `json:"command" mapstructure:"command"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// WatchConfig configures the filesystem watcher.
	WatchConfig struct {
		// Debounce is the quiet period after the last event before a rescan.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
		// Ignore lists doublestar patterns, relative to a root, whose events are dropped.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
	}

	// LogConfig configures logging. A non-empty File adds a rotating log file.
	LogConfig struct {
		Level          string    `json:"level" mapstructure:"level"`
		Format         LogFormat `json:"format" mapstructure:"format"`
		File           string    `json:"file" mapstructure:"file"`
		FileMaxSizeMB  int       `json:"file_max_size_mb" mapstructure:"file_max_size_mb"`
		FileMaxFiles   int       `json:"file_max_files" mapstructure:"file_max_files"`
		FileMaxAgeDays int       `json:"file_max_age_days" mapstructure:"file_max_age_days"`
	}
)

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidLogFormatError.
func (e *InvalidLogFormatError) Error() string {
	return fmt.Sprintf("invalid log format %q (valid: pretty, text, json)", e.Value)
}

// Unwrap returns ErrInvalidLogFormat for errors.Is() compatibility.
func (e *InvalidLogFormatError) Unwrap() error { return ErrInvalidLogFormat }

// String returns the string representation of the LogFormat.
func (f LogFormat) String() string { return string(f) }

// IsValid returns whether the LogFormat is one of the defined formats.
func (f LogFormat) IsValid() (bool, []error) {
	switch f {
	case LogFormatPretty, LogFormatText, LogFormatJSON:
		return true, nil
	default:
		return false, []error{&InvalidLogFormatError{Value: f}}
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// IsValid returns whether the LogConfig has valid fields.
func (c LogConfig) IsValid() (bool, []error) {
	var errs []error
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, &InvalidLogLevelError{Value: c.Level})
	}
	if valid, fieldErrs := c.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	return len(errs) == 0, errs
}

// IsValid returns whether the HostConfig has valid fields. Empty fields are
// valid; non-empty ones must not be whitespace-only.
func (c HostConfig) IsValid() (bool, []error) {
	var errs []error
	fields := []struct{ name, value string }{
		{"name", c.Name},
		{"manifest_file", c.ManifestFile},
		{"block_name", c.BlockName},
		{"addon_dir", c.AddonDir},
	}
	for _, f := range fields {
		if f.value != "" && strings.TrimSpace(f.value) == "" {
			errs = append(errs, fmt.Errorf("host.%s: non-empty value must not be whitespace-only", f.name))
		}
	}
	if strings.ContainsAny(c.ManifestFile, `/\`) {
		errs = append(errs, fmt.Errorf("host.manifest_file %q: must be a file name, not a path", c.ManifestFile))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidHostConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidHostConfigError.
func (e *InvalidHostConfigError) Error() string {
	return fmt.Sprintf("invalid host config: %v", multierr.Combine(e.FieldErrors...))
}

// Unwrap returns ErrInvalidHostConfig for errors.Is() compatibility.
func (e *InvalidHostConfigError) Unwrap() error { return ErrInvalidHostConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to Host.IsValid(), UI.ColorScheme.IsValid() and Log.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Host.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Log.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce %s: must not be negative", c.Watch.Debounce))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Validate returns nil for a valid Config, otherwise an *InvalidConfigError.
func (c Config) Validate() error {
	if valid, errs := c.IsValid(); !valid {
		return errs[0]
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	var combined error
	for _, err := range e.FieldErrors {
		combined = multierr.Append(combined, err)
	}
	return fmt.Sprintf("invalid config: %d field error(s): %v", len(e.FieldErrors), combined)
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Roots: []string{},
		Host: HostConfig{
			Name:              "Blender",
			Vendor:            "Blender Foundation",
			ManifestFile:      "__init__.py",
			BlockName:         "bl_info",
			AddonDir:          "scripts/addons",
			CacheDir:          "__pycache__",
			ArchiveExtensions: []string{".zip"},
		},
		Editor: EditorConfig{
			Command: DefaultEditorCommand,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
			Ignore:   []string{"**/__pycache__/**", "**/*.pyc"},
		},
		Log: LogConfig{
			Level:          "warn",
			Format:         LogFormatPretty,
			FileMaxSizeMB:  10,
			FileMaxFiles:   3,
			FileMaxAgeDays: 30,
		},
	}
}
