// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/addonscout/config.cue (or $XDG_CONFIG_HOME on Linux,
// ~/Library/Application Support/addonscout/config.cue on macOS, %APPDATA%\addonscout\config.cue
// on Windows). It covers extra scan roots, the host application layout, the external
// editor, UI settings, the filesystem watcher and logging.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations. Values can be
// overridden through ADDONSCOUT_* environment variables (e.g. ADDONSCOUT_EDITOR_COMMAND).
package config
