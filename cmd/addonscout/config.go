// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/addonscout/addonscout/internal/config"
)

// newConfigCommand creates the `addonscout config` command tree.
func newConfigCommand(app *App, s *session) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage addonscout configuration",
		Long: `Manage addonscout configuration.

Configuration is stored in:
  - Linux: ~/.config/addonscout/config.cue
  - macOS: ~/Library/Application Support/addonscout/config.cue
  - Windows: %APPDATA%\addonscout\config.cue

Every key can be overridden with an ADDONSCOUT_* environment variable,
for example ADDONSCOUT_EDITOR_COMMAND=nvim.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := s.config(cmd.Context(), app)
			if err != nil {
				return reportError(cmd, s, app.stderr, err)
			}
			source, err := app.Config.SourcePath(s.loadOptions())
			if err != nil {
				return reportError(cmd, s, app.stderr, err)
			}
			writeConfig(app.stdout, cfg, source)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := config.ConfigDir()
			if err != nil {
				return reportError(cmd, s, app.stderr, err)
			}
			source, err := app.Config.SourcePath(s.loadOptions())
			if err != nil {
				return reportError(cmd, s, app.stderr, err)
			}
			if source == "" {
				source = "(none, using defaults)"
			}
			fmt.Fprintf(app.stdout, "Config directory: %s\n", dir)
			fmt.Fprintf(app.stdout, "Config file: %s\n", source)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, created, err := config.CreateDefaultConfig("")
			if err != nil {
				return reportError(cmd, s, app.stderr, fmt.Errorf("failed to create config: %w", err))
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := s.config(cmd.Context(), app)
			if err != nil {
				return reportError(cmd, s, app.stderr, err)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func writeConfig(w io.Writer, cfg *config.Config, source string) {
	keyStyle := PathStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if source == "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), source)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("roots"))
	if len(cfg.Roots) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, root := range cfg.Roots {
		fmt.Fprintf(w, "  - %s\n", valueStyle.Render(root))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("host"))
	fmt.Fprintf(w, "  name: %s\n", valueStyle.Render(cfg.Host.Name))
	fmt.Fprintf(w, "  vendor: %s\n", valueStyle.Render(cfg.Host.Vendor))
	fmt.Fprintf(w, "  manifest_file: %s\n", valueStyle.Render(cfg.Host.ManifestFile))
	fmt.Fprintf(w, "  block_name: %s\n", valueStyle.Render(cfg.Host.BlockName))
	fmt.Fprintf(w, "  addon_dir: %s\n", valueStyle.Render(cfg.Host.AddonDir))
	fmt.Fprintf(w, "  cache_dir: %s\n", valueStyle.Render(cfg.Host.CacheDir))
	fmt.Fprintf(w, "  archive_extensions: %s\n", valueStyle.Render(strings.Join(cfg.Host.ArchiveExtensions, ", ")))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("editor"))
	fmt.Fprintf(w, "  command: %s\n", valueStyle.Render(cfg.Editor.Command))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(w, "  debounce: %s\n", valueStyle.Render(cfg.Watch.Debounce.String()))
	fmt.Fprintf(w, "  ignore: %s\n", valueStyle.Render(strings.Join(cfg.Watch.Ignore, ", ")))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("log"))
	fmt.Fprintf(w, "  level: %s\n", valueStyle.Render(cfg.Log.Level))
	fmt.Fprintf(w, "  format: %s\n", valueStyle.Render(cfg.Log.Format.String()))
	if cfg.Log.File != "" {
		fmt.Fprintf(w, "  file: %s\n", valueStyle.Render(cfg.Log.File))
	}
}
