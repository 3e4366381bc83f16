// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/addonscout/addonscout/internal/config"
	"github.com/addonscout/addonscout/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the addonscout command tree around app.
func newRootCommand(app *App) *cobra.Command {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:   "addonscout",
		Short: "Discover installed Blender addons",
		Long: TitleStyle.Render("addonscout") + SubtitleStyle.Render(" - Discover installed Blender addons") + `

addonscout walks the per-user Blender data directories, finds every
installed version and lists the addons under each one with the
metadata declared in their bl_info block. Packaged addons (.zip)
are listed as uninstalled archives.

Nothing is ever written to the scanned directories.

` + SubtitleStyle.Render("Examples:") + `
  addonscout scan                  List versions, addons and scan errors
  addonscout scan --json           Machine-readable listing
  addonscout show "node wrangler"  Show the metadata of matching addons
  addonscout open "node wrangler"  Open the addon's __init__.py in the editor
  addonscout browse                Search and inspect addons interactively`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			s.setupLogging(cmd.Context(), app)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			s.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&s.configPath, "config", "", "config file (default is "+defaultConfigHint()+")")
	rootCmd.PersistentFlags().StringVar(&s.logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newScanCommand(app, s),
		newShowCommand(app, s),
		newSearchCommand(app, s),
		newOpenCommand(app, s),
		newBrowseCommand(app, s),
		newWatchCommand(app, s),
		newRootsCommand(app, s),
		newConfigCommand(app, s),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the command tree and runs it. It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}

	// fang overrides rootCmd.Version, so the version is passed explicitly.
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitFailure)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// reportError prints err to stderr and converts it into an ExitError so that
// Cobra does not print it a second time. In verbose mode the linked issue
// page, if any, follows the message.
func reportError(cmd *cobra.Command, s *session, stderr io.Writer, err error) error {
	if err == nil {
		return nil
	}
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, s.isVerbose()))
	if s.isVerbose() {
		writeIssue(stderr, s, issue.LinkedIssue(err))
	}
	return &ExitError{Code: ExitFailure}
}

// writeIssue renders a catalog page; nil pages and render failures print nothing.
func writeIssue(w io.Writer, s *session, page *issue.Issue) {
	if page == nil {
		return
	}
	rendered, err := page.Render(glamourStyle(s))
	if err != nil {
		s.log().Debug("failed to render issue", "issue", page.Id(), "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}

// glamourStyle maps the configured color scheme to a glamour style name.
func glamourStyle(s *session) string {
	scheme := config.ColorSchemeAuto
	if s.cfg != nil {
		scheme = s.cfg.UI.ColorScheme
	}
	switch scheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "notty"
	}
}

func defaultConfigHint() string {
	if path, err := config.DefaultConfigPath(); err == nil {
		return path
	}
	return "$HOME/.config/addonscout/config.cue"
}
