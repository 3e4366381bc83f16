// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/addonscout/addonscout/internal/editor"
	"github.com/addonscout/addonscout/internal/issue"
	"github.com/addonscout/addonscout/internal/tui"
)

func newOpenCommand(app *App, s *session) *cobra.Command {
	flags := &queryFlags{}
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "open <query>",
		Short: "Open an addon's manifest in the editor",
		Long: `Open the manifest of the addon matching the query in the configured
editor (editor.command, "code" by default). Archives are opened as-is.

When several addons match, an exact name match wins. Otherwise an
interactive terminal offers a picker and a non-interactive run opens the
first match in listing order. Use --version to narrow to one install.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := findEntries(cmd.Context(), app, s, *flags, args[0])
			if err != nil {
				return reportError(cmd, s, app.stderr, err)
			}
			if len(matches) == 0 {
				return reportError(cmd, s, app.stderr, addonNotFoundError(args[0]))
			}

			entry, exact := bestMatch(matches, args[0])
			if len(matches) > 1 && !exact {
				if !printOnly && app.IsTerminal() {
					entry, err = tui.PickEntry(cmd.Context(), "Several addons match "+strconv.Quote(args[0]), matches, app.stdin, app.stdout)
					if errors.Is(err, tui.ErrPickCanceled) {
						return nil
					}
					if err != nil {
						return reportError(cmd, s, app.stderr, err)
					}
				} else {
					s.log().Info("several addons match, opening one", "query", args[0], "matches", len(matches), "addon", entry.Label())
				}
			}
			path := entry.Addon.EditPath()
			if printOnly {
				fmt.Fprintln(app.stdout, path)
				return nil
			}

			cfg, _ := s.config(cmd.Context(), app)
			ed := app.NewEditor(cfg, s.log())
			if err := ed.Open(cmd.Context(), path); err != nil {
				return reportError(cmd, s, app.stderr, editorError(path, err))
			}
			fmt.Fprintf(app.stdout, "%s Opened %s\n", SuccessStyle.Render("✓"), PathStyle.Render(path))
			return nil
		},
	}

	bindQueryFlags(cmd, flags)
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the file that would be opened instead of opening it")
	return cmd
}

func editorError(path string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("open in editor").
		WithResource(path).
		WithIssue(issue.EditorLaunchFailedId)
	if errors.Is(err, editor.ErrFileNotFound) {
		ctx.WithSuggestion("Re-run the scan; the addon may have been removed")
	} else {
		ctx.WithSuggestions(
			"Check that the editor command is installed and on your PATH",
			"Set editor.command in the config file",
		)
	}
	return ctx.Wrap(err).BuildError()
}
