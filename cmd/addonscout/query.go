// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/addonscout/addonscout/internal/discovery"
	"github.com/addonscout/addonscout/internal/issue"
	"github.com/addonscout/addonscout/internal/tui"
)

// ErrAddonNotFound is wrapped by the error returned when a query matches nothing.
var ErrAddonNotFound = errors.New("no addon matches the query")

// queryFlags are the flags of the commands that look addons up by name.
type queryFlags struct {
	scanFlagValues
	version string
}

func bindQueryFlags(cmd *cobra.Command, flags *queryFlags) {
	bindScanFlags(cmd, &flags.scanFlagValues)
	cmd.Flags().StringVar(&flags.version, "version", "", "only consider addons of this version label")
}

// findEntries scans and filters the flattened listing by query, keeping only
// entries of flags.version when it is set. Match order follows tui.FilterAddons.
func findEntries(ctx context.Context, app *App, s *session, flags queryFlags, query string) ([]discovery.Entry, error) {
	result, err := scan(ctx, app, s, flags.scanFlagValues)
	if err != nil {
		return nil, err
	}

	entries := result.Entries()
	if flags.version != "" {
		kept := entries[:0]
		for _, e := range entries {
			if e.VersionLabel == flags.version {
				kept = append(kept, e)
			}
		}
		entries = kept
	}
	return tui.FilterAddons(entries, query), nil
}

// bestMatch prefers an entry whose display name equals query, ignoring case,
// over the first filtered match. The boolean reports whether the match was exact.
func bestMatch(matches []discovery.Entry, query string) (discovery.Entry, bool) {
	for _, e := range matches {
		if strings.EqualFold(e.Addon.DisplayName(), strings.TrimSpace(query)) {
			return e, true
		}
	}
	return matches[0], false
}

func addonNotFoundError(query string) error {
	return issue.NewErrorContext().
		WithOperation("find addon").
		WithResource(query).
		WithSuggestions(
			"Run 'addonscout search <part of the name>' to list close matches",
			"Run 'addonscout scan' to list every discovered addon",
		).
		WithIssue(issue.AddonNotFoundId).
		Wrap(ErrAddonNotFound).
		BuildError()
}

func newShowCommand(app *App, s *session) *cobra.Command {
	flags := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "show <query>",
		Short: "Show the metadata of matching addons",
		Long: `Show the detail panel of every addon whose name matches the query:
the author, the addon path and every other manifest field in the order
the manifest declares them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := findEntries(cmd.Context(), app, s, *flags, args[0])
			if err != nil {
				return reportError(cmd, s, app.stderr, err)
			}
			if len(matches) == 0 {
				return reportError(cmd, s, app.stderr, addonNotFoundError(args[0]))
			}
			writeDetails(app.stdout, matches, tui.TerminalWidth(0))
			return nil
		},
	}

	bindQueryFlags(cmd, flags)
	return cmd
}

func newSearchCommand(app *App, s *session) *cobra.Command {
	flags := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "List addons whose name matches the query",
		Long: `List the addons whose display name contains the query, ignoring case.
When nothing contains it, close fuzzy matches are listed best first.
An empty query lists every addon.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			matches, err := findEntries(cmd.Context(), app, s, *flags, query)
			if err != nil {
				return reportError(cmd, s, app.stderr, err)
			}
			if len(matches) == 0 {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render(tui.NoAddonsMessage))
				return nil
			}
			writeEntries(app.stdout, matches)
			return nil
		},
	}

	bindQueryFlags(cmd, flags)
	return cmd
}
