// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/addonscout/addonscout/internal/issue"
	"github.com/addonscout/addonscout/internal/watch"
)

func newWatchCommand(app *App, s *session) *cobra.Command {
	flags := &scanFlagValues{}
	var (
		clearScreen bool
		debounce    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rescan and reprint whenever the roots change",
		Long: `Print the scan listing, then watch every existing root recursively and
print a fresh listing after files change. Events are debounced
(watch.debounce, 500ms by default) and bytecode caches are ignored.

Press Ctrl+C to stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			scanner, cfg, err := newScanner(ctx, app, s, *flags)
			if err != nil {
				return reportError(cmd, s, app.stderr, err)
			}

			writeScanText(app.stdout, runScan(ctx, scanner, flags.sort), 0)

			if !cmd.Flags().Changed("debounce") {
				debounce = cfg.Watch.Debounce
			}
			w, err := watch.New(watch.Config{
				Roots:       scanner.Roots(),
				Ignore:      cfg.Watch.Ignore,
				Debounce:    debounce,
				ClearScreen: clearScreen,
				Stdout:      app.stdout,
				Logger:      s.log(),
				OnChange: func(ctx context.Context, changed []string) error {
					s.log().Debug("roots changed, rescanning", "changed", len(changed))
					fmt.Fprintf(app.stdout, "\n%s Detected %d change(s). Rescanning...\n", PathStyle.Render("→"), len(changed))
					writeScanText(app.stdout, runScan(ctx, scanner, flags.sort), 0)
					return nil
				},
			})
			if err != nil {
				return reportError(cmd, s, app.stderr, watchError(err))
			}

			fmt.Fprintf(app.stdout, "\n%s Watching %d root(s) for changes (Ctrl+C to stop)...\n", PathStyle.Render("→"), len(w.Roots()))
			if err := w.Run(ctx); err != nil {
				return reportError(cmd, s, app.stderr, watchError(err))
			}
			return nil
		},
	}

	bindScanFlags(cmd, flags)
	cmd.Flags().BoolVar(&clearScreen, "clear", false, "clear the screen before each rescan")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before a rescan (default from watch.debounce)")
	return cmd
}

func watchError(err error) error {
	ctx := issue.NewErrorContext().WithOperation("watch roots")
	if errors.Is(err, watch.ErrNoRoots) {
		return ctx.
			WithSuggestions(
				"Run 'addonscout roots' to see which directories exist",
				"Add a root with --root or the roots config key",
			).
			WithIssue(issue.NoRootsId).
			Wrap(err).
			BuildError()
	}
	return ctx.WithIssue(issue.WatchFailedId).Wrap(err).BuildError()
}
