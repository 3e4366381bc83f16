// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/addonscout/addonscout/internal/discovery"
	"github.com/addonscout/addonscout/internal/issue"
	"github.com/addonscout/addonscout/internal/tui"
)

func newBrowseCommand(app *App, s *session) *cobra.Command {
	flags := &scanFlagValues{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search and inspect addons interactively",
		Long: `Open the interactive addon browser.

Type to filter the list, enter to show the selected addon's details,
ctrl+o to open it in the editor, ctrl+r to rescan, tab for the scan
errors and esc to go back or quit.

Without a terminal the plain scan listing is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			scanner, cfg, err := newScanner(ctx, app, s, *flags)
			if err != nil {
				return reportError(cmd, s, app.stderr, err)
			}
			result := runScan(ctx, scanner, flags.sort)

			if !app.IsTerminal() {
				s.log().Warn("not a terminal, printing the listing instead")
				if s.isVerbose() {
					writeIssue(app.stderr, s, issue.Get(issue.NotInteractiveId))
				}
				writeScanText(app.stdout, result, 0)
				return nil
			}

			ed := app.NewEditor(cfg, s.log())
			defer ed.Wait()

			browser := tui.NewBrowser(tui.BrowserOptions{
				Result: result,
				Open:   ed.OpenExternally,
				Rescan: func(ctx context.Context) discovery.ScanResult {
					return runScan(ctx, scanner, flags.sort)
				},
				Width: tui.TerminalWidth(0),
			})
			if err := browser.Run(ctx, app.stdin, app.stdout); err != nil {
				return reportError(cmd, s, app.stderr, err)
			}
			return nil
		},
	}

	bindScanFlags(cmd, flags)
	return cmd
}
