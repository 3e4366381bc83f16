// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/addonscout/addonscout/internal/config"
	"github.com/addonscout/addonscout/internal/discovery"
	"github.com/addonscout/addonscout/internal/issue"
	"github.com/addonscout/addonscout/internal/tui"
)

const (
	sortTraversal = "traversal"
	sortVersion   = "version"
)

type (
	// scanFlagValues are the flags shared by every command that scans.
	scanFlagValues struct {
		roots []string
		sort  string
	}

	// scanFlags are the flags of "scan".
	scanFlags struct {
		scanFlagValues
		json   bool
		format string
	}
)

func newScanCommand(app *App, s *session) *cobra.Command {
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List installed versions and their addons",
		Long: `Scan every root directory for installed versions and list the addons
found under each, followed by the errors encountered during the scan.

Versions without any addon are not listed. Unreadable directories are
reported in the error panel and never abort the scan.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseFormat(flags.format)
			if err != nil {
				return err
			}
			if flags.json {
				format = formatJSON
			}

			result, err := scan(cmd.Context(), app, s, flags.scanFlagValues)
			if err != nil {
				return reportError(cmd, s, app.stderr, err)
			}

			switch format {
			case formatJSON:
				return writeScanJSON(app.stdout, result)
			case formatYAML:
				return writeScanYAML(app.stdout, result)
			default:
				writeScanText(app.stdout, result, tui.TerminalWidth(0))
				if s.isVerbose() {
					for _, id := range scanIssues(result) {
						writeIssue(app.stderr, s, issue.Get(id))
					}
				}
				return nil
			}
		},
	}

	bindScanFlags(cmd, &flags.scanFlagValues)
	cmd.Flags().BoolVar(&flags.json, "json", false, "output JSON (same as --format json)")
	cmd.Flags().StringVar(&flags.format, "format", formatText, "output format: text, json or yaml")

	return cmd
}

func bindScanFlags(cmd *cobra.Command, flags *scanFlagValues) {
	cmd.Flags().StringArrayVar(&flags.roots, "root", nil, "extra root directory to scan (repeatable)")
	cmd.Flags().StringVar(&flags.sort, "sort", sortTraversal, "version order: traversal or version")
}

// newScanner loads the configuration and builds a scanner for it.
func newScanner(ctx context.Context, app *App, s *session, flags scanFlagValues) (*discovery.Scanner, *config.Config, error) {
	if flags.sort != sortTraversal && flags.sort != sortVersion {
		return nil, nil, fmt.Errorf("invalid --sort %q (valid: %s, %s)", flags.sort, sortTraversal, sortVersion)
	}

	cfg, err := s.config(ctx, app)
	if err != nil {
		return nil, nil, err
	}
	return app.NewScanner(cfg, flags.roots), cfg, nil
}

// scan runs one scan with the configured roots plus flags.roots.
func scan(ctx context.Context, app *App, s *session, flags scanFlagValues) (discovery.ScanResult, error) {
	scanner, _, err := newScanner(ctx, app, s, flags)
	if err != nil {
		return discovery.ScanResult{}, err
	}
	if len(scanner.Roots()) == 0 {
		s.log().Warn("no roots to scan", "hint", "set roots in the config file or pass --root")
	}
	return runScan(ctx, scanner, flags.sort), nil
}

// scanIssues returns the catalog pages that explain an unexpected result.
func scanIssues(result discovery.ScanResult) []issue.Id {
	var ids []issue.Id
	if len(result.Versions) == 0 {
		ids = append(ids, issue.NoAddonsFoundId)
	}
	for _, d := range result.Diagnostics {
		if errors.Is(d.Cause, fs.ErrPermission) {
			ids = append(ids, issue.PermissionDeniedId)
			break
		}
	}
	return ids
}

// runScan scans and applies the requested version order.
func runScan(ctx context.Context, scanner *discovery.Scanner, order string) discovery.ScanResult {
	result := scanner.Scan(ctx)
	if order == sortVersion {
		result.Versions = discovery.SortVersions(result.Versions)
	}
	return result
}
