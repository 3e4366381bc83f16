// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/addonscout/addonscout/internal/discovery"
)

// maxRootProbes bounds concurrent root inspections.
const maxRootProbes = 4

// rootStatus describes one scan root.
type rootStatus struct {
	Path     string
	Exists   bool
	Versions int
	Err      error
}

func newRootsCommand(app *App, s *session) *cobra.Command {
	flags := &scanFlagValues{sort: sortTraversal}

	cmd := &cobra.Command{
		Use:   "roots",
		Short: "List the directories that are scanned",
		Long: `List the root directories in scan order: the per-OS data directory of
the host application, then the configured roots, then --root flags.
Each line tells whether the directory exists and how many version
directories it holds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scanner, _, err := newScanner(cmd.Context(), app, s, *flags)
			if err != nil {
				return reportError(cmd, s, app.stderr, err)
			}
			statuses, err := probeRoots(cmd.Context(), app.fs, scanner.Roots())
			if err != nil {
				return reportError(cmd, s, app.stderr, err)
			}
			writeRoots(app.stdout, statuses)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&flags.roots, "root", nil, "extra root directory (repeatable)")
	return cmd
}

// probeRoots inspects every root concurrently. Results keep the order of
// paths. Unreadable roots are reported in rootStatus.Err, not as an error.
func probeRoots(ctx context.Context, fsys afero.Fs, paths []string) ([]rootStatus, error) {
	statuses := make([]rootStatus, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxRootProbes)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			statuses[i] = probeRoot(fsys, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("probe roots: %w", err)
	}
	return statuses, nil
}

func probeRoot(fsys afero.Fs, path string) rootStatus {
	status := rootStatus{Path: path}
	entries, err := afero.ReadDir(fsys, path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			status.Exists = true
			status.Err = err
		}
		return status
	}
	status.Exists = true
	for _, e := range entries {
		if e.IsDir() && discovery.IsVersionLabel(e.Name()) {
			status.Versions++
		}
	}
	return status
}

func writeRoots(w io.Writer, statuses []rootStatus) {
	if len(statuses) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("(no roots for this operating system; add some with --root or the roots config key)"))
		return
	}
	for _, st := range statuses {
		switch {
		case st.Err != nil:
			fmt.Fprintf(w, "%s %s %s\n", ErrorStyle.Render("✗"), PathStyle.Render(st.Path), WarningStyle.Render("("+st.Err.Error()+")"))
		case st.Exists:
			fmt.Fprintf(w, "%s %s %s\n", SuccessStyle.Render("✓"), PathStyle.Render(st.Path), SubtitleStyle.Render(fmt.Sprintf("(%d version(s))", st.Versions)))
		default:
			fmt.Fprintf(w, "%s %s %s\n", VerboseStyle.Render("-"), PathStyle.Render(st.Path), SubtitleStyle.Render("(missing)"))
		}
	}
}
