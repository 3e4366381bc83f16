// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"

	"github.com/addonscout/addonscout/internal/discovery"
)

// maxPickHeight caps the number of visible options in PickEntry.
const maxPickHeight = 10

// ErrPickCanceled is returned when the user leaves the picker without a choice.
var ErrPickCanceled = errors.New("selection canceled")

// PickEntry asks the user to choose one of entries. Options are labelled with
// Entry.Label and keep the order of entries.
func PickEntry(ctx context.Context, title string, entries []discovery.Entry, in io.Reader, out io.Writer) (discovery.Entry, error) {
	if len(entries) == 0 {
		return discovery.Entry{}, ErrPickCanceled
	}

	var index int
	sel := huh.NewSelect[int]().
		Title(title).
		Options(pickOptions(entries)...).
		Height(min(len(entries)+2, maxPickHeight)).
		Value(&index)

	form := huh.NewForm(huh.NewGroup(sel)).
		WithTheme(huh.ThemeCharm()).
		WithInput(in).
		WithOutput(out)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return discovery.Entry{}, ErrPickCanceled
		}
		return discovery.Entry{}, fmt.Errorf("pick addon: %w", err)
	}
	return entries[index], nil
}

func pickOptions(entries []discovery.Entry) []huh.Option[int] {
	opts := make([]huh.Option[int], len(entries))
	for i, e := range entries {
		opts[i] = huh.NewOption(e.Label(), i)
	}
	return opts
}
