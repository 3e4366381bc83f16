// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"

	"github.com/addonscout/addonscout/internal/discovery"
)

const (
	// NoAddonsMessage is shown when a scan found no versions.
	NoAddonsMessage = "No addons found."
	// NoErrorsMessage is shown when a scan produced no errors.
	NoErrorsMessage = "No errors encountered during scan."

	defaultWidth  = 80
	defaultHeight = 24
	// chromeHeight covers the title, search box, blank line and footer.
	chromeHeight = 5
)

type (
	// BrowserOptions configures the addon browser.
	BrowserOptions struct {
		// Result is the scan shown when the browser starts.
		Result discovery.ScanResult
		// Open is called with the file to edit. It must not block.
		Open func(path string)
		// Rescan, when set, is bound to ctrl+r and replaces the shown result.
		Rescan func(ctx context.Context) discovery.ScanResult
		// Width and Height are used until the terminal reports its size.
		Width  int
		Height int
	}

	// Browser is the bubbletea model of the addon browser: a search box over
	// the flattened addon list, a detail panel and the scan error panel.
	Browser struct {
		opts    BrowserOptions
		ctx     context.Context
		result  discovery.ScanResult
		entries []discovery.Entry
		visible []discovery.Entry

		search textinput.Model
		list   list.Model
		detail viewport.Model

		showDetail bool
		showErrors bool
		status     string
		width      int
		height     int
	}

	browserKeyMap struct {
		Up, Down, PageUp, PageDown key.Binding
		Select, Back, Open         key.Binding
		Rescan, Errors, Quit       key.Binding
	}

	// rescannedMsg carries a fresh result into Update.
	rescannedMsg struct {
		result discovery.ScanResult
	}

	entryItem struct {
		discovery.Entry
	}

	entryDelegate struct{}
)

var browserKeys = browserKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
	Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Open:     key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open in editor")),
	Rescan:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "rescan")),
	Errors:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "errors")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

// NewBrowser creates the browser model.
func NewBrowser(opts BrowserOptions) *Browser {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}

	search := textinput.New()
	search.Prompt = "> "
	search.Placeholder = "search addons"
	search.Focus()

	l := list.New(nil, entryDelegate{}, opts.Width, listHeight(opts.Height))
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.DisableQuitKeybindings()
	l.KeyMap = list.KeyMap{
		CursorUp:   browserKeys.Up,
		CursorDown: browserKeys.Down,
		NextPage:   browserKeys.PageDown,
		PrevPage:   browserKeys.PageUp,
	}

	b := &Browser{
		opts:   opts,
		ctx:    context.Background(),
		search: search,
		list:   l,
		detail: viewport.New(opts.Width, listHeight(opts.Height)),
		width:  opts.Width,
		height: opts.Height,
	}
	b.setResult(opts.Result)
	return b
}

// Run shows the browser until the user quits or ctx is canceled.
func (b *Browser) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	b.ctx = ctx
	p := tea.NewProgram(b,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}

// Query returns the current search text.
func (b *Browser) Query() string { return b.search.Value() }

// Visible returns the entries matching the current query.
func (b *Browser) Visible() []discovery.Entry { return b.visible }

// Selected returns the highlighted entry.
func (b *Browser) Selected() (discovery.Entry, bool) {
	item, ok := b.list.SelectedItem().(entryItem)
	if !ok {
		return discovery.Entry{}, false
	}
	return item.Entry, true
}

func (b *Browser) Init() tea.Cmd {
	return textinput.Blink
}

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil

	case rescannedMsg:
		b.setResult(msg.result)
		b.status = fmt.Sprintf("rescanned: %d addons, %d errors", msg.result.AddonCount(), len(msg.result.Errors))
		return b, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, browserKeys.Quit):
			return b, tea.Quit
		case key.Matches(msg, browserKeys.Back):
			if b.showDetail || b.showErrors {
				b.showDetail, b.showErrors = false, false
				return b, nil
			}
			return b, tea.Quit
		case key.Matches(msg, browserKeys.Errors):
			b.showErrors = !b.showErrors
			b.showDetail = false
			return b, nil
		case key.Matches(msg, browserKeys.Select):
			b.toggleDetail()
			return b, nil
		case key.Matches(msg, browserKeys.Open):
			b.openSelected()
			return b, nil
		case key.Matches(msg, browserKeys.Rescan):
			return b, b.rescan()
		}

		if b.showDetail {
			var cmd tea.Cmd
			b.detail, cmd = b.detail.Update(msg)
			return b, cmd
		}

		if isListKey(msg) {
			var cmd tea.Cmd
			b.list, cmd = b.list.Update(msg)
			return b, cmd
		}

		var cmd tea.Cmd
		before := b.search.Value()
		b.search, cmd = b.search.Update(msg)
		if b.search.Value() != before {
			b.applyQuery()
		}
		return b, cmd
	}

	var cmd tea.Cmd
	b.search, cmd = b.search.Update(msg)
	return b, cmd
}

func (b *Browser) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s Addons", b.result.HostName)))
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("  %d of %d", len(b.visible), len(b.entries))))
	sb.WriteString("\n")
	sb.WriteString(b.search.View())
	sb.WriteString("\n\n")

	switch {
	case b.showErrors:
		sb.WriteString(headerStyle.Render("Error Log"))
		sb.WriteString("\n")
		sb.WriteString(RenderErrors(b.result.Errors, b.width))
	case b.showDetail:
		sb.WriteString(b.detail.View())
	case len(b.entries) == 0:
		sb.WriteString(errorStyle.Render(NoAddonsMessage))
	default:
		sb.WriteString(b.list.View())
	}

	sb.WriteString("\n")
	sb.WriteString(b.footer())
	return sb.String()
}

func (b *Browser) footer() string {
	errs := fmt.Sprintf("%d errors", len(b.result.Errors))
	help := []string{"enter details", "ctrl+o open", "tab " + errs, "esc back", "ctrl+c quit"}
	if b.opts.Rescan != nil {
		help = append(help, "ctrl+r rescan")
	}
	line := strings.Join(help, " • ")
	if b.status != "" {
		line = b.status + " • " + line
	}
	return mutedStyle.Render(truncate.StringWithTail(line, uint(max(b.width, 1)), "…"))
}

func (b *Browser) setResult(result discovery.ScanResult) {
	b.result = result
	b.entries = result.Entries()
	b.applyQuery()
	if b.showDetail {
		b.refreshDetail()
	}
}

func (b *Browser) applyQuery() {
	b.visible = FilterAddons(b.entries, b.search.Value())
	items := make([]list.Item, len(b.visible))
	for i, e := range b.visible {
		items[i] = entryItem{e}
	}
	b.list.SetItems(items)
	b.list.Select(0)
}

func (b *Browser) toggleDetail() {
	if b.showDetail {
		b.showDetail = false
		return
	}
	if _, ok := b.Selected(); !ok {
		return
	}
	b.showErrors = false
	b.showDetail = true
	b.refreshDetail()
}

func (b *Browser) refreshDetail() {
	entry, ok := b.Selected()
	if !ok {
		b.showDetail = false
		return
	}
	b.detail.SetContent(RenderDetail(entry, b.width))
	b.detail.GotoTop()
}

func (b *Browser) openSelected() {
	entry, ok := b.Selected()
	if !ok || b.opts.Open == nil {
		return
	}
	path := entry.Addon.EditPath()
	b.opts.Open(path)
	b.status = "opening " + path
}

func (b *Browser) rescan() tea.Cmd {
	if b.opts.Rescan == nil {
		return nil
	}
	ctx, rescan := b.ctx, b.opts.Rescan
	b.status = "rescanning…"
	return func() tea.Msg {
		return rescannedMsg{result: rescan(ctx)}
	}
}

func (b *Browser) resize(w, h int) {
	b.width, b.height = w, h
	b.list.SetSize(w, listHeight(h))
	b.detail.Width = w
	b.detail.Height = listHeight(h)
	b.search.Width = max(w-len(b.search.Prompt)-1, 1)
	if b.showDetail {
		b.refreshDetail()
	}
}

func listHeight(h int) int {
	return max(h-chromeHeight, 1)
}

func isListKey(msg tea.KeyMsg) bool {
	return key.Matches(msg, browserKeys.Up, browserKeys.Down, browserKeys.PageUp, browserKeys.PageDown)
}

func (i entryItem) FilterValue() string { return i.Addon.DisplayName() }

func (d entryDelegate) Height() int                         { return 1 }
func (d entryDelegate) Spacing() int                        { return 0 }
func (d entryDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d entryDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(entryItem)
	if !ok {
		return
	}
	label := truncate.StringWithTail(item.Label(), uint(max(m.Width()-2, 1)), "…")
	if index == m.Index() {
		fmt.Fprint(w, cursorStyle.Render("> "+label))
		return
	}
	fmt.Fprint(w, "  "+label)
}

var _ tea.Model = (*Browser)(nil)
