// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Id identifies a catalog entry.
//
//nolint:revive // Id matches the established catalog naming
type Id int

const (
	NoAddonsFoundId Id = iota + 1
	ConfigLoadFailedId
	AddonNotFoundId
	EditorLaunchFailedId
	PermissionDeniedId
	NoRootsId
	WatchFailedId
	NotInteractiveId
)

type MarkdownMsg string

type HttpLink string

// Issue is a Markdown help page shown when a command fails for a known reason.
type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the page with glamour; stylePath is a glamour style name
// such as "dark", "light" or "notty".
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range slices.Concat(i.docLinks, i.extLinks) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	noAddonsFoundIssue = &Issue{
		id: NoAddonsFoundId,
		mdMsg: `
# No addons found!

The scan finished without finding a single version directory holding addons.

## Where addonscout looks
1. The per-OS data directory of the host application
   (e.g. ~/.config/blender, ~/Library/Application Support/Blender,
   %APPDATA%\Blender Foundation\Blender)
2. Extra roots from your config file or the --root flag

Inside a root, each version directory (such as 4.2) must contain
scripts/addons with at least one addon directory or .zip archive.

## Things you can try:
- List the directories that are scanned:
~~~
$ addonscout roots
~~~

- Point addonscout at a portable install:
~~~
$ addonscout scan --root /opt/blender-portable/config
~~~`,
		extLinks: []HttpLink{"https://docs.blender.org/manual/en/latest/advanced/blender_directory_layout.html"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your config file could not be read or does not match the expected schema.

## Things you can try:
- Print the file that is being loaded:
~~~
$ addonscout config path
~~~

- Compare it with the defaults:
~~~
$ addonscout config dump
~~~

- Check ADDONSCOUT_* environment variables, which override the file`,
	}

	addonNotFoundIssue = &Issue{
		id: AddonNotFoundId,
		mdMsg: `
# Addon not found!

No discovered addon matches the name you gave.

## Things you can try:
- Search instead of naming the addon exactly:
~~~
$ addonscout search <part of the name>
~~~

- Narrow the lookup to one version with --version`,
	}

	editorLaunchFailedIssue = &Issue{
		id: EditorLaunchFailedId,
		mdMsg: `
# Could not start the editor!

The configured editor command was not found or exited immediately.

## Things you can try:
- Check that the command is on your PATH:
~~~
$ which code
~~~

- Configure another editor in your config file:
~~~cue
editor: command: "nvim"
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

Some directories or manifest files could not be read. The affected
entries are listed in the scan errors; everything else was still scanned.

## Things you can try:
- Check ownership of the listed paths
- Re-run the scan as the user that owns the host application data`,
	}

	noRootsIssue = &Issue{
		id: NoRootsId,
		mdMsg: `
# No roots to scan!

addonscout has no known data directory for this operating system and no
extra roots are configured.

## Things you can try:
- Add roots to your config file:
~~~cue
roots: ["/path/to/host/config"]
~~~

- Or pass them on the command line with --root`,
	}

	watchFailedIssue = &Issue{
		id: WatchFailedId,
		mdMsg: `
# Failed to watch for changes!

The filesystem watcher could not be started for the scan roots.

## Things you can try:
- On Linux, raise the inotify limit:
~~~
$ sysctl fs.inotify.max_user_watches=524288
~~~

- Fall back to one-off scans with 'addonscout scan'`,
	}

	notInteractiveIssue = &Issue{
		id: NotInteractiveId,
		mdMsg: `
# Not a terminal!

The browser needs an interactive terminal on stdin and stdout.

## Things you can try:
- Use 'addonscout scan' or 'addonscout search' when piping output`,
	}

	issues = map[Id]*Issue{
		noAddonsFoundIssue.Id():      noAddonsFoundIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		addonNotFoundIssue.Id():      addonNotFoundIssue,
		editorLaunchFailedIssue.Id(): editorLaunchFailedIssue,
		permissionDeniedIssue.Id():   permissionDeniedIssue,
		noRootsIssue.Id():            noRootsIssue,
		watchFailedIssue.Id():        watchFailedIssue,
		notInteractiveIssue.Id():     notInteractiveIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
}

func Get(id Id) *Issue {
	return issues[id]
}
