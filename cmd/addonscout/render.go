// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/addonscout/addonscout/internal/discovery"
	"github.com/addonscout/addonscout/internal/tui"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// writeScanText prints the version blocks followed by the error panel.
func writeScanText(w io.Writer, result discovery.ScanResult, width int) {
	if len(result.Versions) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render(tui.NoAddonsMessage))
	}

	host := result.HostName
	if host == "" {
		host = discovery.DefaultHostName
	}
	for _, v := range result.Versions {
		fmt.Fprintln(w, versionHeaderStyle.Render(host+" "+v.Label)+" "+SubtitleStyle.Render("("+v.Path+")"))
		for _, a := range v.Addons {
			entry := discovery.Entry{HostName: result.HostName, VersionLabel: v.Label, Addon: a}
			line := "  • " + entry.Label()
			if a.Kind() == discovery.KindArchive {
				line += " " + VerboseStyle.Render("[archive]")
			}
			fmt.Fprintln(w, line)
		}
	}

	writeErrorPanel(w, result.Errors, width)
}

// writeErrorPanel prints the scan errors verbatim, or the empty-state line.
func writeErrorPanel(w io.Writer, errs []string, width int) {
	fmt.Fprintln(w, panelHeaderStyle.Render("Scan errors"))
	fmt.Fprintln(w, tui.RenderErrors(errs, width))
}

// writeEntries prints one label per line.
func writeEntries(w io.Writer, entries []discovery.Entry) {
	for _, e := range entries {
		fmt.Fprintln(w, e.Label())
	}
}

// writeDetails prints the detail panel of every entry, separated by blank lines.
func writeDetails(w io.Writer, entries []discovery.Entry, width int) {
	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, tui.RenderDetail(e, width))
	}
}

// writeScanJSON encodes result as indented JSON. Metadata keeps manifest order.
func writeScanJSON(w io.Writer, result discovery.ScanResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(normalizeResult(result)); err != nil {
		return fmt.Errorf("encode scan result: %w", err)
	}
	return nil
}

// writeScanYAML encodes result as YAML. The document is built as a node tree
// so that metadata keys stay in manifest order.
func writeScanYAML(w io.Writer, result discovery.ScanResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(scanResultNode(normalizeResult(result))); err != nil {
		return fmt.Errorf("encode scan result: %w", err)
	}
	return enc.Close()
}

// normalizeResult replaces nil slices so encoders emit empty lists.
func normalizeResult(result discovery.ScanResult) discovery.ScanResult {
	if result.Versions == nil {
		result.Versions = []discovery.Version{}
	}
	if result.Errors == nil {
		result.Errors = []string{}
	}
	return result
}

func scanResultNode(result discovery.ScanResult) *yaml.Node {
	versions := seqNode()
	for _, v := range result.Versions {
		addons := seqNode()
		for _, a := range v.Addons {
			md := mapNode()
			for key, value := range a.Metadata().All() {
				md.Content = append(md.Content, strNode(key), strNode(value))
			}
			addon := mapNode(
				strNode("name"), strNode(a.DisplayName()),
				strNode("kind"), strNode(string(a.Kind())),
				strNode("path"), strNode(a.SourcePath()),
			)
			if a.ManifestPath() != "" {
				addon.Content = append(addon.Content, strNode("manifest"), strNode(a.ManifestPath()))
			}
			addon.Content = append(addon.Content, strNode("metadata"), md)
			addons.Content = append(addons.Content, addon)
		}
		versions.Content = append(versions.Content, mapNode(
			strNode("label"), strNode(v.Label),
			strNode("root"), strNode(v.RootPath),
			strNode("path"), strNode(v.Path),
			strNode("addons"), addons,
		))
	}

	errs := seqNode()
	for _, e := range result.Errors {
		errs.Content = append(errs.Content, strNode(e))
	}

	return mapNode(
		strNode("host"), strNode(result.HostName),
		strNode("versions"), versions,
		strNode("errors"), errs,
	)
}

func mapNode(content ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: content}
}

func seqNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: []*yaml.Node{}}
}

func strNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// parseFormat validates an output format flag value.
func parseFormat(value string) (string, error) {
	switch f := strings.ToLower(value); f {
	case formatText, formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid --format %q (valid: text, json, yaml)", value)
	}
}
