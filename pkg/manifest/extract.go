// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

const (
	// DefaultBlockName is the identifier the metadata block is assigned to.
	DefaultBlockName = "bl_info"

	// EmptyTupleValue replaces an empty tuple literal such as `()`.
	EmptyTupleValue = "N/A"

	// MaxFileSize bounds how much of a manifest is read (5MB).
	MaxFileSize int64 = 5 * 1024 * 1024
)

// pairPattern matches one `"key": value` entry inside a block. The value is a
// quoted string, a parenthesized tuple, or a bare token; the entry ends at a
// comma or at the end of the block.
var pairPattern = regexp.MustCompile(`(?s)"([^"]+)"\s*:\s*("(?:.*?)"|\([^)]*\)|[^,\n]+)\s*(?:,|$)`)

var defaultExtractor = New()

type (
	// Reporter receives failures that ExtractFile converts into an absent result.
	Reporter interface {
		ReportManifestFailure(path string, err error)
	}

	// Extractor locates and decodes the metadata block of a manifest.
	Extractor struct {
		blockName string
		block     *regexp.Regexp
	}

	// Option configures an Extractor.
	Option func(*Extractor)
)

// WithBlockName sets the identifier the metadata block is assigned to.
// An empty name keeps DefaultBlockName.
func WithBlockName(name string) Option {
	return func(e *Extractor) {
		if name != "" {
			e.blockName = name
		}
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{blockName: DefaultBlockName}
	for _, opt := range opts {
		opt(e)
	}
	e.block = regexp.MustCompile(`\b` + regexp.QuoteMeta(e.blockName) + `\s*=\s*\{([^}]*)\}`)
	return e
}

// BlockName returns the identifier this Extractor looks for.
func (e *Extractor) BlockName() string { return e.blockName }

// Extract decodes the first metadata block in text using DefaultBlockName.
func Extract(text string) (Metadata, bool) {
	return defaultExtractor.Extract(text)
}

// Extract decodes the first metadata block in text. The boolean is false only
// when no block-shaped text exists; a block without recognizable pairs yields
// an empty Metadata and true.
func (e *Extractor) Extract(text string) (Metadata, bool) {
	match := e.block.FindStringSubmatch(text)
	if match == nil {
		return Metadata{}, false
	}

	var m Metadata
	for _, pair := range pairPattern.FindAllStringSubmatch(match[1], -1) {
		m.set(pair[1], decodeValue(pair[2]))
	}
	return m, true
}

// ExtractFile reads path from fsys and decodes its metadata block. Read and
// decode failures are passed to rep (when non-nil) and reported as absent.
func (e *Extractor) ExtractFile(fsys afero.Fs, path string, rep Reporter) (Metadata, bool) {
	text, err := readManifest(fsys, path)
	if err != nil {
		if rep != nil {
			rep.ReportManifestFailure(path, err)
		}
		return Metadata{}, false
	}
	return e.Extract(text)
}

func readManifest(fsys afero.Fs, path string) (string, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("manifest is a directory")
	}
	if info.Size() > MaxFileSize {
		return "", fmt.Errorf("file size %d bytes exceeds maximum %d bytes", info.Size(), MaxFileSize)
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("manifest is not valid UTF-8")
	}
	return string(data), nil
}

// decodeValue converts one raw value into its stored form.
func decodeValue(raw string) string {
	value := strings.TrimSpace(raw)

	switch {
	case len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"':
		return value[1 : len(value)-1]
	case len(value) >= 2 && value[0] == '(' && value[len(value)-1] == ')':
		elems, err := parseTuple(value)
		if err != nil {
			return value
		}
		if len(elems) == 0 {
			elems = []string{EmptyTupleValue}
		}
		return strings.Join(elems, ".")
	default:
		return value
	}
}
