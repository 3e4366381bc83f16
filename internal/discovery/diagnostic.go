// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"io/fs"
)

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"

	// CodeRootUnreadable reports a root directory that exists but cannot be listed.
	CodeRootUnreadable DiagnosticCode = "root_unreadable"
	// CodeContainerUnreadable reports an addon container that cannot be listed.
	CodeContainerUnreadable DiagnosticCode = "container_unreadable"
	// CodeManifestUnreadable reports a manifest that could not be read or decoded.
	CodeManifestUnreadable DiagnosticCode = "manifest_unreadable"
	// CodeEntryFailed reports an addon entry whose type could not be determined.
	CodeEntryFailed DiagnosticCode = "entry_failed"
	// CodeScanCanceled reports a scan stopped early by its context.
	CodeScanCanceled DiagnosticCode = "scan_canceled"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// DiagnosticCode is a machine-readable diagnostic identifier.
	DiagnosticCode string

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "container_unreadable").
		Code DiagnosticCode
		// Message is the human-readable description shown in the error panel.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}

	// Diagnostics accumulates diagnostics in the order they are reported.
	// The zero value is ready to use. It also serves as the failure sink for
	// manifest extraction.
	Diagnostics struct {
		items []Diagnostic
	}
)

// String returns the string representation of the Severity.
func (s Severity) String() string { return string(s) }

// String returns the string representation of the DiagnosticCode.
func (c DiagnosticCode) String() string { return string(c) }

// Add appends a diagnostic.
func (d *Diagnostics) Add(diag Diagnostic) {
	d.items = append(d.items, diag)
}

// ReportManifestFailure records a manifest that could not be read or decoded.
func (d *Diagnostics) ReportManifestFailure(path string, err error) {
	d.Add(Diagnostic{
		Severity: SeverityWarning,
		Code:     CodeManifestUnreadable,
		Message:  describeFailure(path, err),
		Path:     path,
		Cause:    err,
	})
}

// Len returns the number of accumulated diagnostics.
func (d *Diagnostics) Len() int { return len(d.items) }

// Items returns the accumulated diagnostics.
func (d *Diagnostics) Items() []Diagnostic {
	out := make([]Diagnostic, len(d.items))
	copy(out, d.items)
	return out
}

// Messages returns the human-readable message of every diagnostic in order.
func (d *Diagnostics) Messages() []string {
	msgs := make([]string, len(d.items))
	for i, diag := range d.items {
		msgs[i] = diag.Message
	}
	return msgs
}

// describeFailure renders an I/O failure on path as a single error-panel line.
func describeFailure(path string, err error) string {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Sprintf("Permission denied for %s: %v", path, err)
	}
	return fmt.Sprintf("Error reading %s: %v", path, err)
}
