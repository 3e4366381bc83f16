// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"testing"
)

func TestDiagnostics_ReportManifestFailure(t *testing.T) {
	t.Parallel()

	var diags Diagnostics
	denied := &os.PathError{Op: "open", Path: "/a/__init__.py", Err: fs.ErrPermission}
	diags.ReportManifestFailure("/a/__init__.py", denied)
	diags.ReportManifestFailure("/b/__init__.py", errors.New("manifest is not valid UTF-8"))

	want := []string{
		"Permission denied for /a/__init__.py: open /a/__init__.py: permission denied",
		"Error reading /b/__init__.py: manifest is not valid UTF-8",
	}
	if got := diags.Messages(); !slices.Equal(got, want) {
		t.Errorf("Messages() = %q, want %q", got, want)
	}

	items := diags.Items()
	if len(items) != 2 {
		t.Fatalf("Items() len = %d, want 2", len(items))
	}
	if items[0].Code != CodeManifestUnreadable || items[0].Severity != SeverityWarning {
		t.Errorf("first diagnostic = %+v", items[0])
	}
	if !errors.Is(items[0].Cause, fs.ErrPermission) {
		t.Errorf("Cause = %v, want permission error", items[0].Cause)
	}
	if items[1].Path != "/b/__init__.py" {
		t.Errorf("Path = %q", items[1].Path)
	}
}
