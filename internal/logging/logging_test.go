// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"loud", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run("level_"+tt.in, func(t *testing.T) {
			t.Parallel()

			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewManager_ConsoleFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   string
	}{
		{"json", `"msg":"scan complete"`},
		{"text", "msg=\"scan complete\""},
		{"pretty", "scan complete"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			m, logger := NewManager(Config{Level: "info", Format: tt.format, Console: &buf})
			t.Cleanup(func() { _ = m.Close() })

			logger.Debug("hidden")
			logger.Info("scan complete", "addons", 3)

			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want it to contain %q", out, tt.want)
			}
			if strings.Contains(out, "hidden") {
				t.Errorf("debug record written at info level: %q", out)
			}
		})
	}
}

func TestManager_SetLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	m, logger := NewManager(Config{Level: "warn", Format: "pretty", Console: &buf})

	logger.Info("before")
	m.SetLevel("debug")
	logger.Debug("after")

	if m.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v, want debug", m.Level())
	}
	out := buf.String()
	if strings.Contains(out, "before") || !strings.Contains(out, "after") {
		t.Errorf("output = %q, want only the record logged after SetLevel", out)
	}
}

func TestNewManager_FileOutput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "addonscout.log")
	var console bytes.Buffer
	m, logger := NewManager(Config{Level: "debug", Format: "pretty", FilePath: path, Console: &console})

	logger.With("root", "/r").Debug("root does not exist")
	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("log file line is not JSON: %v\n%s", err, data)
	}
	if rec["msg"] != "root does not exist" || rec["root"] != "/r" {
		t.Errorf("file record = %v", rec)
	}
	if !strings.Contains(console.String(), "root does not exist") {
		t.Errorf("console output = %q, want the record too", console.String())
	}
}

func TestConfig_String(t *testing.T) {
	t.Parallel()

	c := Config{Level: "info", Format: "json"}
	if got := c.String(); got != "level=info format=json" {
		t.Errorf("String() = %q", got)
	}
	c.FilePath = "/tmp/a.log"
	c.FileMaxSizeMB = 5
	if got := c.String(); !strings.Contains(got, "file=/tmp/a.log max_size=5MB") {
		t.Errorf("String() = %q", got)
	}
}
