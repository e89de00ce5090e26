package pathutil

import (
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	p := New(Config{DataRoot: "data"})

	if got := p.GetDatabasePath(); got != filepath.Join("data", "ppe.db") {
		t.Errorf("GetDatabasePath() = %q", got)
	}
	if got := p.GetExportDir(); got != filepath.Join("data", "exports") {
		t.Errorf("GetExportDir() = %q", got)
	}
}

func TestNewOverrides(t *testing.T) {
	p := New(Config{DataRoot: "data", DatabasePath: "/tmp/x.db", ExportDir: "/tmp/out"})

	if got := p.GetDatabasePath(); got != "/tmp/x.db" {
		t.Errorf("GetDatabasePath() = %q, expected /tmp/x.db", got)
	}
	if got := p.GetExportDir(); got != "/tmp/out" {
		t.Errorf("GetExportDir() = %q, expected /tmp/out", got)
	}
}

func TestGetExportPath(t *testing.T) {
	p := New(Config{DataRoot: "data"})
	at := time.Date(2025, 1, 31, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name      string
		prefix    string
		ext       string
		expected  string
		expectErr bool
	}{
		{"report json", "report", "json", filepath.Join("data", "exports", "report_20250131_150405.json"), false},
		{"backup", "backup_ppe", "json", filepath.Join("data", "exports", "backup_ppe_20250131_150405.json"), false},
		{"missing ext", "report", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.GetExportPath(tt.prefix, tt.ext, at)
			if (err != nil) != tt.expectErr {
				t.Fatalf("GetExportPath() error = %v, expectErr = %v", err, tt.expectErr)
			}
			if got != tt.expected {
				t.Errorf("GetExportPath() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestEnsureParentDir(t *testing.T) {
	dir := t.TempDir()
	p := New(Config{DataRoot: dir})

	target := filepath.Join(dir, "a", "b", "file.json")
	if err := p.EnsureParentDir(target); err != nil {
		t.Fatalf("EnsureParentDir() error = %v", err)
	}
	if !p.FileExists(filepath.Join(dir, "a", "b")) {
		t.Error("parent directory was not created")
	}
	if p.FileExists(target) {
		t.Error("file itself must not be created")
	}
}
