package ux

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewPathDefaults(t *testing.T) {
	defaults := NewPathDefaults()

	if defaults.LumenDir != ".lumen" {
		t.Errorf("LumenDir = %q, want %q", defaults.LumenDir, ".lumen")
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"stats file", defaults.StatsFile(), filepath.Join(".lumen", "stats.yaml")},
		{"tasks file", defaults.TasksFile(), filepath.Join(".lumen", "tasks.yaml")},
		{"report dir", defaults.ReportDir(), filepath.Join(".lumen", "reports")},
		{"log file", defaults.LogFile(), filepath.Join(".lumen", "lumen.log")},
		{"config file", defaults.ConfigFile(), filepath.Join(".lumen", "config.yaml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestValidateLumenSetup(t *testing.T) {
	dir := t.TempDir()

	missing := &PathDefaults{LumenDir: filepath.Join(dir, ".lumen")}
	if err := missing.ValidateLumenSetup(); err == nil {
		t.Error("ValidateLumenSetup() = nil for missing directory, want error")
	}

	if err := os.MkdirAll(filepath.Join(dir, ".lumen"), 0750); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := missing.ValidateLumenSetup(); err != nil {
		t.Errorf("ValidateLumenSetup() error = %v, want nil", err)
	}
}

func TestValidateRequiredFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stats.yaml")

	err := ValidateRequiredFile(path, "Statistics snapshot", "Export one from your analytics pipeline")
	if err == nil {
		t.Fatal("ValidateRequiredFile() = nil for missing file, want error")
	}
	if !strings.Contains(err.Error(), "Statistics snapshot not found") {
		t.Errorf("error %q does not name the file type", err.Error())
	}
	if !strings.Contains(err.Error(), "Export one") {
		t.Errorf("error %q does not carry the creation hint", err.Error())
	}

	if err := os.WriteFile(path, []byte("exp_id: eid\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := ValidateRequiredFile(path, "Statistics snapshot", ""); err != nil {
		t.Errorf("ValidateRequiredFile() error = %v, want nil", err)
	}
}
