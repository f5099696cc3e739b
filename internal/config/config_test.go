// ABOUTME: Tests for ifgram configuration loading and path expansion.
// ABOUTME: Covers YAML parsing, defaults, env overrides, and remote detection.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"tilde only", "~", home},
		{"tilde slash", "~/foo/bar", filepath.Join(home, "foo", "bar")},
		{"absolute", "/tmp/foo", "/tmp/foo"},
		{"relative", "foo/bar", "foo/bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			if err != nil {
				t.Fatalf("ExpandPath(%q) error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func writeConfig(t *testing.T, body string) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	configDir := filepath.Join(tmpDir, "ifgram")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(body), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestLoadDefaultConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Content.Source != DefaultSource {
		t.Errorf("expected source %q, got %q", DefaultSource, cfg.Content.Source)
	}
	if cfg.Display.ViewMode != "grid" || cfg.Display.Account != "if_juku" {
		t.Errorf("unexpected display defaults: %+v", cfg.Display)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level info, got %q", cfg.Log.Level)
	}
	if cfg.IsRemote() {
		t.Error("expected IsRemote() to be false for default config")
	}
}

func TestLoadYAMLConfig(t *testing.T) {
	writeConfig(t, `content:
  source: "~/ifgram-data"
  watch: true
display:
  view_mode: feed
  account: "test_account"
log:
  level: debug
  file: "~/logs/ifgram.log"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	if got, err := cfg.GetContentSource(); err != nil {
		t.Fatalf("GetContentSource() error: %v", err)
	} else if got != filepath.Join(home, "ifgram-data") {
		t.Errorf("GetContentSource() = %q", got)
	}
	if !cfg.Content.Watch {
		t.Error("expected watch to be true")
	}
	if cfg.Display.ViewMode != "feed" || cfg.Display.Account != "test_account" {
		t.Errorf("unexpected display: %+v", cfg.Display)
	}
	if got, err := cfg.GetLogPath(); err != nil {
		t.Fatalf("GetLogPath() error: %v", err)
	} else if got != filepath.Join(home, "logs", "ifgram.log") {
		t.Errorf("GetLogPath() = %q", got)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	writeConfig(t, `content:
  source: "./local"
display:
  view_mode: grid
`)
	t.Setenv("IFGRAM_CONTENT_SOURCE", "https://example.com/data")
	t.Setenv("IFGRAM_VIEW_MODE", "feed")
	t.Setenv("IFGRAM_CONTENT_WATCH", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Content.Source != "https://example.com/data" || !cfg.IsRemote() {
		t.Errorf("source = %q", cfg.Content.Source)
	}
	if got, _ := cfg.GetContentSource(); got != "https://example.com/data" {
		t.Errorf("remote sources must not be path-expanded: %q", got)
	}
	if cfg.Display.ViewMode != "feed" || !cfg.Content.Watch {
		t.Errorf("env overrides not applied: %+v", cfg)
	}

	fileOnly, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if fileOnly.Content.Source != "./local" {
		t.Errorf("LoadFile should ignore env, got %q", fileOnly.Content.Source)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	writeConfig(t, "content: [unterminated")
	if _, err := Load(); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg := Default()
	cfg.Content.Source = "/srv/ifgram"
	cfg.Display.Account = "saved_account"

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	info, err := os.Stat(filepath.Join(tmpDir, "ifgram", "config.yaml"))
	if err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config permissions = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Content.Source != "/srv/ifgram" {
		t.Errorf("expected source '/srv/ifgram', got %q", loaded.Content.Source)
	}
	if loaded.Display.Account != "saved_account" {
		t.Errorf("expected account 'saved_account', got %q", loaded.Display.Account)
	}
}

func TestDefaultLogPath(t *testing.T) {
	stateDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateDir)

	got, err := Default().GetLogPath()
	if err != nil {
		t.Fatalf("GetLogPath() error: %v", err)
	}
	if got != filepath.Join(stateDir, "ifgram", "ifgram.log") {
		t.Errorf("GetLogPath() = %q", got)
	}
}

func TestEnvHelp(t *testing.T) {
	help := EnvHelp()
	for _, name := range []string{"IFGRAM_CONTENT_SOURCE", "IFGRAM_LOG_LEVEL"} {
		if !strings.Contains(help, name) {
			t.Errorf("EnvHelp() missing %s", name)
		}
	}
}
