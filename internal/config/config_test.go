package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TODOLIST_BASE_URL", "")
	t.Setenv("TODOLIST_LOG_LEVEL", "")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.Timeout.Duration != 0 {
		t.Errorf("Timeout = %v, want 0", cfg.Timeout.Duration)
	}
	if cfg.Reconcile {
		t.Error("Reconcile should default to false")
	}
	if cfg.EffectiveLogLevel() != "warn" {
		t.Errorf("EffectiveLogLevel = %q, want warn", cfg.EffectiveLogLevel())
	}
}

func TestLoad_File(t *testing.T) {
	t.Setenv("TODOLIST_BASE_URL", "")
	t.Setenv("TODOLIST_LOG_LEVEL", "")
	dir := t.TempDir()
	writeConfig(t, dir, `
base_url = "http://todo.example:9000/api/"
timeout = "3s"
reconcile = true
log_level = "debug"
log_format = "json"
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://todo.example:9000/api" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout.Duration != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", cfg.Timeout.Duration)
	}
	if !cfg.Reconcile {
		t.Error("Reconcile = false, want true")
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("log settings = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `base_url = "http://from-file"`)
	t.Setenv("TODOLIST_BASE_URL", "http://from-env/")
	t.Setenv("TODOLIST_LOG_LEVEL", "error")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://from-env" {
		t.Errorf("BaseURL = %q, want http://from-env", cfg.BaseURL)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error", cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", `base_url = `},
		{"bad duration", `timeout = "soon"`},
		{"unknown key", `colour = "blue"`},
		{"unknown log level", `log_level = "verbose"`},
		{"unknown log format", `log_format = "xml"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TODOLIST_LOG_LEVEL", "")
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			if _, err := Load(dir); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestEffectiveLogLevel_Debug(t *testing.T) {
	cfg := &Config{LogLevel: "warn", Debug: true}
	if got := cfg.EffectiveLogLevel(); got != "debug" {
		t.Errorf("EffectiveLogLevel = %q, want debug", got)
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("DefaultConfigDir = %q", got)
	}
}

func TestLoad_InvalidEnvLogLevel(t *testing.T) {
	t.Setenv("TODOLIST_LOG_LEVEL", "verbose")
	_, err := Load(t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "invalid log_level") {
		t.Fatalf("err = %v, want invalid log_level", err)
	}
}
