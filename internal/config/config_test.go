package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("VEIL_API_URL", "")
	t.Setenv("VEIL_TIMEOUT_SECONDS", "")
	t.Setenv("VEIL_OUTPUT_DIR", "")
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.Timeout != defaultTimeout {
		t.Fatalf("Timeout = %v, want %v", cfg.Timeout, defaultTimeout)
	}

	wantOut, err := expandPath(defaultOutputDir)
	if err != nil {
		t.Fatalf("expandPath(defaultOutputDir) returned error: %v", err)
	}
	if cfg.OutputDir != wantOut {
		t.Fatalf("OutputDir = %q, want %q", cfg.OutputDir, wantOut)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "  10.0.0.5:9999  "
timeout_seconds = 5
output_dir = "  ~/redacted  "
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "10.0.0.5:9999" {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, "10.0.0.5:9999")
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.OutputDir != filepath.Join(home, "redacted") {
		t.Fatalf("OutputDir = %q, want it under HOME %q", cfg.OutputDir, home)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "10.0.0.5:9999"
timeout_seconds = 5
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("VEIL_API_URL", "cloak.internal:8000")
	t.Setenv("VEIL_TIMEOUT_SECONDS", "60")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "cloak.internal:8000" {
		t.Fatalf("APIURL = %q, want env override", cfg.APIURL)
	}
	if cfg.Timeout != 60*time.Second {
		t.Fatalf("Timeout = %v, want 60s from env", cfg.Timeout)
	}
}

func TestLoad_RejectsBadTimeoutEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	t.Setenv("VEIL_TIMEOUT_SECONDS", "soon")

	if _, err := Load(""); err == nil {
		t.Fatal("Load returned nil error, want parse failure")
	}

	t.Setenv("VEIL_TIMEOUT_SECONDS", "-3")
	if _, err := Load(""); err == nil {
		t.Fatal("Load returned nil error, want rejection of negative timeout")
	}
}
