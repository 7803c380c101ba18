package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything veil needs to reach the Cloak daemon and
// deliver artifacts.
type Config struct {
	APIURL    string
	Timeout   time.Duration
	OutputDir string
}

const (
	defaultConfigPath = "~/.config/veil/config.toml"
	defaultAPIURL     = "127.0.0.1:8000"
	defaultOutputDir  = "~/Downloads"
	defaultTimeout    = 30 * time.Second
)

// Load locates and parses the veil config, falling back to defaults when
// missing, then applies environment overrides. A .env file in the working
// directory is honored when present.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{APIURL: defaultAPIURL, OutputDir: defaultOutputDir, Timeout: defaultTimeout}

	file, err := os.Open(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
	} else {
		defer func() { _ = file.Close() }()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}

		var raw struct {
			APIURL         string `toml:"api_url"`
			TimeoutSeconds int    `toml:"timeout_seconds"`
			OutputDir      string `toml:"output_dir"`
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}

		if v := strings.TrimSpace(raw.APIURL); v != "" {
			cfg.APIURL = v
		}
		if raw.TimeoutSeconds > 0 {
			cfg.Timeout = time.Duration(raw.TimeoutSeconds) * time.Second
		}
		if v := strings.TrimSpace(raw.OutputDir); v != "" {
			cfg.OutputDir = v
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	cfg.OutputDir = mustExpand(cfg.OutputDir)
	return cfg, nil
}

// applyEnv overlays environment variables on top of file values. A .env in
// the working directory is loaded best-effort first.
func (c *Config) applyEnv() error {
	_ = godotenv.Load()

	if v := strings.TrimSpace(os.Getenv("VEIL_API_URL")); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv("VEIL_TIMEOUT_SECONDS")); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return fmt.Errorf("parse VEIL_TIMEOUT_SECONDS %q: want a positive integer", v)
		}
		c.Timeout = time.Duration(seconds) * time.Second
	}
	if v := strings.TrimSpace(os.Getenv("VEIL_OUTPUT_DIR")); v != "" {
		c.OutputDir = v
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
