// Package config locates and parses veil's configuration.
//
// Configuration is layered: built-in defaults, then the TOML file at
// ~/.config/veil/config.toml (or an explicit path), then environment
// variables (VEIL_API_URL, VEIL_TIMEOUT_SECONDS, VEIL_OUTPUT_DIR). A .env
// file in the working directory is loaded best-effort before the
// environment is read, so deployments can keep the daemon address and
// request timeout outside the binary entirely.
package config
