// Package config handles loading and validation of themestore configuration.
//
// Configuration is read from ~/.config/themestore/config.toml with
// THEMESTORE_* environment variable overrides.
//
// # Configuration Sources (highest priority first)
//
//   - Command-line flags (applied by the caller, then Finalize)
//   - THEMESTORE_* env vars
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - data_dir: Directory with one file per theme (must be absolute or ~/...)
//   - format: "json" or "toml" theme files (default: "json")
//   - listen_addr: HTTP listen address (default: ":8000")
//   - flush.interval: Write-back period (default: "5s")
//   - cache.remove_policy: "strict" or "lenient" removal of unflushed themes
//
// Unknown keys in the file are rejected so typos do not silently fall
// back to defaults.
package config
