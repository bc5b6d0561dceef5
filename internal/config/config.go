package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FlushConfig holds flush scheduler settings
type FlushConfig struct {
	Interval           time.Duration `toml:"interval"`
	TolerateContention bool          `toml:"tolerate_contention"` // skip ticks that hit a busy cache instead of stopping
}

// CacheConfig holds cache store settings
type CacheConfig struct {
	RemovePolicy string `toml:"remove_policy"` // "strict" or "lenient"
}

// Config holds the themestore configuration
type Config struct {
	DataDir      string      `toml:"data_dir"`
	Format       string      `toml:"format"` // "json" or "toml"
	ListenAddr   string      `toml:"listen_addr"`
	ResourcesDir string      `toml:"resources_dir"` // optional: served under /res/
	Flush        FlushConfig `toml:"flush"`
	Cache        CacheConfig `toml:"cache"`
}

// Defaults for unset values
const (
	DefaultDataDir       = "~/.themestore/themes"
	DefaultFormat        = "json"
	DefaultListenAddr    = ":8000"
	DefaultFlushInterval = 5 * time.Second
	DefaultRemovePolicy  = "strict"
)

// Default returns the default configuration
func Default() Config {
	return Config{
		DataDir:    DefaultDataDir,
		Format:     DefaultFormat,
		ListenAddr: DefaultListenAddr,
		Flush: FlushConfig{
			Interval: DefaultFlushInterval,
		},
		Cache: CacheConfig{
			RemovePolicy: DefaultRemovePolicy,
		},
	}
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// DefaultPath returns the path to the config file:
// ~/.config/themestore/config.toml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "themestore", "config.toml"), nil
}

// Load reads config from path (DefaultPath() when empty), applies
// THEMESTORE_* environment overrides and validates the result.
// A missing file is not an error; defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Default(), err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults
	case err != nil:
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	default:
		meta, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Default(), fmt.Errorf("failed to parse config file: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return Default(), fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Default(), err
	}

	if err := cfg.Finalize(); err != nil {
		return Default(), err
	}

	return cfg, nil
}

// Finalize fills empty values with defaults, validates, and expands ~
// in directory settings. Call it again after changing fields (for
// example from command-line flags).
func (c *Config) Finalize() error {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.Flush.Interval == 0 {
		c.Flush.Interval = DefaultFlushInterval
	}
	if c.Cache.RemovePolicy == "" {
		c.Cache.RemovePolicy = DefaultRemovePolicy
	}

	if err := c.Validate(); err != nil {
		return err
	}

	dataDir, err := expandPath(c.DataDir)
	if err != nil {
		return fmt.Errorf("expand data_dir: %w", err)
	}
	c.DataDir = dataDir

	resourcesDir, err := expandPath(c.ResourcesDir)
	if err != nil {
		return fmt.Errorf("expand resources_dir: %w", err)
	}
	c.ResourcesDir = resourcesDir

	return nil
}

const defaultConfig = `# themestore configuration

# Directory holding one file per theme (<lowercased name>.json)
# Must be an absolute path or start with ~ (no relative paths like "." or "..")
data_dir = "~/.themestore/themes"

# File format for stored themes: "json" or "toml"
format = "json"

# Address the HTTP server listens on
listen_addr = ":8000"

# Optional directory served under /res/ (images, audio, scenes referenced
# by resource URIs). Leave empty to disable.
# resources_dir = "~/.themestore/res"

[flush]
# How often in-memory themes are written back to disk
interval = "5s"

# By default any flush failure stops the server. When true, a flush that
# finds the cache busy is skipped and retried on the next tick. Poisoned
# locks and write failures still stop the server.
tolerate_contention = false

[cache]
# What "remove" does for a theme that was never flushed:
#   "strict"  - fail; the theme stays until it has been written once
#   "lenient" - drop it from memory, delete the file if there is one
remove_policy = "strict"
`

// DefaultConfig returns the commented default config file content
func DefaultConfig() string {
	return defaultConfig
}

// Init creates a default config file at path (DefaultPath() when empty).
// If force is true, overwrites existing file.
// Returns the path to the created file.
func Init(path string, force bool) (string, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}

	return path, nil
}
