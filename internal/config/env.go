package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envOverrides mirrors the THEMESTORE_* variables. Pointer fields stay
// nil when the variable is unset so only present values override.
type envOverrides struct {
	DataDir            *string        `env:"THEMESTORE_DATA_DIR"`
	Format             *string        `env:"THEMESTORE_FORMAT"`
	ListenAddr         *string        `env:"THEMESTORE_LISTEN_ADDR"`
	ResourcesDir       *string        `env:"THEMESTORE_RESOURCES_DIR"`
	FlushInterval      *time.Duration `env:"THEMESTORE_FLUSH_INTERVAL"`
	TolerateContention *bool          `env:"THEMESTORE_FLUSH_TOLERATE_CONTENTION"`
	RemovePolicy       *string        `env:"THEMESTORE_REMOVE_POLICY"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// applyEnvOverrides applies THEMESTORE_* environment variables on top of cfg.
// Empty string values are ignored.
func applyEnvOverrides(cfg *Config) error {
	var o envOverrides
	if err := ParseEnv(&o); err != nil {
		return err
	}

	setString := func(dst *string, v *string) {
		if v != nil && *v != "" {
			*dst = *v
		}
	}
	setString(&cfg.DataDir, o.DataDir)
	setString(&cfg.Format, o.Format)
	setString(&cfg.ListenAddr, o.ListenAddr)
	setString(&cfg.ResourcesDir, o.ResourcesDir)
	setString(&cfg.Cache.RemovePolicy, o.RemovePolicy)

	if o.FlushInterval != nil {
		cfg.Flush.Interval = *o.FlushInterval
	}
	if o.TolerateContention != nil {
		cfg.Flush.TolerateContention = *o.TolerateContention
	}
	return nil
}
