package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/themestore/internal/cache"
	"github.com/raphi011/themestore/internal/config"
	"github.com/raphi011/themestore/internal/log"
	"github.com/raphi011/themestore/internal/storage"
)

// loadConfig loads the config file named by --config and applies
// --data-dir on top. The result is stored in the command context; a
// config already stored there is returned as is.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg := config.FromContext(cmd.Context()); cfg != nil {
		return cfg, nil
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
		cfg.DataDir = dataDir
		if err := cfg.Finalize(); err != nil {
			return nil, err
		}
	}
	cmd.SetContext(config.WithConfig(cmd.Context(), &cfg))
	return &cfg, nil
}

// openDir opens and locks the configured data directory. The returned
// release func drops the lock.
func openDir(cfg *config.Config) (*storage.Dir, func(), error) {
	codec, err := storage.CodecByName(cfg.Format)
	if err != nil {
		return nil, nil, err
	}
	dir, err := storage.Open(cfg.DataDir, codec)
	if err != nil {
		return nil, nil, err
	}
	lock, err := storage.Lock(dir.Path())
	if err != nil {
		if errors.Is(err, storage.ErrLocked) {
			return nil, nil, fmt.Errorf("data dir %s is in use by another themestore process", dir.Path())
		}
		return nil, nil, err
	}
	return dir, func() { _ = lock.Unlock() }, nil
}

// openStore opens the data directory and builds a cache store over it.
// Every file in the directory becomes a placeholder.
func openStore(cmd *cobra.Command, cfg *config.Config) (*cache.Store, *storage.Dir, func(), error) {
	policy, err := cache.ParseRemovePolicy(cfg.Cache.RemovePolicy)
	if err != nil {
		return nil, nil, nil, err
	}

	dir, release, err := openDir(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	l := log.FromContext(cmd.Context())
	store, err := cache.New(dir, cache.WithRemovePolicy(policy), cache.WithLogger(l))
	if err != nil {
		release()
		return nil, nil, nil, fmt.Errorf("load themes from %s: %w", dir.Path(), err)
	}
	l.Debug("opened store", "dir", dir.Path(), "format", dir.Codec().Name())
	return store, dir, release, nil
}
