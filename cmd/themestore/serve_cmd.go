package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/raphi011/themestore/internal/cache"
	"github.com/raphi011/themestore/internal/config"
	"github.com/raphi011/themestore/internal/log"
	"github.com/raphi011/themestore/internal/scheduler"
	"github.com/raphi011/themestore/internal/server"
)

// Final flush on shutdown: in-flight requests may still hold the lock.
const (
	finalFlushAttempts = 20
	finalFlushDelay    = 50 * time.Millisecond
)

func newServeCmd() *cobra.Command {
	var (
		addr               string
		flushInterval      time.Duration
		resourcesDir       string
		tolerateContention bool
	)

	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve themes over HTTP",
		GroupID: GroupServer,
		Args:    cobra.NoArgs,
		Long: `Serve themes over HTTP with periodic write-back to disk.

Every file in the data directory is registered at startup and read from
disk on each request until it is replaced. New and changed themes live in
memory and are written back every flush interval. A failed flush stops
the server. On SIGINT/SIGTERM the server drains, then flushes once more.`,
		Example: `  themestore serve                        # Listen on :8000
  themestore serve --addr 127.0.0.1:9000  # Custom address
  themestore serve --flush-interval 30s   # Flush less often`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.ListenAddr = addr
			}
			if cmd.Flags().Changed("flush-interval") {
				cfg.Flush.Interval = flushInterval
			}
			if cmd.Flags().Changed("resources-dir") {
				cfg.ResourcesDir = resourcesDir
			}
			if cmd.Flags().Changed("tolerate-contention") {
				cfg.Flush.TolerateContention = tolerateContention
			}
			if err := cfg.Finalize(); err != nil {
				return err
			}

			ln, err := net.Listen("tcp", cfg.ListenAddr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", cfg.ListenAddr, err)
			}
			return runServe(cmd, cfg, ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultListenAddr, "Listen address")
	cmd.Flags().DurationVar(&flushInterval, "flush-interval", config.DefaultFlushInterval, "Write-back interval")
	cmd.Flags().StringVar(&resourcesDir, "resources-dir", "", "Directory served under /res/")
	cmd.Flags().BoolVar(&tolerateContention, "tolerate-contention", false, "Skip flushes that find the cache busy instead of stopping")

	return cmd
}

// runServe serves on ln until the command context is cancelled or the
// server or scheduler fails, then runs a final flush. It owns ln.
func runServe(cmd *cobra.Command, cfg *config.Config, ln net.Listener) error {
	ctx := cmd.Context()
	l := log.FromContext(ctx)

	store, dir, release, err := openStore(cmd, cfg)
	if err != nil {
		ln.Close()
		return err
	}
	defer release()

	sched, err := scheduler.New(store, cfg.Flush.Interval,
		scheduler.TolerateContention(cfg.Flush.TolerateContention),
		scheduler.WithLogger(l),
	)
	if err != nil {
		ln.Close()
		return err
	}
	srv := server.New(store,
		server.WithLogger(l),
		server.WithResources(cfg.ResourcesDir),
	)

	l.Printf("serving themes from %s\n", dir.Path())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx, ln)
	})
	g.Go(func() error {
		return sched.Run(gctx)
	})
	runErr := g.Wait()

	if store.Poisoned() {
		return errors.Join(runErr, cache.ErrLockPoisoned)
	}
	if err := scheduler.FlushWithRetry(context.WithoutCancel(ctx), store, finalFlushAttempts, finalFlushDelay); err != nil {
		return errors.Join(runErr, fmt.Errorf("final flush: %w", err))
	}
	l.Debug("final flush done", "dir", dir.Path())
	return runErr
}
