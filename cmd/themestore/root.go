package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/themestore/internal/log"
	"github.com/raphi011/themestore/internal/output"
)

// Command group IDs for organizing help output
const (
	GroupServer = "server"
	GroupThemes = "themes"
	GroupConfig = "config"
)

// newRootCmd builds the command tree. Each call returns an independent
// tree so tests can run commands side by side.
func newRootCmd() *cobra.Command {
	var (
		verbose bool
		quiet   bool
	)

	rootCmd := &cobra.Command{
		Use:   "themestore",
		Short: "Quiz theme store with a write-back cache",
		Long: `themestore serves quiz themes over HTTP from an in-memory cache that is
periodically written back to a directory with one file per theme.

The other commands work on the same directory offline. They take the
directory lock, so they cannot run while a server owns the directory.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2, // Enable typo suggestions
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Logger and printer follow the parsed flags and the
			// command's writers.
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = log.WithLogger(ctx, log.New(cmd.ErrOrStderr(), verbose, quiet))
			ctx = output.WithPrinter(ctx, cmd.OutOrStdout())
			cmd.SetContext(ctx)
			return nil
		},
		// Run is not set - shows help when no subcommand provided
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests, flushes and cache reads")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/themestore/config.toml)")
	rootCmd.PersistentFlags().String("data-dir", "", "Theme directory (overrides config)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Add command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupServer, Title: "Server Commands:"},
		&cobra.Group{ID: GroupThemes, Title: "Theme Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Server commands
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newBenchCmd())

	// Theme commands
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newPutCmd())
	rootCmd.AddCommand(newRmCmd())
	rootCmd.AddCommand(newFlushCmd())

	// Config commands
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'themestore -h' for help")
		cancel()
		os.Exit(1)
	}
}
