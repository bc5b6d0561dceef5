package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/themestore/internal/config"
	"github.com/raphi011/themestore/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage themestore configuration.

Config file: ~/.config/themestore/config.toml
Environment: THEMESTORE_* variables override file values.`,
		Example: `  themestore config init   # Create default config
  themestore config show   # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Example: `  themestore config init      # Create config
  themestore config init -f   # Overwrite existing config
  themestore config init -s   # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			if stdout {
				out.Print(config.DefaultConfig())
				return nil
			}

			path, _ := cmd.Flags().GetString("config")
			created, err := config.Init(path, force)
			if err != nil {
				return fmt.Errorf("%w (use -f to overwrite)", err)
			}
			out.Printf("Created config file: %s\n", created)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Example: `  themestore config show          # Show config
  themestore config show --json   # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := output.FromContext(cmd.Context())
			if jsonOutput {
				return out.JSON(configView{
					DataDir:            cfg.DataDir,
					Format:             cfg.Format,
					ListenAddr:         cfg.ListenAddr,
					ResourcesDir:       cfg.ResourcesDir,
					FlushInterval:      cfg.Flush.Interval.String(),
					TolerateContention: cfg.Flush.TolerateContention,
					RemovePolicy:       cfg.Cache.RemovePolicy,
				})
			}

			rows := [][]string{
				{"data_dir", cfg.DataDir},
				{"format", cfg.Format},
				{"listen_addr", cfg.ListenAddr},
				{"resources_dir", cfg.ResourcesDir},
				{"flush.interval", cfg.Flush.Interval.String()},
				{"flush.tolerate_contention", fmt.Sprint(cfg.Flush.TolerateContention)},
				{"cache.remove_policy", cfg.Cache.RemovePolicy},
			}
			return out.Table([]string{"KEY", "VALUE"}, rows)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// configView is the JSON shape of config show.
type configView struct {
	DataDir            string `json:"data_dir"`
	Format             string `json:"format"`
	ListenAddr         string `json:"listen_addr"`
	ResourcesDir       string `json:"resources_dir,omitempty"`
	FlushInterval      string `json:"flush_interval"`
	TolerateContention bool   `json:"tolerate_contention"`
	RemovePolicy       string `json:"remove_policy"`
}
