package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/raphi011/themestore/internal/cache"
	"github.com/raphi011/themestore/internal/log"
)

func newRmCmd() *cobra.Command {
	var lenient bool

	cmd := &cobra.Command{
		Use:     "rm NAME",
		Short:   "Remove a theme",
		Aliases: []string{"remove"},
		GroupID: GroupThemes,
		Args:    cobra.ExactArgs(1),
		Example: `  themestore rm test15            # Remove from disk
  themestore rm test15 --lenient  # Also succeed if the file is already gone`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if lenient {
				cfg.Cache.RemovePolicy = cache.RemoveLenient.String()
			}
			store, _, release, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer release()

			if err := store.Remove(args[0]); err != nil {
				if errors.Is(err, cache.ErrEntryDoesNotExist) {
					return notFoundError(store, args[0], err)
				}
				return err
			}
			if err := store.Flush(); err != nil {
				return err
			}
			log.FromContext(cmd.Context()).Printf("Removed %q\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&lenient, "lenient", false, "Use the lenient remove policy")

	return cmd
}
