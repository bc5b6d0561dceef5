package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/themestore/internal/log"
)

func newFlushCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "flush",
		Short:   "Run one reconciliation pass over the data directory",
		GroupID: GroupThemes,
		Args:    cobra.NoArgs,
		Long: `Run one reconciliation pass over the data directory.

Offline, every file is a placeholder, so this only verifies the
directory can be enumerated and locked and removes nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, dir, release, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer release()

			if err := store.Flush(); err != nil {
				return err
			}
			entries, err := store.Entries()
			if err != nil {
				return err
			}
			log.FromContext(cmd.Context()).Printf("Flushed %s (%d themes)\n", dir.Path(), len(entries))
			return nil
		},
	}
}
