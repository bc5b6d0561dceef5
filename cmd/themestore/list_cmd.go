package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/themestore/internal/cache"
	"github.com/raphi011/themestore/internal/output"
)

func newListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List stored themes",
		Aliases: []string{"ls"},
		GroupID: GroupThemes,
		Args:    cobra.NoArgs,
		Example: `  themestore list          # Table of themes
  themestore list --json   # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, _, release, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer release()

			entries, err := store.Entries()
			if err != nil {
				return err
			}

			out := output.FromContext(cmd.Context())
			if jsonOutput {
				return out.JSON(entries)
			}
			if len(entries) == 0 {
				out.Println("No themes stored")
				return nil
			}
			return out.Table([]string{"NAME", "STATE"}, entryRows(entries))
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func entryRows(entries []cache.EntryInfo) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		state := e.State.String()
		if e.State == cache.Placeholder {
			state = output.MutedStyle.Render(state)
		}
		rows = append(rows, []string{e.Key, state})
	}
	return rows
}
