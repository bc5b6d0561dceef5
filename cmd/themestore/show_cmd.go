package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/raphi011/themestore/internal/cache"
	"github.com/raphi011/themestore/internal/log"
	"github.com/raphi011/themestore/internal/output"
	"github.com/raphi011/themestore/internal/storage"
	"github.com/raphi011/themestore/internal/theme"
)

// maxSuggestions caps the "did you mean" list for unknown names.
const maxSuggestions = 3

func newShowCmd() *cobra.Command {
	var (
		format          string
		copyToClipboard bool
	)

	cmd := &cobra.Command{
		Use:     "show NAME",
		Short:   "Print a theme",
		GroupID: GroupThemes,
		Args:    cobra.ExactArgs(1),
		Example: `  themestore show Test15                # Print as JSON
  themestore show test15 --format toml  # Print as TOML
  themestore show test15 --copy         # Also copy to clipboard`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			codec, err := storage.CodecByName(format)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, _, release, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer release()

			name := args[0]
			doc, err := store.Get(name)
			if err != nil {
				if errors.Is(err, cache.ErrNotFound) {
					return notFoundError(store, name, err)
				}
				return err
			}

			data, err := codec.Marshal(doc)
			if err != nil {
				return err
			}

			if copyToClipboard {
				if err := clipboard.WriteAll(string(data)); err != nil {
					log.FromContext(ctx).Printf("Warning: failed to copy to clipboard: %v\n", err)
				}
			}

			output.FromContext(ctx).Print(string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or toml")
	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "Copy the theme to the clipboard")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{"json", "toml"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// notFoundError extends a lookup failure with close matches among the
// stored keys.
func notFoundError(store *cache.Store, name string, err error) error {
	entries, listErr := store.Entries()
	if listErr != nil {
		return err
	}
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	suggestions := suggestNames(name, keys)
	if len(suggestions) == 0 {
		return err
	}
	return fmt.Errorf("%w\n\nDid you mean one of these?\n  %s", err, strings.Join(suggestions, "\n  "))
}

// suggestNames returns up to maxSuggestions keys fuzzily matching name,
// best match first.
func suggestNames(name string, keys []string) []string {
	matches := fuzzy.Find(theme.Key(name), keys)
	var out []string
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
