package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/themestore/internal/config"
	"github.com/raphi011/themestore/internal/log"
	"github.com/raphi011/themestore/internal/storage"
	"github.com/raphi011/themestore/internal/theme"
)

func newPutCmd() *cobra.Command {
	var (
		format  string
		replace string
	)

	cmd := &cobra.Command{
		Use:     "put [FILE]",
		Short:   "Store a theme",
		GroupID: GroupThemes,
		Args:    cobra.MaximumNArgs(1),
		Long: `Store a theme read from FILE or from piped stdin.

The input format follows --format, or the file extension (.toml), and
defaults to JSON. Without --replace the theme must be new. With
--replace NAME the stored theme NAME is replaced; if the new theme has a
different name it is renamed.`,
		Example: `  themestore put test15.json                # Add a new theme
  cat t.toml | themestore put --format toml   # Read from stdin
  themestore put --replace test15 new.json  # Replace (and rename) test15`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, source, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			codec, err := inputCodec(format, source)
			if err != nil {
				return err
			}
			var doc theme.Theme
			if err := codec.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("decode %s as %s: %w", source, codec.Name(), err)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, dir, release, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer release()

			if replace != "" {
				err = store.Set(replace, &doc)
			} else {
				err = store.Insert(&doc)
			}
			if err != nil {
				return err
			}
			if err := store.Flush(); err != nil {
				return err
			}

			log.FromContext(cmd.Context()).Printf("Stored %q in %s\n", doc.Name, dir.FilePath(doc.Key()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format: json or toml (default from file extension)")
	cmd.Flags().StringVar(&replace, "replace", "", "Replace the stored theme NAME instead of adding")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{"json", "toml"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// readInput reads the theme from the file argument, or from stdin when
// there is no argument (or it is "-"). An interactive stdin is refused.
func readInput(cmd *cobra.Command, args []string) ([]byte, string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, "", err
		}
		return data, args[0], nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return nil, "", errors.New("no input: pass a FILE or pipe a theme on stdin")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, "stdin", nil
}

// inputCodec picks the codec from the flag, else the file extension.
func inputCodec(format, source string) (storage.Codec, error) {
	if format != "" {
		if err := config.ValidateFormat(format); err != nil {
			return nil, err
		}
		return storage.CodecByName(format)
	}
	if filepath.Ext(source) == storage.TOML.Ext() {
		return storage.TOML, nil
	}
	return storage.JSON, nil
}
