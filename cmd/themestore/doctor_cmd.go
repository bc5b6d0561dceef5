package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/themestore/internal/doctor"
)

func newDoctorCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Diagnose and repair the data directory",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Diagnose and repair the data directory.

Checks:
- Every theme file decodes and validates
- Every file is named after the theme inside it
- No temp files are left from interrupted writes

Examples:
  themestore doctor          # Check for issues
  themestore doctor --fix    # Auto-fix recoverable issues`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			dir, release, err := openDir(cfg)
			if err != nil {
				return err
			}
			defer release()

			stats, err := doctor.Run(cmd.Context(), dir, fix)
			if err != nil {
				return err
			}
			remaining := stats.Total()
			if fix {
				remaining = stats.Failed
			}
			if remaining > 0 {
				return fmt.Errorf("%d issues found", remaining)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Auto-fix recoverable issues")

	return cmd
}
