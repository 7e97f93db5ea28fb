package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"agrisense/internal/db"
)

// NewMigrateCmd creates the 'migrate' command.
func NewMigrateCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the login_logs and crop_history tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDeps(cmd, load, func(_ context.Context, d *Deps) error {
				if err := db.Migrate(d.DB); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Tables migrated.")
				return nil
			})
		},
	}
}
