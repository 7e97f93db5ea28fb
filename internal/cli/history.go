package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04:05"

// NewLoginsCmd creates the 'logins' command.
func NewLoginsCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "logins",
		Short: "Print the login history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDeps(cmd, load, func(ctx context.Context, d *Deps) error {
				logs, err := d.History.ListLoginLogs(ctx)
				if err != nil {
					return err
				}
				if len(logs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No logs.")
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TIME\tEMAIL\tROLE")
				for _, l := range logs {
					fmt.Fprintf(w, "%s\t%s\t%s\n", stamp(l.Time), l.Email, l.Role)
				}
				return w.Flush()
			})
		},
	}
}

// NewHistoryCmd creates the 'history' command.
func NewHistoryCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print the crop query history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDeps(cmd, load, func(ctx context.Context, d *Deps) error {
				queries, err := d.History.ListCropQueries(ctx)
				if err != nil {
					return err
				}
				if len(queries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No history.")
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TIME\tEMAIL\tROLE\tCROP\tRESULT")
				for _, q := range queries {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", stamp(q.Time), q.Email, q.Role, q.Crop, q.Result)
				}
				return w.Flush()
			})
		},
	}
}

func stamp(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
