package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"launch_notifier/internal/config"
	"launch_notifier/internal/domain"
	"launch_notifier/internal/source/ll2"
	"launch_notifier/internal/storage/postgres"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent check cycles recorded in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cfg.Database.Enabled() {
				return fmt.Errorf("%w: history requires a database", domain.ErrConfig)
			}
			if limit <= 0 {
				return fmt.Errorf("%w: limit must be positive", domain.ErrInvalidArgument)
			}

			ctx := cmd.Context()
			db, err := postgres.Open(ctx, cfg.Database.DSN())
			if err != nil {
				return err
			}
			defer db.Close()

			store := postgres.NewPollStateStore(db)
			state, err := store.Get(ctx, ll2.SourceID)
			if err != nil {
				return err
			}
			records, err := store.Recent(ctx, ll2.SourceID, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "checks: %d  notified: %d\n\n", state.TotalChecks, state.TotalNotified)
			return printHistory(tabwriter.NewWriter(out, 0, 4, 2, ' ', 0), records)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of cycles to show")
	return cmd
}

func printHistory(w *tabwriter.Writer, records []domain.PollRecord) error {
	fmt.Fprintln(w, "CHECKED AT\tFETCHED\tCHANGED\tNOTIFIED\tERRORS\tDURATION\tCYCLE")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%d\t%d\t%t\t%d\t%s\t%s\n",
			r.CheckedAt.Local().Format(time.DateTime),
			r.Fetched, r.Changed, r.Notified, r.Errors,
			r.Duration.Round(time.Millisecond), r.CycleID,
		)
	}
	return w.Flush()
}
