package main

import (
	"fmt"
	"time"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"bookbinder/internal/conversion"
	"bookbinder/internal/history"
	"bookbinder/internal/textutil"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conversions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ok, err := openHistory(ctx, cmd)
			if err != nil || !ok {
				return err
			}
			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				if entries == nil {
					entries = []history.Entry{}
				}
				return writeJSON(out, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No conversions recorded yet")
				return nil
			}
			fmt.Fprintln(out, renderHistoryTable(entries))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print entries as JSON")
	cmd.AddCommand(newHistoryPruneCommand(ctx))
	return cmd
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete history entries older than a duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			store, ok, err := openHistory(ctx, cmd)
			if err != nil || !ok {
				return err
			}
			removed, err := store.Prune(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entr%s\n", removed, textutil.Ternary(removed == 1, "y", "ies"))
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 90*24*time.Hour, "Age threshold for deletion")
	return cmd
}

// openHistory returns the store, or ok=false after telling the user history
// is disabled.
func openHistory(ctx *commandContext, cmd *cobra.Command) (*history.Store, bool, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, false, err
	}
	if !cfg.History.Enabled {
		fmt.Fprintln(cmd.OutOrStdout(), "History is disabled ([history] enabled = false)")
		return nil, false, nil
	}
	injector, err := ctx.container(cmd)
	if err != nil {
		return nil, false, err
	}
	handle, err := do.Invoke[*historyHandle](injector)
	if err != nil {
		return nil, false, err
	}
	return handle.Store, true, nil
}

func renderHistoryTable(entries []history.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		r := e.Result
		detail := textutil.Ternary(r.Success, r.OutputPath, r.Error)
		rows = append(rows, []string{
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Title,
			textutil.Ternary(r.Success, "ok", "failed"),
			textutil.Ternary(r.Success, conversion.FormatDuration(r.DurationSeconds), "-"),
			textutil.Ternary(r.Success, conversion.FormatFileSize(r.SizeBytes), "-"),
			detail,
		})
	}
	return tableSpec{
		headers:   []string{"When", "Title", "Status", "Duration", "Size", "Output"},
		rows:      rows,
		aligns:    []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
		maxWidths: []int{0, 40, 0, 0, 0, 80},
	}.render()
}
