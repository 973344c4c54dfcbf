package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tmdbhelper/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Browse recorded import runs",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryPruneCommand(ctx))
	return historyCmd
}

func withHistory(ctx *commandContext, fn func(*history.Store) error) error {
	store, err := ctx.openHistory()
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("import history is disabled (set history.enabled = true)")
	}
	defer store.Close()
	return fn(store)
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var (
		limit          int
		csvPath        string
		classification string
		failedOnly     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent import runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := history.ListOptions{
				Limit:          limit,
				Classification: strings.TrimSpace(classification),
				FailedOnly:     failedOnly,
			}
			if strings.TrimSpace(csvPath) != "" {
				abs, err := resolveCSVPath(csvPath)
				if err != nil {
					return err
				}
				opts.CSVPath = abs
			}
			return withHistory(ctx, func(store *history.Store) error {
				runs, err := store.List(cmd.Context(), opts)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					if runs == nil {
						runs = []history.Run{}
					}
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No import runs recorded")
					return nil
				}
				fmt.Fprintln(out, renderHistoryTable(runs))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "Maximum number of runs to show")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Only show runs for this CSV file")
	cmd.Flags().StringVar(&classification, "classification", "", "Only show runs with this classification")
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Only show failed runs")
	return cmd
}

func renderHistoryTable(runs []history.Run) string {
	columns := []tableColumn{
		{Header: "ID"},
		{Header: "Started"},
		{Header: "Series", Align: alignRight},
		{Header: "Season", Align: alignRight},
		{Header: "Result"},
		{Header: "Imported", MaxWidth: 24},
		{Header: "Duration", Align: alignRight},
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.ExternalID,
			strconv.Itoa(run.Season),
			run.Classification,
			formatEpisodes(run.ImportedEpisodes),
			run.Duration().Round(time.Second).String(),
		})
	}
	return renderTable("Import history", columns, rows)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one import run; a unique ID prefix is enough",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, func(store *history.Store) error {
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, run)
				}
				out := cmd.OutOrStdout()
				writeHistoryRun(out, *run, shouldColorize(out))
				return nil
			})
		},
	}
}

func writeHistoryRun(out io.Writer, run history.Run, colorize bool) {
	for _, line := range renderSectionHeader("Run "+run.ID, colorize) {
		fmt.Fprintln(out, line)
	}
	status := statusError
	if run.Success {
		status = statusOK
	}
	fmt.Fprintln(out, renderStatusLine("Result", status, run.Classification+" ("+run.State+")", colorize))
	fmt.Fprintln(out, renderStatusLine("CSV", statusInfo, run.CSVPath, colorize))
	fmt.Fprintln(out, renderStatusLine("Target", statusInfo, run.Target, colorize))
	fmt.Fprintln(out, renderStatusLine("Started", statusInfo, run.StartedAt.Local().Format(time.RFC3339), colorize))
	fmt.Fprintln(out, renderStatusLine("Duration", statusInfo, run.Duration().Round(10*time.Millisecond).String(), colorize))
	fmt.Fprintln(out, renderStatusLine("Imported", statusInfo, formatEpisodes(run.ImportedEpisodes), colorize))
	fmt.Fprintln(out, renderStatusLine("Deleted", statusInfo, formatEpisodes(run.DeletedEpisodes), colorize))
	fmt.Fprintln(out, renderStatusLine("Rows", statusInfo,
		fmt.Sprintf("%d retained, %d removed, %d dropped", run.RowsRetained, run.RowsRemoved, run.RowsDropped), colorize))
	if !run.Success {
		exit := fmt.Sprintf("exit code %d", run.ExitCode)
		if run.Signal != "" {
			exit = "signal " + run.Signal
		}
		fmt.Fprintln(out, renderStatusLine("Exit", statusError, exit, colorize))
		if run.ErrorMessage != "" {
			fmt.Fprintln(out, renderStatusLine("Error", statusError, run.ErrorMessage, colorize))
		}
	}
	if excerpt := strings.TrimSpace(run.OutputExcerpt); excerpt != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Output (tail):")
		fmt.Fprintln(out, excerpt)
	}
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete runs older than the given number of days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive, got %d", days)
			}
			cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
			return withHistory(ctx, func(store *history.Store) error {
				removed, err := store.Prune(cmd.Context(), cutoff)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"removed": removed, "cutoff": cutoff.UTC()})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs older than %d days\n", removed, days)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 90, "Age threshold in days")
	return cmd
}
