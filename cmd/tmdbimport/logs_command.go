package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"tmdbhelper/internal/logging"
	"tmdbhelper/internal/logs"
)

const logFollowWait = 5 * time.Second

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
		job    string
		raw    bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the JSON log file, optionally for one job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.LogDir, logging.LogFileName)
			out := cmd.OutOrStdout()
			match := logs.MatchJob(job)

			result, err := logs.Tail(cmd.Context(), path, logs.TailOptions{Offset: -1, Limit: lines, Match: match})
			if err != nil {
				return err
			}
			printLogLines(out, result.Lines, raw || ctx.jsonOutput())
			if !follow {
				return nil
			}

			offset := result.Offset
			for {
				result, err = logs.Tail(cmd.Context(), path, logs.TailOptions{
					Offset: offset,
					Follow: true,
					Wait:   logFollowWait,
					Match:  match,
				})
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return err
				}
				printLogLines(out, result.Lines, raw || ctx.jsonOutput())
				offset = result.Offset
			}
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().StringVar(&job, "job", "", "Only show lines for this job ID or prefix")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the JSON records unchanged")
	return cmd
}

func printLogLines(out io.Writer, lines []string, raw bool) {
	for _, line := range lines {
		if raw {
			fmt.Fprintln(out, line)
			continue
		}
		if entry, ok := logs.ParseEntry(line); ok {
			fmt.Fprintln(out, entry.Format())
			continue
		}
		fmt.Fprintln(out, line)
	}
}
