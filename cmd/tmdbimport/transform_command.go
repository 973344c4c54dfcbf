package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tmdbhelper/internal/episodes"
	"tmdbhelper/internal/importjob"
)

func newTransformCommand(ctx *commandContext) *cobra.Command {
	var flags transformFlags

	cmd := &cobra.Command{
		Use:   "transform <csv>",
		Short: "Repair and edit an episode CSV without running the import tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := resolveCSVPath(args[0])
			if err != nil {
				return err
			}
			req, err := flags.request(cmd, cfg)
			if err != nil {
				return err
			}
			runner, err := ctx.newRunner(nil)
			if err != nil {
				return err
			}

			prep, err := runner.Prepare(cmd.Context(), path, req)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, prep)
			}
			out := cmd.OutOrStdout()
			writePreparation(out, prep, shouldColorize(out))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func writePreparation(out io.Writer, prep importjob.Preparation, colorize bool) {
	for _, line := range renderSectionHeader("CSV", colorize) {
		fmt.Fprintln(out, line)
	}

	size := ""
	if info, err := os.Stat(prep.CSVPath); err == nil {
		size = " (" + humanize.IBytes(uint64(info.Size())) + ")"
	}
	fmt.Fprintln(out, renderStatusLine("File", statusOK, prep.CSVPath+size, colorize))
	if prep.BackupPath != "" {
		fmt.Fprintln(out, renderStatusLine("Backup", statusInfo, prep.BackupPath, colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Rows", statusInfo,
		fmt.Sprintf("%d retained, %d removed, %d unmodified", prep.RowsRetained, prep.RowsRemoved, prep.RowsUnmodified), colorize))

	if prep.Parse.Lossy() {
		fmt.Fprintln(out, renderStatusLine("Dropped", statusWarn,
			fmt.Sprintf("%d rows (%d lines) could not be repaired", prep.Parse.DroppedBuffers, prep.Parse.DroppedLines), colorize))
	}
	if len(prep.EffectiveDeletions) > 0 {
		fmt.Fprintln(out, renderStatusLine("Deleted", statusInfo, formatEpisodes(prep.DeletedEpisodes), colorize))
	}
	if prep.TitlesTrimmed > 0 {
		fmt.Fprintln(out, renderStatusLine("Titles", statusInfo, fmt.Sprintf("%d trimmed", prep.TitlesTrimmed), colorize))
	}
	if len(prep.Blanked) > 0 {
		fmt.Fprintln(out, renderStatusLine("Blanked", statusInfo, joinKinds(prep.Blanked), colorize))
	}
	if len(prep.Removed) > 0 {
		fmt.Fprintln(out, renderStatusLine("Removed", statusInfo, joinKinds(prep.Removed), colorize))
	}
	if len(prep.Unresolved) > 0 {
		fmt.Fprintln(out, renderStatusLine("Columns", statusWarn, "not found: "+joinKinds(prep.Unresolved), colorize))
	}
}

func joinKinds(kinds []episodes.ColumnKind) string {
	names := make([]string, len(kinds))
	for i, kind := range kinds {
		names[i] = string(kind)
	}
	return strings.Join(names, ", ")
}
