package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tmdbhelper/internal/importjob"
	"tmdbhelper/internal/language"
	"tmdbhelper/internal/outcome"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		flags    transformFlags
		id       string
		season   int
		lang     string
		response string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "run <csv>",
		Short: "Prepare an episode CSV and import it into a catalog season",
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
			transform, err := flags.request(cmd, cfg)
			if err != nil {
				return err
			}
			conflict, err := parseConflictResponse(response)
			if err != nil {
				return err
			}

			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}
			runner, err := ctx.newRunner(store)
			if err != nil {
				return err
			}

			res, err := runner.Run(cmd.Context(), importjob.Request{
				CSVPath:   path,
				Transform: transform,
				Target: importjob.Target{
					ExternalID: id,
					Season:     season,
					Language:   lang,
				},
				ConflictResponse: conflict,
				DryRun:           dryRun,
			})
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				if err := writeJSON(cmd, res); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				writeRunResult(out, res, shouldColorize(out))
			}
			if !res.Succeeded() {
				return errReported
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&id, "id", "", "Catalog series identifier")
	cmd.Flags().IntVarP(&season, "season", "s", 1, "Season number")
	cmd.Flags().StringVar(&lang, "language", "", "Catalog language (defaults to import_tool.language)")
	cmd.Flags().StringVar(&response, "response", "", "Character sent to overwrite prompts (defaults to import_tool.conflict_response)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Rewrite the CSV and print the target without running the import tool")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func parseConflictResponse(value string) (byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if len(value) != 1 || value[0] < 0x21 || value[0] > 0x7e {
		return 0, fmt.Errorf("--response must be a single printable ASCII character, got %q", value)
	}
	return value[0], nil
}

func writeRunResult(out io.Writer, res importjob.Result, colorize bool) {
	writePreparation(out, res.Prepared, colorize)
	fmt.Fprintln(out)

	for _, line := range renderSectionHeader("Import", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderStatusLine("Job", statusInfo, res.JobID, colorize))
	fmt.Fprintln(out, renderStatusLine("Target", statusInfo, res.Target, colorize))
	fmt.Fprintln(out, renderStatusLine("Language", statusInfo, fmt.Sprintf("%s (%s)", res.Language, language.DisplayName(res.Language)), colorize))
	if res.DryRun {
		fmt.Fprintln(out, renderStatusLine("Result", statusInfo, "dry run, import tool not started", colorize))
		return
	}
	oc := res.Outcome
	if oc == nil {
		return
	}

	fmt.Fprintln(out, renderStatusLine("Result", classificationStatus(oc.Classification), string(oc.Classification), colorize))
	fmt.Fprintln(out, renderStatusLine("Imported", statusInfo, formatEpisodes(oc.ImportedEpisodes), colorize))
	if oc.PromptsAnswered > 0 {
		fmt.Fprintln(out, renderStatusLine("Prompts", statusInfo, fmt.Sprintf("%d answered", oc.PromptsAnswered), colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Duration", statusInfo, res.FinishedAt.Sub(res.StartedAt).Round(10 * time.Millisecond).String(), colorize))
	if oc.Success {
		return
	}
	exit := fmt.Sprintf("exit code %d", oc.ExitCode)
	if oc.Signal != "" {
		exit = "signal " + oc.Signal
	}
	fmt.Fprintln(out, renderStatusLine("Exit", statusError, exit, colorize))
	if oc.Classification == outcome.UnknownFailure || oc.Classification == outcome.SpawnFailure {
		if oc.Error != "" {
			fmt.Fprintln(out, renderStatusLine("Error", statusError, oc.Error, colorize))
		}
	}
	if excerpt := strings.TrimSpace(oc.RawOutputExcerpt); excerpt != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Output (tail):")
		fmt.Fprintln(out, excerpt)
	}
}
