package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tmdbhelper/internal/config"
	"tmdbhelper/internal/episodes"
)

// transformFlags are the CSV edit flags shared by run and transform.
type transformFlags struct {
	deleteEpisodes []int
	platformAdjust bool
	titleMarker    string
	blank          []string
	remove         []string
}

func (f *transformFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntSliceVarP(&f.deleteEpisodes, "delete", "d", nil, "Episode numbers to delete from the CSV (comma separated)")
	flags.BoolVar(&f.platformAdjust, "platform-adjust", false, "Episode numbers come from a platform that numbers one higher than the catalog")
	flags.StringVar(&f.titleMarker, "title-marker", "", "Truncate episode names at the first occurrence of this marker")
	flags.StringSliceVar(&f.blank, "blank", nil, "Columns to blank out (name, air_date, runtime, overview, backdrop)")
	flags.StringSliceVar(&f.remove, "remove", nil, "Columns to remove entirely")
}

// request merges flags over the [transform] config defaults. A flag that was
// set on the command line replaces the configured value.
func (f *transformFlags) request(cmd *cobra.Command, cfg *config.Config) (episodes.Request, error) {
	req := episodes.Request{
		Episodes:           append([]int(nil), f.deleteEpisodes...),
		PlatformAdjustment: cfg.Transform.PlatformAdjustment,
	}
	flags := cmd.Flags()
	if flags.Changed("platform-adjust") {
		req.PlatformAdjustment = f.platformAdjust
	}

	marker := cfg.Transform.TitleMarker
	if flags.Changed("title-marker") {
		marker = f.titleMarker
	}
	if marker != "" {
		req.TitleCleanup = &episodes.TitleCleanup{Column: episodes.ColumnName, Marker: marker}
	}

	blank := cfg.Transform.BlankColumns
	if flags.Changed("blank") {
		blank = f.blank
	}
	remove := cfg.Transform.RemoveColumns
	if flags.Changed("remove") {
		remove = f.remove
	}

	var err error
	if req.Blank, err = parseColumnKinds(blank); err != nil {
		return episodes.Request{}, err
	}
	if req.Remove, err = parseColumnKinds(remove); err != nil {
		return episodes.Request{}, err
	}
	return req, nil
}

func parseColumnKinds(values []string) ([]episodes.ColumnKind, error) {
	var kinds []episodes.ColumnKind
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		kind, ok := episodes.ParseColumnKind(value)
		if !ok {
			return nil, fmt.Errorf("unknown column %q (known: %s)", value, knownColumnList())
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func knownColumnList() string {
	known := episodes.KnownColumnKinds()
	names := make([]string, len(known))
	for i, kind := range known {
		names[i] = string(kind)
	}
	return strings.Join(names, ", ")
}
