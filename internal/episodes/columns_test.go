package episodes_test

import (
	"testing"

	"tmdbhelper/internal/episodes"
)

func TestResolveColumn(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		kind    episodes.ColumnKind
		want    int
	}{
		{"exact", []string{"episode_number", "name"}, episodes.ColumnEpisodeNumber, 0},
		{"case insensitive", []string{"Name", "Episode_Number"}, episodes.ColumnEpisodeNumber, 1},
		{"exact beats substring", []string{"episode_name", "episode"}, episodes.ColumnEpisodeNumber, 1},
		{"substring", []string{"id", "Episode No."}, episodes.ColumnEpisodeNumber, 1},
		{"short candidate exact only", []string{"step"}, episodes.ColumnEpisodeNumber, -1},
		{"chinese header", []string{"集数", "标题"}, episodes.ColumnName, 1},
		{"full width header", []string{"ＲＵＮＴＩＭＥ"}, episodes.ColumnRuntime, 0},
		{"substring air date", []string{"first_air_date_utc"}, episodes.ColumnAirDate, 0},
		{"missing", []string{"foo", "bar"}, episodes.ColumnBackdrop, -1},
		{"unknown kind", []string{"foo"}, episodes.ColumnKind("bogus"), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := episodes.ResolveColumn(tt.headers, tt.kind); got != tt.want {
				t.Fatalf("ResolveColumn(%v, %s) = %d, want %d", tt.headers, tt.kind, got, tt.want)
			}
		})
	}
}

func TestParseColumnKind(t *testing.T) {
	tests := map[string]episodes.ColumnKind{
		"air_date": episodes.ColumnAirDate,
		"Air-Date": episodes.ColumnAirDate,
		"airdate":  episodes.ColumnAirDate,
		"runtime":  episodes.ColumnRuntime,
		"still":    episodes.ColumnBackdrop,
		"title":    episodes.ColumnName,
	}
	for input, want := range tests {
		got, ok := episodes.ParseColumnKind(input)
		if !ok || got != want {
			t.Fatalf("ParseColumnKind(%q) = %q, %v; want %q", input, got, ok, want)
		}
	}
	if _, ok := episodes.ParseColumnKind("nonsense"); ok {
		t.Fatal("expected unknown kind to be rejected")
	}
}
