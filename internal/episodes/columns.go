package episodes

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

// ColumnKind names a column by meaning rather than by header text.
type ColumnKind string

const (
	ColumnEpisodeNumber ColumnKind = "episode_number"
	ColumnName          ColumnKind = "name"
	ColumnAirDate       ColumnKind = "air_date"
	ColumnRuntime       ColumnKind = "runtime"
	ColumnOverview      ColumnKind = "overview"
	ColumnBackdrop      ColumnKind = "backdrop"
)

// columnCandidates lists header names per kind in priority order.
var columnCandidates = map[ColumnKind][]string{
	ColumnEpisodeNumber: {"episode_number", "episode_no", "episode", "集数", "集号", "number", "ep", "#"},
	ColumnName:          {"name", "episode_name", "title", "标题", "名称", "集名"},
	ColumnAirDate:       {"air_date", "airdate", "release_date", "播出日期", "首播日期", "date"},
	ColumnRuntime:       {"runtime", "duration", "时长", "片长"},
	ColumnOverview:      {"overview", "description", "plot", "简介", "剧情"},
	ColumnBackdrop:      {"backdrop", "still_path", "still", "image", "背景图", "剧照"},
}

// minSubstringRunes keeps very short candidates such as "ep" or "#" from
// matching inside unrelated headers.
const minSubstringRunes = 3

// ParseColumnKind maps user input (for example a CLI flag) to a ColumnKind.
func ParseColumnKind(value string) (ColumnKind, bool) {
	key := ColumnKind(strings.ReplaceAll(foldHeader(value), "-", "_"))
	switch key {
	case "airdate", "date":
		key = ColumnAirDate
	case "episode", "number":
		key = ColumnEpisodeNumber
	case "title":
		key = ColumnName
	case "still", "image":
		key = ColumnBackdrop
	}
	if _, ok := columnCandidates[key]; ok {
		return key, true
	}
	return "", false
}

// KnownColumnKinds returns every supported kind in a stable order.
func KnownColumnKinds() []ColumnKind {
	return []ColumnKind{
		ColumnEpisodeNumber,
		ColumnName,
		ColumnAirDate,
		ColumnRuntime,
		ColumnOverview,
		ColumnBackdrop,
	}
}

// ResolveColumn finds the header index for kind. Exact matches across all
// candidates win over substring matches; within a pass the candidate order
// decides. Returns -1 when nothing matches.
func ResolveColumn(headers []string, kind ColumnKind) int {
	candidates, ok := columnCandidates[kind]
	if !ok {
		return -1
	}
	folded := make([]string, len(headers))
	for i, h := range headers {
		folded[i] = foldHeader(h)
	}
	for _, candidate := range candidates {
		want := foldHeader(candidate)
		for i, h := range folded {
			if h == want {
				return i
			}
		}
	}
	for _, candidate := range candidates {
		want := foldHeader(candidate)
		if utf8.RuneCountInString(want) < minSubstringRunes {
			continue
		}
		for i, h := range folded {
			if strings.Contains(h, want) {
				return i
			}
		}
	}
	return -1
}

// foldHeader normalizes header text for comparison: full-width forms become
// narrow and case is folded.
func foldHeader(value string) string {
	return cases.Fold().String(width.Fold.String(strings.TrimSpace(value)))
}
