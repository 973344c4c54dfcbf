package episodes

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/width"

	"tmdbhelper/internal/csvtable"
)

// Decision is the per-row outcome of episode filtering.
type Decision int

const (
	// Retain keeps the row; later edits such as title cleanup apply.
	Retain Decision = iota
	// Delete drops the row because its episode number was requested.
	Delete
	// RetainUnmodified keeps the row untouched because its episode number
	// could not be read.
	RetainUnmodified
)

func (d Decision) String() string {
	switch d {
	case Delete:
		return "delete"
	case RetainUnmodified:
		return "retain_unmodified"
	default:
		return "retain"
	}
}

// TitleCleanup truncates a column's cells at the first occurrence of Marker.
// Column defaults to ColumnName.
type TitleCleanup struct {
	Column ColumnKind
	Marker string
}

// Request describes the edits to apply.
type Request struct {
	Episodes           []int
	PlatformAdjustment bool
	TitleCleanup       *TitleCleanup
	Blank              []ColumnKind
	Remove             []ColumnKind
}

// Platform returns the numbering convention implied by the request.
func (r Request) Platform() Platform {
	if r.PlatformAdjustment {
		return PlatformOffsetByOne
	}
	return PlatformCanonical
}

// Empty reports whether the request would leave every table unchanged.
func (r Request) Empty() bool {
	return len(r.Episodes) == 0 &&
		(r.TitleCleanup == nil || r.TitleCleanup.Marker == "") &&
		len(r.Blank) == 0 &&
		len(r.Remove) == 0
}

// Result is the transformed table plus an account of what changed.
type Result struct {
	Table csvtable.Table

	// Effective is the deletion set after platform adjustment.
	Effective []int

	// Deleted lists the episode numbers of dropped rows, sorted and unique.
	Deleted []int

	// Decisions holds one entry per input row.
	Decisions []Decision

	RowsRemoved   int
	Retained      int
	Unmodified    int
	TitlesTrimmed int

	Blanked []ColumnKind
	Removed []ColumnKind

	// Unresolved lists requested kinds whose column could not be found.
	Unresolved []ColumnKind
}

// Transform applies req to a copy of table. It performs no I/O.
func Transform(table csvtable.Table, req Request) Result {
	out := table.Clone()
	res := Result{
		Effective: AdjustForPlatform(req.Episodes, req.Platform()),
		Decisions: make([]Decision, len(out.Rows)),
	}

	titleIdx, marker := -1, ""
	cleanup := req.TitleCleanup != nil && req.TitleCleanup.Marker != ""

	// Row decisions need the episode column whenever a row edit depends on
	// them, so title cleanup skips the same rows with or without deletions.
	episodeIdx := -1
	if len(res.Effective) > 0 || cleanup {
		episodeIdx = ResolveColumn(out.Headers, ColumnEpisodeNumber)
		if episodeIdx < 0 && len(res.Effective) > 0 {
			res.Unresolved = append(res.Unresolved, ColumnEpisodeNumber)
		}
	}

	if cleanup {
		kind := req.TitleCleanup.Column
		if kind == "" {
			kind = ColumnName
		}
		marker = req.TitleCleanup.Marker
		if titleIdx = ResolveColumn(out.Headers, kind); titleIdx < 0 {
			res.Unresolved = append(res.Unresolved, kind)
		}
	}

	deleteSet := make(map[int]struct{}, len(res.Effective))
	for _, e := range res.Effective {
		deleteSet[e] = struct{}{}
	}
	deleted := make(map[int]struct{})

	kept := out.Rows[:0]
	for i, row := range out.Rows {
		decision, episode := decideRow(row, episodeIdx, deleteSet)
		res.Decisions[i] = decision
		switch decision {
		case Delete:
			deleted[episode] = struct{}{}
			res.RowsRemoved++
			continue
		case RetainUnmodified:
			res.Unmodified++
		case Retain:
			if trimTitle(row, titleIdx, marker) {
				res.TitlesTrimmed++
			}
		}
		res.Retained++
		kept = append(kept, row)
	}
	out.Rows = kept

	for e := range deleted {
		res.Deleted = append(res.Deleted, e)
	}
	sort.Ints(res.Deleted)

	for _, kind := range req.Blank {
		idx := ResolveColumn(out.Headers, kind)
		if idx < 0 {
			res.Unresolved = append(res.Unresolved, kind)
			continue
		}
		for _, row := range out.Rows {
			if idx < len(row) {
				row[idx] = ""
			}
		}
		res.Blanked = append(res.Blanked, kind)
	}

	removeIdx := make([]int, 0, len(req.Remove))
	for _, kind := range req.Remove {
		idx := ResolveColumn(out.Headers, kind)
		if idx < 0 {
			res.Unresolved = append(res.Unresolved, kind)
			continue
		}
		if containsInt(removeIdx, idx) {
			continue
		}
		removeIdx = append(removeIdx, idx)
		res.Removed = append(res.Removed, kind)
	}
	// Splice from the right so earlier indices stay valid.
	sort.Sort(sort.Reverse(sort.IntSlice(removeIdx)))
	for _, idx := range removeIdx {
		out.Headers = spliceOut(out.Headers, idx)
		for i, row := range out.Rows {
			out.Rows[i] = spliceOut(row, idx)
		}
	}

	res.Table = out
	return res
}

// decideRow classifies one row. Rows whose episode number cannot be read are
// kept untouched whether or not deletions were requested.
func decideRow(row []string, episodeIdx int, deleteSet map[int]struct{}) (Decision, int) {
	if episodeIdx < 0 {
		return Retain, 0
	}
	if episodeIdx >= len(row) {
		return RetainUnmodified, 0
	}
	episode, ok := ParseEpisodeNumber(row[episodeIdx])
	if !ok {
		return RetainUnmodified, 0
	}
	if _, hit := deleteSet[episode]; hit {
		return Delete, episode
	}
	return Retain, episode
}

// ParseEpisodeNumber reads an integer episode cell, accepting full-width
// digits.
func ParseEpisodeNumber(cell string) (int, bool) {
	value := strings.TrimSpace(width.Fold.String(cell))
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

func trimTitle(row []string, idx int, marker string) bool {
	if idx < 0 || idx >= len(row) || marker == "" {
		return false
	}
	pos := strings.Index(row[idx], marker)
	if pos < 0 {
		return false
	}
	if pos == 0 {
		row[idx] = ""
		return true
	}
	row[idx] = strings.TrimSpace(row[idx][:pos])
	return true
}

func spliceOut(values []string, idx int) []string {
	if idx < 0 || idx >= len(values) {
		return values
	}
	return append(values[:idx], values[idx+1:]...)
}

func containsInt(values []int, want int) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
