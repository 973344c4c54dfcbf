package importjob

import (
	"time"

	"tmdbhelper/internal/csvtable"
	"tmdbhelper/internal/episodes"
	"tmdbhelper/internal/outcome"
)

// Request describes one import job.
type Request struct {
	CSVPath   string
	Transform episodes.Request
	Target    Target
	// ConflictResponse overrides import_tool.conflict_response when non-zero.
	ConflictResponse byte
	// DryRun stops after the CSV has been rewritten.
	DryRun bool
}

// Preparation summarizes the CSV stage.
type Preparation struct {
	CSVPath    string              `json:"csv_path"`
	BackupPath string              `json:"backup_path,omitempty"`
	Parse      csvtable.ParseStats `json:"parse"`
	Columns    int                 `json:"columns"`

	EffectiveDeletions []int `json:"effective_deletions"`
	DeletedEpisodes    []int `json:"deleted_episodes"`
	RowsRemoved        int   `json:"rows_removed"`
	RowsRetained       int   `json:"rows_retained"`
	RowsUnmodified     int   `json:"rows_unmodified"`
	TitlesTrimmed      int   `json:"titles_trimmed"`

	Blanked    []episodes.ColumnKind `json:"blanked,omitempty"`
	Removed    []episodes.ColumnKind `json:"removed,omitempty"`
	Unresolved []episodes.ColumnKind `json:"unresolved,omitempty"`
}

func newPreparation(path string, stats csvtable.ParseStats, res episodes.Result) Preparation {
	return Preparation{
		CSVPath:            path,
		Parse:              stats,
		Columns:            len(res.Table.Headers),
		EffectiveDeletions: nonNilInts(res.Effective),
		DeletedEpisodes:    nonNilInts(res.Deleted),
		RowsRemoved:        res.RowsRemoved,
		RowsRetained:       res.Retained,
		RowsUnmodified:     res.Unmodified,
		TitlesTrimmed:      res.TitlesTrimmed,
		Blanked:            res.Blanked,
		Removed:            res.Removed,
		Unresolved:         res.Unresolved,
	}
}

// Result is everything a caller needs about one job.
type Result struct {
	JobID      string                 `json:"job_id"`
	Target     string                 `json:"target"`
	Language   string                 `json:"language"`
	Prepared   Preparation            `json:"prepared"`
	Outcome    *outcome.ImportOutcome `json:"outcome,omitempty"`
	DryRun     bool                   `json:"dry_run,omitempty"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
}

// Succeeded reports whether the import ran and succeeded. Dry runs count as
// successful once the CSV has been written.
func (r Result) Succeeded() bool {
	if r.DryRun {
		return true
	}
	return r.Outcome != nil && r.Outcome.Success
}

func nonNilInts(values []int) []int {
	if values == nil {
		return []int{}
	}
	return values
}
