package history

import "time"

// Run is one recorded import attempt.
type Run struct {
	ID         string `json:"id"`
	CSVPath    string `json:"csv_path"`
	Target     string `json:"target"`
	ExternalID string `json:"external_id"`
	Season     int    `json:"season"`
	Language   string `json:"language,omitempty"`

	State          string `json:"state"`
	Classification string `json:"classification"`
	Success        bool   `json:"success"`
	ExitCode       int    `json:"exit_code"`
	Signal         string `json:"signal,omitempty"`
	ErrorKind      string `json:"error_kind,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`

	ImportedEpisodes []int `json:"imported_episodes"`
	DeletedEpisodes  []int `json:"deleted_episodes"`
	RowsRetained     int   `json:"rows_retained"`
	RowsRemoved      int   `json:"rows_removed"`
	RowsDropped      int   `json:"rows_dropped"`
	PromptsAnswered  int   `json:"prompts_answered"`

	OutputExcerpt string `json:"output_excerpt,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration is how long the run took.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// ListOptions filters List results.
type ListOptions struct {
	// Limit caps the number of rows; zero means DefaultListLimit.
	Limit          int
	CSVPath        string
	Classification string
	FailedOnly     bool
}

// DefaultListLimit bounds List when no limit is given.
const DefaultListLimit = 50
