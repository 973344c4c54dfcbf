package outcome

import (
	"errors"
	"unicode/utf8"

	"tmdbhelper/internal/services"
	"tmdbhelper/internal/services/importtool"
)

// Classification labels how an import run ended.
type Classification string

const (
	Success         Classification = "success"
	UserInterrupted Classification = "user_interrupted"
	ServerError     Classification = "server_error"
	Timeout         Classification = "timeout"
	ConnectionError Classification = "connection_error"
	UnknownFailure  Classification = "unknown_failure"
	ProcessTimeout  Classification = "process_timeout"
	Killed          Classification = "killed"
	SpawnFailure    Classification = "spawn_failure"
)

// DefaultExcerptRunes bounds RawOutputExcerpt.
const DefaultExcerptRunes = 2000

// ImportOutcome is the structured result of one import run. Treat it as a
// value; nothing mutates it after Classify returns.
type ImportOutcome struct {
	Success          bool             `json:"success"`
	ImportedEpisodes []int            `json:"imported_episodes"`
	Classification   Classification   `json:"classification"`
	RawOutputExcerpt string           `json:"raw_output_excerpt"`
	ExitCode         int              `json:"exit_code"`
	Signal           string           `json:"signal,omitempty"`
	State            importtool.State `json:"state"`
	PromptsAnswered  int              `json:"prompts_answered"`
	ErrorKind        string           `json:"error_kind,omitempty"`
	Error            string           `json:"error,omitempty"`
}

// Option tunes Classify.
type Option func(*options)

type options struct {
	excerptRunes int
}

// WithExcerptRunes sets how many trailing runes of output are kept.
func WithExcerptRunes(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.excerptRunes = n
		}
	}
}

// Classify builds the outcome for a terminal session result.
func Classify(res importtool.Result, opts ...Option) ImportOutcome {
	o := options{excerptRunes: DefaultExcerptRunes}
	for _, opt := range opts {
		opt(&o)
	}

	combined := res.CombinedOutput()
	class := classify(res, combined)
	out := ImportOutcome{
		Success:          class == Success,
		ImportedEpisodes: ExtractEpisodes(combined),
		Classification:   class,
		RawOutputExcerpt: Excerpt(combined, o.excerptRunes),
		ExitCode:         res.ExitCode,
		Signal:           res.Signal,
		State:            res.State,
		PromptsAnswered:  res.PromptsAnswered,
	}
	if out.ImportedEpisodes == nil {
		out.ImportedEpisodes = []int{}
	}
	if res.Err != nil {
		out.ErrorKind = services.Kind(res.Err)
		out.Error = res.Err.Error()
	}
	return out
}

func classify(res importtool.Result, combined string) Classification {
	switch {
	case errors.Is(res.Err, services.ErrProcessSpawn):
		return SpawnFailure
	case res.State == importtool.StateTimedOut:
		return ProcessTimeout
	case res.State == importtool.StateKilled:
		return Killed
	}
	if res.Signal == "SIGINT" {
		return UserInterrupted
	}
	if class, ok := matchFailureText(combined); ok {
		return class
	}
	if res.State == importtool.StateCompleted {
		return Success
	}
	return UnknownFailure
}

// Excerpt returns the last n runes of text.
func Excerpt(text string, n int) string {
	if n <= 0 {
		return ""
	}
	end := len(text)
	for i := 0; i < n && end > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:end])
		end -= size
	}
	return text[end:]
}
