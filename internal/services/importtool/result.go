package importtool

import (
	"strings"
	"time"
)

// Result is the terminal record of one session. It is produced exactly once.
type Result struct {
	State State

	// ExitCode is the process exit code, or -1 when the process did not exit
	// normally before the session resolved.
	ExitCode int
	// Signal names the signal that ended the process, if any.
	Signal string

	Stdout string
	Stderr string

	PromptsAnswered int
	Duration        time.Duration

	// Err explains non-success states. It wraps one of the services
	// taxonomy errors.
	Err error
}

// Succeeded reports whether the process exited cleanly.
func (r Result) Succeeded() bool {
	return r.State == StateCompleted
}

// CombinedOutput joins stdout and stderr for text classification.
func (r Result) CombinedOutput() string {
	switch {
	case r.Stderr == "":
		return r.Stdout
	case r.Stdout == "":
		return r.Stderr
	case strings.HasSuffix(r.Stdout, "\n"):
		return r.Stdout + r.Stderr
	default:
		return r.Stdout + "\n" + r.Stderr
	}
}
