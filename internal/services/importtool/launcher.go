package importtool

import (
	"io"
	"syscall"
	"time"
)

// Spec describes the command to launch.
type Spec struct {
	// Command is the executable followed by its leading arguments.
	Command []string
	// Target is appended as the final argument.
	Target string
	Dir    string
	Env    []string
}

// Argv returns the full argument vector including the target reference.
func (s Spec) Argv() []string {
	argv := append([]string(nil), s.Command...)
	if s.Target != "" {
		argv = append(argv, s.Target)
	}
	return argv
}

// ExitStatus is how a process ended.
type ExitStatus struct {
	Code   int
	Signal string
}

// Process is a launched child with piped standard streams.
type Process interface {
	Pid() int
	Stdin() io.Writer
	Stdout() io.Reader
	Stderr() io.Reader
	// Wait blocks until the process exits. The error is non-nil only when
	// the exit status could not be collected.
	Wait() (ExitStatus, error)
	// Signal delivers sig to the process and every member of its group.
	Signal(sig syscall.Signal) error
	// Close releases the parent's ends of the pipes, unblocking readers.
	Close() error
}

// Launcher starts processes.
type Launcher interface {
	Launch(spec Spec) (Process, error)
}

// Timer is the subset of time.Timer the session needs.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

// TimerFactory creates a timer that fires once after d.
type TimerFactory func(d time.Duration) Timer

type realTimer struct {
	t *time.Timer
}

func (r realTimer) C() <-chan time.Time { return r.t.C }

func (r realTimer) Stop() bool { return r.t.Stop() }

func newRealTimer(d time.Duration) Timer {
	return realTimer{t: time.NewTimer(d)}
}
