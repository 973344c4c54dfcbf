package importtool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"tmdbhelper/internal/logging"
	"tmdbhelper/internal/services"
)

const (
	DefaultTimeout          = 10 * time.Minute
	DefaultKillGrace        = 5 * time.Second
	DefaultConflictResponse = 'w'

	defaultDrainTimeout = 2 * time.Second
	readChunkSize       = 4096
	stageImport         = "import"
)

// Option configures a Session.
type Option func(*Session)

// WithLauncher injects a custom launcher (primarily for tests).
func WithLauncher(l Launcher) Option {
	return func(s *Session) {
		if l != nil {
			s.launcher = l
		}
	}
}

// WithTimeout sets the wall-clock budget. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithKillGrace sets how long to wait after SIGTERM before SIGKILL.
func WithKillGrace(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.grace = d
		}
	}
}

// WithConflictResponse sets the character written on overwrite prompts.
func WithConflictResponse(c byte) Option {
	return func(s *Session) {
		if c > ' ' && c <= '~' {
			s.response = c
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logging.NewComponentLogger(logger, "importtool")
		}
	}
}

// WithTimerFactory replaces the timers used for the timeout and kill grace.
func WithTimerFactory(f TimerFactory) Option {
	return func(s *Session) {
		if f != nil {
			s.newTimer = f
		}
	}
}

// Session supervises a single run of the import command. A Session can be run
// once.
type Session struct {
	spec     Spec
	launcher Launcher
	timeout  time.Duration
	grace    time.Duration
	drain    time.Duration
	response byte
	logger   *slog.Logger
	newTimer TimerFactory
	now      func() time.Time

	used atomic.Bool
}

// New constructs a session for spec.
func New(spec Spec, opts ...Option) (*Session, error) {
	if len(spec.Command) == 0 || strings.TrimSpace(spec.Command[0]) == "" {
		return nil, services.Wrap(services.ErrConfiguration, stageImport, "new session", "import command required", nil)
	}
	s := &Session{
		spec:     spec,
		launcher: ExecLauncher{},
		timeout:  DefaultTimeout,
		grace:    DefaultKillGrace,
		drain:    defaultDrainTimeout,
		response: DefaultConflictResponse,
		logger:   logging.NewComponentLogger(nil, "importtool"),
		newTimer: newRealTimer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run launches the command and blocks until it has been reaped. Failures of
// the child are reported in the Result, never as a panic or a lost goroutine.
func (s *Session) Run(ctx context.Context) Result {
	start := s.now()
	if !s.used.CompareAndSwap(false, true) {
		return Result{
			State:    StateFailed,
			ExitCode: -1,
			Err:      services.Wrap(services.ErrValidation, stageImport, "run", "session already used", nil),
		}
	}
	logger := logging.WithContext(ctx, s.logger)

	if err := ctx.Err(); err != nil {
		return Result{
			State:    StateKilled,
			ExitCode: -1,
			Err:      services.Wrap(services.ErrExternalTool, stageImport, "run", "cancelled before launch", fmt.Errorf("%w: %w", services.ErrProcessKilled, err)),
		}
	}

	proc, err := s.launcher.Launch(s.spec)
	if err == nil && proc.Pid() <= 0 {
		_ = proc.Close()
		err = errors.New("launcher returned no process id")
	}
	if err != nil {
		logging.ErrorWithContext(logger, "import tool failed to start", "import_spawn_failed",
			logging.String("command", strings.Join(s.spec.Argv(), " ")),
			logging.String("dir", s.spec.Dir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check import_tool.command and import_tool.working_dir"),
		)
		return Result{
			State:    StateFailed,
			ExitCode: -1,
			Duration: s.now().Sub(start),
			Err:      services.Wrap(services.ErrExternalTool, stageImport, "spawn", "launch import tool", fmt.Errorf("%w: %w", services.ErrProcessSpawn, err)),
		}
	}

	logger.Info("import tool started",
		logging.Int("pid", proc.Pid()),
		logging.String("target", s.spec.Target),
		logging.String("dir", s.spec.Dir),
	)

	r := &run{session: s, proc: proc, start: start, logger: logger, done: make(chan struct{})}
	r.state.Store(int32(StateRunning))

	var readers sync.WaitGroup
	readers.Add(2)
	go r.pump(proc.Stdout(), &r.stdout, true, &readers)
	go r.pump(proc.Stderr(), &r.stderr, false, &readers)

	reaped := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		status, werr := proc.Wait()
		close(reaped)
		// The exit claims the latch before draining so a timer firing during
		// the drain cannot overtake it. Output is attached once drained.
		claimed := r.claim(exitResult(status, werr))
		r.drainReaders(&readers)
		if claimed {
			r.seal()
		}
	}()

	timer := s.newTimer(s.timeout)
	defer timer.Stop()

	select {
	case <-exited:
	case <-timer.C():
		if r.resolve(Result{
			State:    StateTimedOut,
			ExitCode: -1,
			Err:      services.Wrap(services.ErrTimeout, stageImport, "wait", fmt.Sprintf("no exit within %s", s.timeout), services.ErrProcessTimeout),
		}) {
			logging.WarnWithContext(logger, "import tool timed out", "import_timeout",
				logging.Duration("timeout", s.timeout),
				logging.String(logging.FieldErrorHint, "raise import_tool.timeout_seconds or check the tool's network access"),
				logging.String(logging.FieldImpact, "import aborted; output captured so far is kept"),
			)
		}
		r.escalate(reaped)
	case <-ctx.Done():
		if r.resolve(Result{
			State:    StateKilled,
			ExitCode: -1,
			Err:      services.Wrap(services.ErrExternalTool, stageImport, "wait", "aborted", fmt.Errorf("%w: %w", services.ErrProcessKilled, ctx.Err())),
		}) {
			logger.Info("import tool aborted", logging.String("reason", ctx.Err().Error()))
		}
		r.escalate(reaped)
	}

	<-exited
	_ = proc.Close()
	<-r.done

	res := r.result
	logger.Info("import tool finished",
		logging.String("state", res.State.String()),
		logging.Int("exit_code", res.ExitCode),
		logging.Int("prompts_answered", res.PromptsAnswered),
		logging.Duration("duration", res.Duration),
	)
	return res
}

// run is the mutable state of one Session.Run call.
type run struct {
	session *Session
	proc    Process
	start   time.Time
	logger  *slog.Logger

	state  atomic.Int32
	done   chan struct{}
	result Result

	stdout  outputBuffer
	stderr  outputBuffer
	prompts atomic.Int32
	stdinMu sync.Mutex
}

// claim moves the run from Running to res.State. Only the first caller wins
// and only the winner may call seal.
func (r *run) claim(res Result) bool {
	if !r.state.CompareAndSwap(int32(StateRunning), int32(res.State)) {
		return false
	}
	res.Duration = r.session.now().Sub(r.start)
	r.result = res
	return true
}

// seal attaches the output captured so far and publishes the result.
func (r *run) seal() {
	r.result.Stdout = r.stdout.String()
	r.result.Stderr = r.stderr.String()
	r.result.PromptsAnswered = int(r.prompts.Load())
	close(r.done)
}

// resolve claims the latch and snapshots output at that moment.
func (r *run) resolve(res Result) bool {
	if !r.claim(res) {
		return false
	}
	r.seal()
	return true
}

func (r *run) pump(src io.Reader, dst *outputBuffer, answer bool, wg *sync.WaitGroup) {
	defer wg.Done()
	var detector promptDetector
	buf := make([]byte, readChunkSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			dst.Write(chunk)
			if answer {
				if meaning, ok := detector.Feed(chunk); ok {
					r.respond(meaning)
				}
			}
		}
		if err != nil {
			return
		}
	}
}

func (r *run) respond(meaning string) {
	r.stdinMu.Lock()
	defer r.stdinMu.Unlock()
	if _, err := r.proc.Stdin().Write([]byte{r.session.response, '\n'}); err != nil {
		r.logger.Debug("prompt response not delivered", logging.String("prompt", meaning), logging.Error(err))
		return
	}
	r.prompts.Add(1)
	r.logger.Debug("answered import prompt",
		logging.String("prompt", meaning),
		logging.String("response", string(r.session.response)),
	)
}

// drainReaders waits for both output pipes to reach EOF. Descendants that
// inherited the pipes can hold them open after the child exits, so the wait
// is bounded.
func (r *run) drainReaders(readers *sync.WaitGroup) {
	finished := make(chan struct{})
	go func() {
		readers.Wait()
		close(finished)
	}()
	t := time.NewTimer(r.session.drain)
	defer t.Stop()
	select {
	case <-finished:
		return
	case <-t.C:
	}
	_ = r.proc.Close()
	<-finished
}

// escalate sends SIGTERM to the process group, then SIGKILL if it has not
// been reaped within the grace period.
func (r *run) escalate(reaped <-chan struct{}) {
	if !r.signal(unix.SIGTERM, reaped) {
		return
	}
	grace := r.session.newTimer(r.session.grace)
	defer grace.Stop()
	select {
	case <-reaped:
		return
	case <-grace.C():
	}
	r.signal(unix.SIGKILL, reaped)
}

func (r *run) signal(sig syscall.Signal, reaped <-chan struct{}) bool {
	select {
	case <-reaped:
		return false
	default:
	}
	if err := r.proc.Signal(sig); err != nil {
		r.logger.Debug("signal import tool failed", logging.String("signal", unix.SignalName(sig)), logging.Error(err))
	}
	return true
}

func exitResult(status ExitStatus, err error) Result {
	switch {
	case err != nil:
		return Result{
			State:    StateFailed,
			ExitCode: status.Code,
			Signal:   status.Signal,
			Err:      services.Wrap(services.ErrExternalTool, stageImport, "wait", "collect exit status", err),
		}
	case status.Signal != "":
		return Result{
			State:    StateFailed,
			ExitCode: -1,
			Signal:   status.Signal,
			Err:      services.Wrap(services.ErrExternalTool, stageImport, "exit", "terminated by "+status.Signal, services.ErrNonZeroExit),
		}
	case status.Code != 0:
		return Result{
			State:    StateFailed,
			ExitCode: status.Code,
			Err:      services.Wrap(services.ErrExternalTool, stageImport, "exit", fmt.Sprintf("exit code %d", status.Code), services.ErrNonZeroExit),
		}
	default:
		return Result{State: StateCompleted}
	}
}

type outputBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *outputBuffer) Write(p []byte) {
	b.mu.Lock()
	b.buf.Write(p)
	b.mu.Unlock()
}

func (b *outputBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
