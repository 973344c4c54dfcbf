package importtool

import (
	"errors"
	"io"
	"sync"
	"syscall"
	"time"
)

type stubLauncher struct {
	proc *stubProcess
	err  error
	spec Spec
}

func (l *stubLauncher) Launch(spec Spec) (Process, error) {
	l.spec = spec
	if l.err != nil {
		return nil, l.err
	}
	return l.proc, nil
}

// stubProcess is a scripted child. Tests write to its output pipes and decide
// how it reacts to signals.
type stubProcess struct {
	pid int

	stdoutR *io.PipeReader
	stdoutW *io.PipeWriter
	stderrR *io.PipeReader
	stderrW *io.PipeWriter

	stdin     *stdinRecorder
	exit      chan ExitStatus
	finishOne sync.Once

	mu       sync.Mutex
	signals  []syscall.Signal
	onSignal func(p *stubProcess, sig syscall.Signal)
}

func newStubProcess() *stubProcess {
	p := &stubProcess{
		pid:   4242,
		stdin: &stdinRecorder{writes: make(chan string, 16)},
		exit:  make(chan ExitStatus, 1),
	}
	p.stdoutR, p.stdoutW = io.Pipe()
	p.stderrR, p.stderrW = io.Pipe()
	return p
}

func (p *stubProcess) Pid() int          { return p.pid }
func (p *stubProcess) Stdin() io.Writer  { return p.stdin }
func (p *stubProcess) Stdout() io.Reader { return p.stdoutR }
func (p *stubProcess) Stderr() io.Reader { return p.stderrR }

func (p *stubProcess) Wait() (ExitStatus, error) {
	return <-p.exit, nil
}

func (p *stubProcess) Signal(sig syscall.Signal) error {
	p.mu.Lock()
	p.signals = append(p.signals, sig)
	handler := p.onSignal
	p.mu.Unlock()
	if handler != nil {
		handler(p, sig)
	}
	return nil
}

func (p *stubProcess) Close() error {
	_ = p.stdoutR.Close()
	_ = p.stderrR.Close()
	return nil
}

func (p *stubProcess) receivedSignals() []syscall.Signal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]syscall.Signal(nil), p.signals...)
}

// finish closes the output streams and reports status from Wait.
func (p *stubProcess) finish(status ExitStatus) {
	p.finishOne.Do(func() {
		_ = p.stdoutW.Close()
		_ = p.stderrW.Close()
		p.exit <- status
	})
}

// exitHoldingOutput reports status from Wait while the output pipes stay
// open, like a child whose descendants still hold them.
func (p *stubProcess) exitHoldingOutput(status ExitStatus) {
	p.exit <- status
}

func (p *stubProcess) closeOutput() {
	_ = p.stdoutW.Close()
	_ = p.stderrW.Close()
}

func (p *stubProcess) writeStdout(s string) {
	_, _ = p.stdoutW.Write([]byte(s))
}

func (p *stubProcess) writeStderr(s string) {
	_, _ = p.stderrW.Write([]byte(s))
}

type stdinRecorder struct {
	mu     sync.Mutex
	data   []byte
	writes chan string
	err    error
}

func (s *stdinRecorder) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.data = append(s.data, b...)
	select {
	case s.writes <- string(b):
	default:
	}
	return len(b), nil
}

func (s *stdinRecorder) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.data)
}

type fakeTimer struct {
	d  time.Duration
	ch chan time.Time
}

func (f *fakeTimer) C() <-chan time.Time { return f.ch }
func (f *fakeTimer) Stop() bool          { return true }
func (f *fakeTimer) fire()               { f.ch <- time.Now() }

type fakeTimers struct {
	created chan *fakeTimer
}

func newFakeTimers() *fakeTimers {
	return &fakeTimers{created: make(chan *fakeTimer, 8)}
}

func (f *fakeTimers) factory(d time.Duration) Timer {
	t := &fakeTimer{d: d, ch: make(chan time.Time, 1)}
	f.created <- t
	return t
}

func (f *fakeTimers) next() *fakeTimer {
	select {
	case t := <-f.created:
		return t
	case <-time.After(5 * time.Second):
		panic(errors.New("timer was never created"))
	}
}

func awaitWrite(rec *stdinRecorder) string {
	select {
	case w := <-rec.writes:
		return w
	case <-time.After(5 * time.Second):
		return ""
	}
}
