package importtool

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
}

func TestExecLauncherAnswersPrompt(t *testing.T) {
	requireShell(t)
	script := `printf 'poster.jpg already exists, overwrite? (w/y/n) '; read ans; echo "answer=$ans"; echo "Episode 1 imported"`
	session, err := New(Spec{Command: []string{"/bin/sh", "-c", script}, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	res := session.Run(context.Background())
	if res.State != StateCompleted {
		t.Fatalf("expected completed, got %s: %v stderr=%q", res.State, res.Err, res.Stderr)
	}
	if !strings.Contains(res.Stdout, "answer=w") {
		t.Fatalf("expected prompt answered, stdout=%q", res.Stdout)
	}
	if res.PromptsAnswered != 1 {
		t.Fatalf("expected one prompt answered, got %d", res.PromptsAnswered)
	}
}

func TestExecLauncherReportsExitCode(t *testing.T) {
	requireShell(t)
	session, err := New(Spec{Command: []string{"/bin/sh", "-c", "echo ConnectionError >&2; exit 3"}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	res := session.Run(context.Background())
	if res.State != StateFailed || res.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %s code=%d", res.State, res.ExitCode)
	}
	if !strings.Contains(res.Stderr, "ConnectionError") {
		t.Fatalf("stderr not captured: %q", res.Stderr)
	}
}

func TestExecLauncherTimeoutKillsProcessGroup(t *testing.T) {
	requireShell(t)
	session, err := New(
		Spec{Command: []string{"/bin/sh", "-c", "echo started; sleep 30 & wait"}},
		WithTimeout(300*time.Millisecond),
		WithKillGrace(300*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	begin := time.Now()
	res := session.Run(context.Background())
	if res.State != StateTimedOut {
		t.Fatalf("expected timed out, got %s", res.State)
	}
	if elapsed := time.Since(begin); elapsed > 10*time.Second {
		t.Fatalf("process group not terminated promptly: %s", elapsed)
	}
}

func TestExecLauncherMissingBinary(t *testing.T) {
	session, err := New(Spec{Command: []string{"/nonexistent/tmdb-import-binary"}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	res := session.Run(context.Background())
	if res.State != StateFailed || res.Err == nil {
		t.Fatalf("expected spawn failure, got %+v", res)
	}
}
