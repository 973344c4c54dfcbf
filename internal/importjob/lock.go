package importjob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 100 * time.Millisecond

// csvLock is an advisory lock keyed by the absolute CSV path. Lock files live
// under the state directory so nothing is written next to the user's data.
type csvLock struct {
	path string
	lock *flock.Flock
}

func newCSVLock(stateDir, csvPath string) (*csvLock, error) {
	abs, err := filepath.Abs(csvPath)
	if err != nil {
		return nil, fmt.Errorf("resolve csv path: %w", err)
	}
	dir := filepath.Join(stateDir, "locks")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	sum := sha256.Sum256([]byte(abs))
	lockPath := filepath.Join(dir, hex.EncodeToString(sum[:8])+".lock")
	return &csvLock{path: lockPath, lock: flock.New(lockPath)}, nil
}

// Acquire blocks until the lock is held or ctx is done.
func (l *csvLock) Acquire(ctx context.Context) error {
	ok, err := l.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire csv lock %s: %w", l.path, err)
	}
	if !ok {
		return fmt.Errorf("acquire csv lock %s: not acquired", l.path)
	}
	return nil
}

func (l *csvLock) Release() error {
	return l.lock.Unlock()
}
