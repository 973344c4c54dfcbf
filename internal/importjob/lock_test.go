package importjob

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestCSVLockSerializesSamePath(t *testing.T) {
	stateDir := t.TempDir()
	csvPath := filepath.Join(t.TempDir(), "show.csv")

	first, err := newCSVLock(stateDir, csvPath)
	if err != nil {
		t.Fatalf("newCSVLock: %v", err)
	}
	if err := first.Acquire(context.Background()); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}

	second, err := newCSVLock(stateDir, csvPath)
	if err != nil {
		t.Fatalf("newCSVLock: %v", err)
	}
	if second.path != first.path {
		t.Fatalf("expected same lock file, got %q and %q", first.path, second.path)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	if err := second.Acquire(ctx); err == nil {
		t.Fatal("expected second lock to wait and give up")
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := second.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	_ = second.Release()
}

func TestCSVLockDistinctPaths(t *testing.T) {
	stateDir := t.TempDir()
	a, err := newCSVLock(stateDir, "/data/a.csv")
	if err != nil {
		t.Fatalf("newCSVLock: %v", err)
	}
	b, err := newCSVLock(stateDir, "/data/b.csv")
	if err != nil {
		t.Fatalf("newCSVLock: %v", err)
	}
	if a.path == b.path {
		t.Fatal("expected distinct lock files")
	}
}
