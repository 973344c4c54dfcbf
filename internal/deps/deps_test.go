package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Empty", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Command != "clearly-not-present-binary" || results[1].Detail == "" {
		t.Fatalf("unexpected missing status: %#v", results[1])
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected empty status: %#v", results[2])
	}
}

func TestImportToolRequirement(t *testing.T) {
	req := ImportToolRequirement([]string{"python", "-m", "tmdb-import"})
	if req.Command != "python" || req.Name == "" {
		t.Fatalf("unexpected requirement: %#v", req)
	}
	if got := ImportToolRequirement(nil); got.Command != "" {
		t.Fatalf("expected empty command, got %q", got.Command)
	}
}
