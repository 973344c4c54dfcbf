package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"tmdbhelper/internal/outcome"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Result", statusError, "unknown_failure", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Result:", "[ERROR] unknown_failure")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Result", statusOK, "success", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestClassificationStatus(t *testing.T) {
	tests := map[outcome.Classification]statusKind{
		outcome.Success:         statusOK,
		outcome.ConnectionError: statusWarn,
		outcome.UserInterrupted: statusWarn,
		outcome.SpawnFailure:    statusError,
		outcome.ProcessTimeout:  statusError,
		outcome.UnknownFailure:  statusError,
	}
	for class, want := range tests {
		if got := classificationStatus(class); got != want {
			t.Fatalf("classificationStatus(%s) = %v, want %v", class, got, want)
		}
	}
}

func TestRenderTableWrapsAndPads(t *testing.T) {
	got := renderTable("Runs", []tableColumn{
		{Header: "ID"},
		{Header: "Episodes", MaxWidth: 6},
	}, [][]string{{"abc"}, {"def", "1, 2, 3, 4"}})
	if !strings.Contains(got, "Runs") || !strings.Contains(got, "abc") {
		t.Fatalf("table missing content:\n%s", got)
	}
	if strings.Contains(got, "1, 2, 3, 4") {
		t.Fatalf("expected long cell to wrap:\n%s", got)
	}
	if renderTable("", nil, nil) != "" {
		t.Fatal("expected empty render for no columns")
	}
}

func TestFormatEpisodes(t *testing.T) {
	if got := formatEpisodes(nil); got != "none" {
		t.Fatalf("formatEpisodes(nil) = %q", got)
	}
	if got := formatEpisodes([]int{1, 12}); got != "1, 12" {
		t.Fatalf("formatEpisodes = %q", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
