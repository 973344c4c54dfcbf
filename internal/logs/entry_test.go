package logs_test

import (
	"strings"
	"testing"

	"tmdbhelper/internal/logs"
)

func TestParseEntry(t *testing.T) {
	line := `{"ts":"2026-01-02T03:04:05Z","level":"warn","msg":"import failed","component":"importjob","job_id":"0123456789ab","stage":"import","classification":"timeout","exit_code":1}`
	entry, ok := logs.ParseEntry(line)
	if !ok {
		t.Fatal("expected JSON line to parse")
	}
	if entry.Level != "warn" || entry.Message != "import failed" || entry.Component != "importjob" || entry.Stage != "import" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Time.IsZero() {
		t.Fatal("expected timestamp")
	}
	if _, ok := entry.Fields["stage"]; ok {
		t.Fatal("reserved keys must not appear in Fields")
	}

	formatted := entry.Format()
	for _, want := range []string{"WARN [importjob] 01234567 import failed", "classification=timeout", "exit_code=1"} {
		if !strings.Contains(formatted, want) {
			t.Fatalf("Format() = %q, missing %q", formatted, want)
		}
	}
}

func TestParseEntryRejectsPlainText(t *testing.T) {
	if _, ok := logs.ParseEntry("not json"); ok {
		t.Fatal("expected plain text to be rejected")
	}
}

func TestMatchJob(t *testing.T) {
	if logs.MatchJob("  ") != nil {
		t.Fatal("empty prefix should not filter")
	}
	match := logs.MatchJob("abc")
	if !match(`{"job_id":"abcdef"}`) {
		t.Fatal("expected prefix match")
	}
	if match(`{"job_id":"xabc"}`) || match(`{"msg":"job_id abc"}`) {
		t.Fatal("unexpected match")
	}
}
