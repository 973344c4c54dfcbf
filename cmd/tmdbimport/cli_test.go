package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pelletier/go-toml/v2"

	"tmdbhelper/internal/config"
	"tmdbhelper/internal/history"
	"tmdbhelper/internal/importjob"
	"tmdbhelper/internal/outcome"
	"tmdbhelper/internal/services/importtool"
	"tmdbhelper/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()
	t.Setenv("TMDB_IMPORT_DIR", "")

	cfg := testsupport.NewConfig(t, opts...)
	cfg.Logging.Level = "error"
	base := testsupport.BaseDir(cfg)

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	configPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func (e *cliTestEnv) writeCSV(t *testing.T) string {
	t.Helper()
	return testsupport.WriteCSV(t, e.baseDir, "show.csv", testsupport.SampleEpisodesCSV)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
}

func TestConfigInitShowValidate(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TMDB_IMPORT_DIR", "")
	target := filepath.Join(home, "cfg", "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("unexpected init output: %q", out)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}

	out, _, err = runCLI(t, []string{"config", "show"}, target)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"# source: " + target, "[import_tool]", "target_template", "[history]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("config show missing %q:\n%s", want, out)
		}
	}

	// The sample points at ~/TMDB-Import, which does not exist yet.
	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err == nil {
		t.Fatal("expected validate to report the missing tool directory")
	}
	if !strings.Contains(out, "[OK] "+target) || !strings.Contains(out, "Tool directory:") {
		t.Fatalf("unexpected validate output: %q", out)
	}
}

func TestConfigValidatePasses(t *testing.T) {
	requireShell(t)
	env := setupCLITestEnv(t, testsupport.WithToolScript("exit 0"))

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v\n%s", err, out)
	}
	for _, want := range []string{"Import tool:", "[OK] /bin/sh", "History database:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("validate output missing %q:\n%s", want, out)
		}
	}
}

func TestTransformCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())
	csvPath := env.writeCSV(t)

	out, _, err := runCLI(t, []string{"transform", csvPath, "--delete", "2", "--title-marker", " ("}, env.configPath)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	for _, want := range []string{"3 retained, 1 removed, 0 unmodified", "Deleted:", "2 trimmed", " B)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("transform output missing %q:\n%s", want, out)
		}
	}

	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if strings.Contains(string(data), "Second") || strings.Contains(string(data), "Director's Cut") {
		t.Fatalf("csv not rewritten:\n%s", data)
	}
}

func TestTransformCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())
	csvPath := env.writeCSV(t)

	out, _, err := runCLI(t, []string{"--json", "transform", csvPath, "--delete", "5,1", "--platform-adjust", "--remove", "backdrop"}, env.configPath)
	if err != nil {
		t.Fatalf("transform --json: %v", err)
	}
	var prep importjob.Preparation
	if err := json.Unmarshal([]byte(out), &prep); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if diff := cmp.Diff([]int{4}, prep.DeletedEpisodes); diff != "" {
		t.Fatalf("deleted mismatch (-want +got):\n%s", diff)
	}
	if prep.Columns != 5 || len(prep.Removed) != 1 {
		t.Fatalf("expected backdrop removed, got %+v", prep)
	}
}

func TestTransformRejectsUnknownColumn(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())
	csvPath := env.writeCSV(t)

	_, _, err := runCLI(t, []string{"transform", csvPath, "--blank", "poster"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "unknown column") {
		t.Fatalf("expected unknown column error, got %v", err)
	}
}

func TestRunDryRunJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	csvPath := env.writeCSV(t)

	out, _, err := runCLI(t, []string{"--json", "run", csvPath, "--id", "42", "--season", "3", "--language", "en-US", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("run --dry-run: %v", err)
	}
	var res importjob.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if !res.DryRun || res.Outcome != nil {
		t.Fatalf("unexpected dry run result: %+v", res)
	}
	if res.Target != "https://www.themoviedb.org/tv/42/season/3?language=en-US" {
		t.Fatalf("unexpected target %q", res.Target)
	}
}

func TestRunRequiresID(t *testing.T) {
	env := setupCLITestEnv(t)
	csvPath := env.writeCSV(t)

	if _, _, err := runCLI(t, []string{"run", csvPath}, env.configPath); err == nil {
		t.Fatal("expected missing --id to fail")
	}
}

func TestRunAndHistoryCommands(t *testing.T) {
	requireShell(t)
	env := setupCLITestEnv(t, testsupport.WithToolScript(`printf 'overwrite? [w/y/n] '
read ans
echo "Episode 1 imported"
echo "Episode 3 imported"`))
	csvPath := env.writeCSV(t)

	out, _, err := runCLI(t, []string{"--json", "run", csvPath, "--id", "100", "--delete", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var res importjob.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if res.Outcome == nil || res.Outcome.Classification != outcome.Success {
		t.Fatalf("expected success, got %+v", res.Outcome)
	}
	if res.Outcome.State != importtool.StateCompleted {
		t.Fatalf("expected decoded state completed, got %s", res.Outcome.State)
	}
	if diff := cmp.Diff([]int{1, 3}, res.Outcome.ImportedEpisodes); diff != "" {
		t.Fatalf("imported mismatch (-want +got):\n%s", diff)
	}

	out, _, err = runCLI(t, []string{"history", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if !strings.Contains(out, res.JobID[:8]) || !strings.Contains(out, "success") {
		t.Fatalf("history list missing run:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"history", "show", res.JobID[:8]}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	for _, want := range []string{"[OK] success (completed)", "1, 3", csvPath} {
		if !strings.Contains(out, want) {
			t.Fatalf("history show missing %q:\n%s", want, out)
		}
	}

	out, _, err = runCLI(t, []string{"--json", "history", "list", "--failed"}, env.configPath)
	if err != nil {
		t.Fatalf("history list --failed: %v", err)
	}
	var runs []history.Run
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode runs: %v\n%s", err, out)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no failed runs, got %d", len(runs))
	}
}

func TestRunFailureIsReported(t *testing.T) {
	requireShell(t)
	env := setupCLITestEnv(t, testsupport.WithToolScript(`echo "HTTP 500 from catalog" >&2
exit 2`))
	csvPath := env.writeCSV(t)

	out, _, err := runCLI(t, []string{"run", csvPath, "--id", "100"}, env.configPath)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	for _, want := range []string{"[WARN] server_error", "exit code 2", "HTTP 500 from catalog"} {
		if !strings.Contains(out, want) {
			t.Fatalf("run output missing %q:\n%s", want, out)
		}
	}
}

func TestLogsCommandFiltersByJob(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())
	logPath := filepath.Join(env.cfg.Paths.LogDir, "tmdbhelper.log")
	content := `{"ts":"2026-01-02T03:04:05Z","level":"info","msg":"csv prepared","component":"importjob","job_id":"aaaa1111-2222"}
{"ts":"2026-01-02T03:04:06Z","level":"warn","msg":"import failed","component":"importjob","job_id":"bbbb1111-2222"}
`
	if err := os.MkdirAll(env.cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatalf("mkdir logs: %v", err)
	}
	if err := os.WriteFile(logPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	out, _, err := runCLI(t, []string{"logs", "--job", "aaaa"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if !strings.Contains(out, "INFO [importjob] aaaa1111 csv prepared") || strings.Contains(out, "import failed") {
		t.Fatalf("unexpected logs output:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"logs", "--raw", "-n", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("logs --raw: %v", err)
	}
	if strings.TrimSpace(out) != strings.TrimSpace(strings.Split(content, "\n")[1]) {
		t.Fatalf("unexpected raw output: %q (log %s)", out, logPath)
	}
}

func TestHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())
	_, _, err := runCLI(t, []string{"history", "list"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Fatalf("expected disabled error, got %v", err)
	}
}

func TestParseConflictResponse(t *testing.T) {
	tests := []struct {
		in      string
		want    byte
		wantErr bool
	}{
		{"", 0, false},
		{"y", 'y', false},
		{" n ", 'n', false},
		{"yes", 0, true},
		{"\x01", 0, true},
	}
	for _, tt := range tests {
		got, err := parseConflictResponse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseConflictResponse(%q) err=%v, wantErr=%v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("parseConflictResponse(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}
