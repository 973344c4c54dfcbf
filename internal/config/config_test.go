package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"tmdbhelper/internal/config"
)

func TestLoadDefaultConfigWhenMissing(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("TMDB_IMPORT_DIR", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatalf("expected exists=false for default config")
	}
	wantPath := filepath.Join(tempHome, ".config", "tmdbhelper", "config.toml")
	if resolved != wantPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, wantPath)
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, ".local", "share", "tmdbhelper") {
		t.Fatalf("unexpected state dir: %q", cfg.Paths.StateDir)
	}
	if cfg.History.Path != filepath.Join(cfg.Paths.StateDir, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.History.Path)
	}
	if cfg.ImportTool.WorkingDir != filepath.Join(tempHome, "TMDB-Import") {
		t.Fatalf("unexpected working dir: %q", cfg.ImportTool.WorkingDir)
	}
	if cfg.ImportTimeout() != 10*time.Minute {
		t.Fatalf("unexpected timeout: %s", cfg.ImportTimeout())
	}
	if cfg.KillGrace() != 5*time.Second {
		t.Fatalf("unexpected kill grace: %s", cfg.KillGrace())
	}
	if cfg.ConflictResponseByte() != 'w' {
		t.Fatalf("unexpected conflict response: %q", cfg.ConflictResponseByte())
	}
	if cfg.ImportTool.ExcerptRunes != 2000 {
		t.Fatalf("unexpected excerpt runes: %d", cfg.ImportTool.ExcerptRunes)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if !cfg.Transform.Backup || cfg.BackupDir() != filepath.Join(cfg.Paths.StateDir, "backups") {
		t.Fatalf("unexpected backup defaults: backup=%v dir=%q", cfg.Transform.Backup, cfg.BackupDir())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("TMDB_IMPORT_DIR", "")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := map[string]any{
		"paths": map[string]any{
			"state_dir": "~/state",
		},
		"import_tool": map[string]any{
			"command":           []string{" python3 ", "", "-m", "tmdb_import"},
			"working_dir":       "~/tools/TMDB-Import",
			"conflict_response": "y",
			"language":          "zh_tw",
			"timeout_seconds":   120,
		},
		"transform": map[string]any{
			"platform_adjustment": true,
			"title_marker":        " (",
		},
		"logging": map[string]any{
			"format": "JSON",
			"level":  "Debug",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: exists=%v resolved=%q", exists, resolved)
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, "state") {
		t.Fatalf("unexpected state dir: %q", cfg.Paths.StateDir)
	}
	if got := strings.Join(cfg.ImportTool.Command, " "); got != "python3 -m tmdb_import" {
		t.Fatalf("unexpected command: %q", got)
	}
	if cfg.ImportTool.WorkingDir != filepath.Join(tempHome, "tools", "TMDB-Import") {
		t.Fatalf("unexpected working dir: %q", cfg.ImportTool.WorkingDir)
	}
	if cfg.ImportTool.Language != "zh-TW" {
		t.Fatalf("unexpected language: %q", cfg.ImportTool.Language)
	}
	if cfg.ConflictResponseByte() != 'y' {
		t.Fatalf("unexpected conflict response: %q", cfg.ConflictResponseByte())
	}
	if cfg.ImportTimeout() != 2*time.Minute {
		t.Fatalf("unexpected timeout: %s", cfg.ImportTimeout())
	}
	if !cfg.Transform.PlatformAdjustment {
		t.Fatal("expected platform adjustment enabled")
	}
	if cfg.Transform.TitleMarker != "(" {
		t.Fatalf("expected trimmed marker, got %q", cfg.Transform.TitleMarker)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadWorkingDirFromEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	envDir := filepath.Join(t.TempDir(), "checkout")
	t.Setenv("TMDB_IMPORT_DIR", envDir)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ImportTool.WorkingDir != envDir {
		t.Fatalf("expected env working dir %q, got %q", envDir, cfg.ImportTool.WorkingDir)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[import_tool]\nbogus = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "empty command",
			mutate: func(c *config.Config) { c.ImportTool.Command = nil },
			want:   "import_tool.command",
		},
		{
			name:   "multi-char response",
			mutate: func(c *config.Config) { c.ImportTool.ConflictResponse = "yes" },
			want:   "conflict_response",
		},
		{
			name:   "template without id",
			mutate: func(c *config.Config) { c.ImportTool.TargetTemplate = "https://example.com/tv" },
			want:   "{id}",
		},
		{
			name:   "grace exceeds timeout",
			mutate: func(c *config.Config) { c.ImportTool.KillGraceSeconds = 700 },
			want:   "kill_grace_seconds",
		},
		{
			name:   "bad level",
			mutate: func(c *config.Config) { c.Logging.Level = "verbose" },
			want:   "logging.level",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TMDB_IMPORT_DIR", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.ImportTool.TargetTemplate != config.Default().ImportTool.TargetTemplate {
		t.Fatalf("sample template mismatch: %q", cfg.ImportTool.TargetTemplate)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
}
