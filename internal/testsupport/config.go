package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"tmdbhelper/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.History.Path = filepath.Join(base, "state", "history.db")
	cfgVal.ImportTool.WorkingDir = filepath.Join(base, "tool")
	cfgVal.ImportTool.Command = []string{"tmdb-import"}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := os.MkdirAll(builder.cfg.ImportTool.WorkingDir, 0o755); err != nil {
		t.Fatalf("mkdir tool dir: %v", err)
	}
	return builder.cfg
}

// WithoutHistory disables the history database.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// WithToolScript writes a /bin/sh script into the tool working directory and
// points import_tool.command at it. The target reference arrives as $1.
func WithToolScript(body string) ConfigOption {
	return func(b *configBuilder) {
		dir := filepath.Join(b.baseDir, "tool")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			b.t.Fatalf("mkdir tool dir: %v", err)
		}
		target := filepath.Join(dir, "tmdb-import.sh")
		if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
			b.t.Fatalf("write tool script: %v", err)
		}
		b.cfg.ImportTool.WorkingDir = dir
		b.cfg.ImportTool.Command = []string{"/bin/sh", target}
	}
}

// WithTimeouts overrides the import timeout and kill grace in seconds.
func WithTimeouts(timeoutSeconds, graceSeconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.ImportTool.TimeoutSeconds = timeoutSeconds
		b.cfg.ImportTool.KillGraceSeconds = graceSeconds
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
