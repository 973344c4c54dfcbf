package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// ImportTool contains configuration for the external import command.
type ImportTool struct {
	// Command is the executable and any leading arguments; the target
	// reference is appended as the final argument.
	Command          []string `toml:"command"`
	WorkingDir       string   `toml:"working_dir"`
	TargetTemplate   string   `toml:"target_template"`
	Language         string   `toml:"language"`
	ConflictResponse string   `toml:"conflict_response"`
	TimeoutSeconds   int      `toml:"timeout_seconds"`
	KillGraceSeconds int      `toml:"kill_grace_seconds"`
	ExcerptRunes     int      `toml:"excerpt_runes"`
}

// Transform contains defaults applied to every CSV transform request.
type Transform struct {
	PlatformAdjustment bool     `toml:"platform_adjustment"`
	TitleMarker        string   `toml:"title_marker"`
	BlankColumns       []string `toml:"blank_columns"`
	RemoveColumns      []string `toml:"remove_columns"`

	// Backup copies the original CSV into <state_dir>/backups before it is
	// rewritten.
	Backup bool `toml:"backup"`
}

// History contains configuration for the import history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values.
//
// Configuration sections by subsystem:
//   - Paths: state and log directories
//   - ImportTool: external import command, target reference, prompt and timeout handling
//   - Transform: default CSV edits
//   - History: import history database
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	ImportTool ImportTool `toml:"import_tool"`
	Transform  Transform  `toml:"transform"`
	History    History    `toml:"history"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = defaultConfigPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(expanded); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return expanded, true, nil
}

// BackupDir is where original CSVs are copied before they are rewritten.
func (c *Config) BackupDir() string {
	return filepath.Join(c.Paths.StateDir, backupDirName)
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ImportTimeout returns the wall-clock budget for one import run.
func (c *Config) ImportTimeout() time.Duration {
	return time.Duration(c.ImportTool.TimeoutSeconds) * time.Second
}

// KillGrace returns how long to wait after a graceful terminate before killing.
func (c *Config) KillGrace() time.Duration {
	return time.Duration(c.ImportTool.KillGraceSeconds) * time.Second
}

// ConflictResponseByte returns the character written to the tool on prompts.
func (c *Config) ConflictResponseByte() byte {
	if c.ImportTool.ConflictResponse == "" {
		return defaultConflictResponse[0]
	}
	return c.ImportTool.ConflictResponse[0]
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
