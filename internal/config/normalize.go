package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tmdbhelper/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeImportTool(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeTransform()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeImportTool() error {
	tool := &c.ImportTool

	command := make([]string, 0, len(tool.Command))
	for _, part := range tool.Command {
		if part = strings.TrimSpace(part); part != "" {
			command = append(command, part)
		}
	}
	tool.Command = command

	if value, ok := os.LookupEnv("TMDB_IMPORT_DIR"); ok && strings.TrimSpace(value) != "" {
		tool.WorkingDir = value
	}
	var err error
	if tool.WorkingDir, err = expandPath(strings.TrimSpace(tool.WorkingDir)); err != nil {
		return fmt.Errorf("import_tool.working_dir: %w", err)
	}

	tool.TargetTemplate = strings.TrimSpace(tool.TargetTemplate)
	if tool.TargetTemplate == "" {
		tool.TargetTemplate = defaultTargetTemplate
	}
	if tool.Language, err = language.Normalize(tool.Language); err != nil {
		return fmt.Errorf("import_tool.language: %w", err)
	}
	if tool.Language == "" {
		tool.Language = defaultLanguage
	}
	tool.ConflictResponse = strings.TrimSpace(tool.ConflictResponse)
	if tool.ConflictResponse == "" {
		tool.ConflictResponse = defaultConflictResponse
	}
	if tool.TimeoutSeconds <= 0 {
		tool.TimeoutSeconds = defaultTimeoutSeconds
	}
	if tool.KillGraceSeconds <= 0 {
		tool.KillGraceSeconds = defaultKillGraceSeconds
	}
	if tool.ExcerptRunes <= 0 {
		tool.ExcerptRunes = defaultExcerptRunes
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = filepath.Join(c.Paths.StateDir, defaultHistoryFile)
	}
	var err error
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeTransform() {
	c.Transform.TitleMarker = strings.TrimSpace(c.Transform.TitleMarker)
	c.Transform.BlankColumns = trimList(c.Transform.BlankColumns)
	c.Transform.RemoveColumns = trimList(c.Transform.RemoveColumns)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
