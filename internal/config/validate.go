package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateImportTool(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateImportTool() error {
	tool := c.ImportTool
	if len(tool.Command) == 0 {
		return errors.New("import_tool.command must name an executable")
	}
	if len(tool.ConflictResponse) != 1 || tool.ConflictResponse[0] < '!' || tool.ConflictResponse[0] > '~' {
		return fmt.Errorf("import_tool.conflict_response must be a single printable ASCII character, got %q", tool.ConflictResponse)
	}
	if !strings.Contains(tool.TargetTemplate, "{id}") {
		return errors.New("import_tool.target_template must contain {id}")
	}
	if tool.TimeoutSeconds <= 0 {
		return errors.New("import_tool.timeout_seconds must be positive")
	}
	if tool.KillGraceSeconds <= 0 {
		return errors.New("import_tool.kill_grace_seconds must be positive")
	}
	if tool.KillGraceSeconds >= tool.TimeoutSeconds {
		return errors.New("import_tool.kill_grace_seconds must be shorter than timeout_seconds")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
