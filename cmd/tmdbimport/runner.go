package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"tmdbhelper/internal/history"
	"tmdbhelper/internal/importjob"
)

// newRunner builds an importjob.Runner with the CLI logger. When store is
// non-nil finished runs are recorded in it.
func (c *commandContext) newRunner(store *history.Store) (*importjob.Runner, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	opts := []importjob.Option{importjob.WithLogger(logger)}
	if store != nil {
		opts = append(opts, importjob.WithRecorder(store))
	}
	return importjob.NewRunner(cfg, opts...)
}

func resolveCSVPath(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("csv path is required")
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("resolve csv path: %w", err)
	}
	return abs, nil
}
