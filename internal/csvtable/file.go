package csvtable

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"tmdbhelper/internal/fileutil"
	"tmdbhelper/internal/services"
)

// ReadFile loads and parses a CSV file. A missing file or one with no content
// is a hard error; malformed rows are not.
func ReadFile(path string) (Table, ParseStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Table{}, ParseStats{}, services.Wrap(services.ErrNotFound, "csv", "read", path, fmt.Errorf("%w: %w", services.ErrFileNotFound, err))
		}
		return Table{}, ParseStats{}, fmt.Errorf("read csv %s: %w", path, err)
	}
	text := string(data)
	if strings.TrimSpace(strings.TrimPrefix(text, "\ufeff")) == "" {
		return Table{}, ParseStats{}, services.Wrap(services.ErrValidation, "csv", "read", path, services.ErrEmptyFile)
	}
	table, stats := Parse(text)
	return table, stats, nil
}

// WriteFile serializes the table and replaces path atomically, keeping the
// existing file mode when there is one.
func WriteFile(path string, t Table) error {
	if err := fileutil.WriteFileAtomic(path, []byte(Serialize(t)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
