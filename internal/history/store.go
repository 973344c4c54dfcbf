package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"tmdbhelper/internal/config"
	"tmdbhelper/internal/services"
)

// Store manages import history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at cfg.History.Path
// and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "history", "open", "config required", nil)
	}
	dbPath := strings.TrimSpace(cfg.History.Path)
	if dbPath == "" {
		return nil, services.Wrap(services.ErrConfiguration, "history", "open", "history.path is empty", nil)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const runColumns = `id, csv_path, target, external_id, season, language, state, classification,
    success, exit_code, signal, error_kind, error_message, imported_episodes_json,
    deleted_episodes_json, rows_retained, rows_removed, rows_dropped, prompts_answered,
    output_excerpt, started_at, finished_at`

// Record inserts a run. The ID must be set by the caller.
func (s *Store) Record(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return services.Wrap(services.ErrValidation, "history", "record", "run id required", nil)
	}
	imported, err := json.Marshal(nonNil(run.ImportedEpisodes))
	if err != nil {
		return fmt.Errorf("marshal imported episodes: %w", err)
	}
	deleted, err := json.Marshal(nonNil(run.DeletedEpisodes))
	if err != nil {
		return fmt.Errorf("marshal deleted episodes: %w", err)
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO import_runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CSVPath,
		run.Target,
		run.ExternalID,
		run.Season,
		nullableString(run.Language),
		run.State,
		run.Classification,
		boolToInt(run.Success),
		run.ExitCode,
		nullableString(run.Signal),
		nullableString(run.ErrorKind),
		nullableString(run.ErrorMessage),
		string(imported),
		string(deleted),
		run.RowsRetained,
		run.RowsRemoved,
		run.RowsDropped,
		run.PromptsAnswered,
		nullableString(run.OutputExcerpt),
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("insert import run: %w", err)
	}
	return nil
}

// Get fetches a run by ID or by a unique ID prefix.
func (s *Store) Get(ctx context.Context, idOrPrefix string) (*Run, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, services.Wrap(services.ErrValidation, "history", "get", "run id required", nil)
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+runColumns+` FROM import_runs WHERE id = ? OR id LIKE ? ORDER BY id = ? DESC LIMIT 2`,
		idOrPrefix, stripLikeWildcards(idOrPrefix)+"%", idOrPrefix,
	)
	if err != nil {
		return nil, fmt.Errorf("get import run: %w", err)
	}
	defer rows.Close()

	runs, err := scanRuns(rows)
	if err != nil {
		return nil, fmt.Errorf("get import run: %w", err)
	}
	switch {
	case len(runs) == 0:
		return nil, services.Wrap(services.ErrNotFound, "history", "get", fmt.Sprintf("no run matches %q", idOrPrefix), nil)
	case len(runs) > 1 && runs[0].ID != idOrPrefix:
		return nil, services.Wrap(services.ErrValidation, "history", "get", fmt.Sprintf("id prefix %q is ambiguous", idOrPrefix), nil)
	}
	return &runs[0], nil
}

// List returns runs newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Run, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var (
		where []string
		args  []any
	)
	if opts.CSVPath != "" {
		where = append(where, "csv_path = ?")
		args = append(args, opts.CSVPath)
	}
	if opts.Classification != "" {
		where = append(where, "classification = ?")
		args = append(args, opts.Classification)
	}
	if opts.FailedOnly {
		where = append(where, "success = 0")
	}

	query := `SELECT ` + runColumns + ` FROM import_runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY started_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}
	defer rows.Close()

	runs, err := scanRuns(rows)
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}
	return runs, nil
}

// Prune deletes runs that started before cutoff and reports how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM import_runs WHERE started_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune import runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var run Run
		var language, signal, errKind, errMsg, excerpt sql.NullString
		var imported, deleted, started, finished string
		var success int
		if err := rows.Scan(
			&run.ID, &run.CSVPath, &run.Target, &run.ExternalID, &run.Season, &language,
			&run.State, &run.Classification, &success, &run.ExitCode, &signal, &errKind,
			&errMsg, &imported, &deleted, &run.RowsRetained, &run.RowsRemoved,
			&run.RowsDropped, &run.PromptsAnswered, &excerpt, &started, &finished,
		); err != nil {
			return nil, err
		}
		run.Language = language.String
		run.Signal = signal.String
		run.ErrorKind = errKind.String
		run.ErrorMessage = errMsg.String
		run.OutputExcerpt = excerpt.String
		run.Success = success != 0
		if err := json.Unmarshal([]byte(imported), &run.ImportedEpisodes); err != nil {
			return nil, fmt.Errorf("decode imported episodes for %s: %w", run.ID, err)
		}
		if err := json.Unmarshal([]byte(deleted), &run.DeletedEpisodes); err != nil {
			return nil, fmt.Errorf("decode deleted episodes for %s: %w", run.ID, err)
		}
		var err error
		if run.StartedAt, err = parseTime(started); err != nil {
			return nil, fmt.Errorf("parse started_at for %s: %w", run.ID, err)
		}
		if run.FinishedAt, err = parseTime(finished); err != nil {
			return nil, fmt.Errorf("parse finished_at for %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func nonNil(values []int) []int {
	if values == nil {
		return []int{}
	}
	return values
}

// Timestamps are stored with a fixed-width layout so string order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if t, err := time.Parse(timeLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

func stripLikeWildcards(value string) string {
	return strings.NewReplacer("%", "", "_", "").Replace(value)
}
