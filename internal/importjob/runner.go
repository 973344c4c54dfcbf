package importjob

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"tmdbhelper/internal/config"
	"tmdbhelper/internal/csvtable"
	"tmdbhelper/internal/episodes"
	"tmdbhelper/internal/fileutil"
	"tmdbhelper/internal/history"
	"tmdbhelper/internal/language"
	"tmdbhelper/internal/logging"
	"tmdbhelper/internal/outcome"
	"tmdbhelper/internal/services"
	"tmdbhelper/internal/services/importtool"
)

const (
	stagePrepare = "prepare"
	stageImport  = "import"
)

// Recorder persists finished runs. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, run history.Run) error
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logging.NewComponentLogger(logger, "importjob")
			r.baseLogger = logger
		}
	}
}

// WithRecorder enables history recording.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// WithLauncher injects the process launcher used for the import tool.
func WithLauncher(l importtool.Launcher) Option {
	return func(r *Runner) {
		r.launcher = l
	}
}

// WithTimerFactory injects the timers used by the import session.
func WithTimerFactory(f importtool.TimerFactory) Option {
	return func(r *Runner) {
		r.timers = f
	}
}

// WithIDGenerator replaces the job ID source.
func WithIDGenerator(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// Runner executes import jobs.
type Runner struct {
	cfg        *config.Config
	logger     *slog.Logger
	baseLogger *slog.Logger
	recorder   Recorder
	launcher   importtool.Launcher
	timers     importtool.TimerFactory
	newID      func() string
	now        func() time.Time
}

// NewRunner constructs a runner for cfg.
func NewRunner(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "importjob", "new runner", "config required", nil)
	}
	r := &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(nil, "importjob"),
		newID:  func() string { return uuid.NewString() },
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Prepare repairs and transforms the CSV at path and writes it back, without
// running the import tool.
func (r *Runner) Prepare(ctx context.Context, path string, req episodes.Request) (Preparation, error) {
	if strings.TrimSpace(path) == "" {
		return Preparation{}, services.Wrap(services.ErrValidation, stagePrepare, "validate", "csv path required", nil)
	}
	lock, err := newCSVLock(r.cfg.Paths.StateDir, path)
	if err != nil {
		return Preparation{}, err
	}
	if err := lock.Acquire(ctx); err != nil {
		return Preparation{}, err
	}
	defer r.release(lock)

	ctx = services.WithStage(ctx, stagePrepare)
	return r.prepare(ctx, path, req, r.now().UTC().Format("20060102T150405"))
}

// prepare rewrites the CSV. When backups are enabled the original file is
// copied first under backupLabel.
func (r *Runner) prepare(ctx context.Context, path string, req episodes.Request, backupLabel string) (Preparation, error) {
	logger := logging.WithContext(ctx, r.logger)

	table, stats, err := csvtable.ReadFile(path)
	if err != nil {
		return Preparation{}, err
	}
	if stats.Lossy() {
		logging.WarnWithContext(logger, "csv rows dropped during repair", "csv_rows_dropped",
			logging.String("csv_path", path),
			logging.Int("rows_dropped", stats.DroppedBuffers),
			logging.Int("lines_dropped", stats.DroppedLines),
			logging.String(logging.FieldErrorHint, "inspect the source CSV for unbalanced quotes or stray line breaks"),
			logging.String(logging.FieldImpact, "dropped rows are missing from the rewritten file"),
		)
	}

	res := episodes.Transform(table, req)
	if len(res.Unresolved) > 0 {
		kinds := make([]string, 0, len(res.Unresolved))
		for _, kind := range res.Unresolved {
			kinds = append(kinds, string(kind))
		}
		logging.WarnWithContext(logger, "csv columns not found", "csv_columns_unresolved",
			logging.String("csv_path", path),
			logging.String("columns", strings.Join(kinds, ",")),
			logging.String(logging.FieldErrorHint, "check the CSV headers"),
			logging.String(logging.FieldImpact, "edits for these columns were skipped"),
		)
	}

	var backup string
	if r.cfg.Transform.Backup {
		if backup, err = fileutil.Backup(path, r.cfg.BackupDir(), backupLabel); err != nil {
			return Preparation{}, services.Wrap(services.ErrTransient, stagePrepare, "backup", path, err)
		}
		logger.Debug("csv backed up", logging.String("backup_path", backup))
	}

	if err := csvtable.WriteFile(path, res.Table); err != nil {
		return Preparation{}, services.Wrap(services.ErrTransient, stagePrepare, "write", path, err)
	}

	prep := newPreparation(path, stats, res)
	prep.BackupPath = backup
	logger.Info("csv prepared",
		logging.String("csv_path", path),
		logging.Any("episodes_deleted", prep.DeletedEpisodes),
		logging.Int("rows_retained", prep.RowsRetained),
		logging.Int("rows_removed", prep.RowsRemoved),
		logging.Int("rows_dropped", stats.DroppedBuffers),
	)
	return prep, nil
}

// Run prepares the CSV and runs the import tool. The returned error is
// non-nil only when the job could not start: invalid request, missing or
// empty CSV, or lock failure. Tool failures are reported in Result.Outcome.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.CSVPath) == "" {
		return Result{}, services.Wrap(services.ErrValidation, stagePrepare, "validate", "csv path required", nil)
	}
	lang, err := language.Normalize(req.Target.Language)
	if err != nil {
		return Result{}, services.Wrap(services.ErrValidation, "target", "validate", "language", err)
	}
	req.Target.Language = lang
	if req.Target.Language == "" {
		req.Target.Language = r.cfg.ImportTool.Language
	}
	target, err := BuildTargetReference(r.cfg.ImportTool.TargetTemplate, req.Target)
	if err != nil {
		return Result{}, err
	}

	jobID := r.newID()
	ctx = services.WithJobID(ctx, jobID)
	result := Result{
		JobID:     jobID,
		Target:    target,
		Language:  req.Target.Language,
		DryRun:    req.DryRun,
		StartedAt: r.now(),
	}

	lock, err := newCSVLock(r.cfg.Paths.StateDir, req.CSVPath)
	if err != nil {
		return Result{}, err
	}
	if err := lock.Acquire(ctx); err != nil {
		return Result{}, err
	}
	defer r.release(lock)

	prep, err := r.prepare(services.WithStage(ctx, stagePrepare), req.CSVPath, req.Transform, shortJobID(jobID))
	if err != nil {
		return Result{}, err
	}
	result.Prepared = prep

	if req.DryRun {
		result.FinishedAt = r.now()
		logging.WithContext(ctx, r.logger).Info("dry run; import tool not started", logging.String("target", target))
		return result, nil
	}

	importCtx := services.WithStage(ctx, stageImport)
	res := r.runTool(importCtx, req, target)
	out := outcome.Classify(res, outcome.WithExcerptRunes(r.cfg.ImportTool.ExcerptRunes))
	result.Outcome = &out
	result.FinishedAt = r.now()

	logger := logging.WithContext(importCtx, r.logger)
	if out.Success {
		logger.Info("import succeeded",
			logging.String("classification", string(out.Classification)),
			logging.Any("imported_episodes", out.ImportedEpisodes),
		)
	} else {
		logging.WarnWithContext(logger, "import failed", "import_failed",
			logging.String("classification", string(out.Classification)),
			logging.String("state", out.State.String()),
			logging.Int("exit_code", out.ExitCode),
			logging.String(logging.FieldErrorKind, out.ErrorKind),
			logging.String(logging.FieldErrorHint, hintFor(out.Classification)),
			logging.String(logging.FieldImpact, "episodes may be partially imported"),
		)
	}

	r.record(importCtx, req, result)
	return result, nil
}

func (r *Runner) runTool(ctx context.Context, req Request, target string) importtool.Result {
	response := r.cfg.ConflictResponseByte()
	if req.ConflictResponse != 0 {
		response = req.ConflictResponse
	}
	opts := []importtool.Option{
		importtool.WithTimeout(r.cfg.ImportTimeout()),
		importtool.WithKillGrace(r.cfg.KillGrace()),
		importtool.WithConflictResponse(response),
		importtool.WithLogger(r.baseLogger),
		importtool.WithLauncher(r.launcher),
		importtool.WithTimerFactory(r.timers),
	}
	session, err := importtool.New(importtool.Spec{
		Command: r.cfg.ImportTool.Command,
		Target:  target,
		Dir:     r.cfg.ImportTool.WorkingDir,
	}, opts...)
	if err != nil {
		return importtool.Result{State: importtool.StateFailed, ExitCode: -1, Err: fmt.Errorf("%w: %w", services.ErrProcessSpawn, err)}
	}
	return session.Run(ctx)
}

func (r *Runner) record(ctx context.Context, req Request, result Result) {
	if r.recorder == nil || result.Outcome == nil {
		return
	}
	out := result.Outcome
	run := history.Run{
		ID:               result.JobID,
		CSVPath:          result.Prepared.CSVPath,
		Target:           result.Target,
		ExternalID:       req.Target.ExternalID,
		Season:           req.Target.Season,
		Language:         req.Target.Language,
		State:            out.State.String(),
		Classification:   string(out.Classification),
		Success:          out.Success,
		ExitCode:         out.ExitCode,
		Signal:           out.Signal,
		ErrorKind:        out.ErrorKind,
		ErrorMessage:     out.Error,
		ImportedEpisodes: out.ImportedEpisodes,
		DeletedEpisodes:  result.Prepared.DeletedEpisodes,
		RowsRetained:     result.Prepared.RowsRetained,
		RowsRemoved:      result.Prepared.RowsRemoved,
		RowsDropped:      result.Prepared.Parse.DroppedBuffers,
		PromptsAnswered:  out.PromptsAnswered,
		OutputExcerpt:    out.RawOutputExcerpt,
		StartedAt:        result.StartedAt,
		FinishedAt:       result.FinishedAt,
	}
	if err := r.recorder.Record(context.WithoutCancel(ctx), run); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "import history not recorded", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check history.path permissions"),
			logging.String(logging.FieldImpact, "this run will not appear in history"),
		)
	}
}

func (r *Runner) release(lock *csvLock) {
	if err := lock.Release(); err != nil {
		r.logger.Debug("release csv lock failed", logging.Error(err))
	}
}

func shortJobID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func hintFor(class outcome.Classification) string {
	switch class {
	case outcome.SpawnFailure:
		return "check import_tool.command and import_tool.working_dir"
	case outcome.ProcessTimeout:
		return "raise import_tool.timeout_seconds or retry later"
	case outcome.ServerError:
		return "the catalog returned HTTP 500; retry later"
	case outcome.ConnectionError, outcome.Timeout:
		return "check network connectivity and retry"
	case outcome.UserInterrupted, outcome.Killed:
		return "rerun the import when ready"
	default:
		return "inspect the output excerpt"
	}
}
