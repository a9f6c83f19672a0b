package database

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

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/storeeda/internal/model"
)

// FileName is the name of the ledger file inside the database directory.
const FileName = "storeeda.db"

// ErrAmbiguousID is returned by GetRun when an ID prefix matches more than
// one run.
var ErrAmbiguousID = errors.New("run ID prefix matches more than one run")

// RunDB stores report runs in a single SQLite file.
type RunDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the ledger in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned and nothing is created.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// Path returns the path of the database file.
func (rdb *RunDB) Path() string {
	return rdb.dbPath
}

func (rdb *RunDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		fingerprint TEXT NOT NULL DEFAULT '',
		record_count INTEGER NOT NULL DEFAULT 0,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		steps TEXT NOT NULL DEFAULT '[]',
		warnings TEXT NOT NULL DEFAULT '[]',
		outputs TEXT NOT NULL DEFAULT '[]',
		spend_mode TEXT NOT NULL DEFAULT 'total',
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// Run is one ledger entry.
type Run struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	RecordCount int       `json:"record_count"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`

	// Steps lists the steps that completed, in order.
	Steps []string `json:"steps"`

	// Warnings lists the steps that had nothing to plot.
	Warnings []string `json:"warnings,omitempty"`

	// Outputs lists the report and chart files written.
	Outputs []string `json:"outputs,omitempty"`

	SpendMode string `json:"spend_mode"`
	Error     string `json:"error,omitempty"`
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// NewRun builds a ledger entry from a finished report. finishedAt is
// normally time.Now().
func NewRun(report *model.Report, outputs []string, finishedAt time.Time) *Run {
	warnings := make([]string, 0, len(report.Warnings))
	for _, w := range report.Warnings {
		warnings = append(warnings, w.Step)
	}
	return &Run{
		Source:      report.Source,
		Fingerprint: report.Fingerprint,
		RecordCount: report.RecordCount,
		StartedAt:   report.GeneratedAt,
		FinishedAt:  finishedAt,
		Steps:       append([]string(nil), report.PerformedSteps...),
		Warnings:    warnings,
		Outputs:     append([]string(nil), outputs...),
		SpendMode:   report.SpendMode.String(),
		Error:       report.ErrorMessage,
	}
}

// timeLayout sorts lexically in the same order as the times it encodes.
const timeLayout = "2006-01-02 15:04:05.000000"

// SaveRun inserts run. An empty ID is replaced by a new UUID, which is
// written back to run.
func (rdb *RunDB) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	steps, err := encodeList(run.Steps)
	if err != nil {
		return fmt.Errorf("failed to serialize steps: %w", err)
	}
	warnings, err := encodeList(run.Warnings)
	if err != nil {
		return fmt.Errorf("failed to serialize warnings: %w", err)
	}
	outputs, err := encodeList(run.Outputs)
	if err != nil {
		return fmt.Errorf("failed to serialize outputs: %w", err)
	}

	query := `
	INSERT INTO runs (id, source, fingerprint, record_count, started_at, finished_at,
		steps, warnings, outputs, spend_mode, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = rdb.db.ExecContext(ctx, query,
		run.ID,
		run.Source,
		run.Fingerprint,
		run.RecordCount,
		run.StartedAt.UTC().Format(timeLayout),
		run.FinishedAt.UTC().Format(timeLayout),
		steps,
		warnings,
		outputs,
		run.SpendMode,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

const runColumns = `id, source, fingerprint, record_count, started_at, finished_at,
	steps, warnings, outputs, spend_mode, error`

// GetRun retrieves a run by its ID or by a unique prefix of it. It returns
// nil when nothing matches.
func (rdb *RunDB) GetRun(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}

	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`
	run, err := scanRun(rdb.db.QueryRowContext(ctx, query, id))
	if err != nil || run != nil {
		return run, err
	}

	rows, err := rdb.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE substr(id, 1, ?) = ? LIMIT 2`, len(id), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	runs, err := collectRuns(rows)
	if err != nil {
		return nil, err
	}
	switch len(runs) {
	case 0:
		return nil, nil
	case 1:
		return &runs[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}
}

// ListRuns returns runs newest first. An empty source lists every source;
// a limit of zero or less returns all matching runs.
func (rdb *RunDB) ListRuns(ctx context.Context, source string, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE 1=1`
	args := make([]any, 0, 2)

	if source != "" {
		query += " AND source = ?"
		args = append(args, source)
	}

	query += " ORDER BY started_at DESC, rowid DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return collectRuns(rows)
}

// LatestRun returns the newest run for source, or nil when there is none.
func (rdb *RunDB) LatestRun(ctx context.Context, source string) (*Run, error) {
	runs, err := rdb.ListRuns(ctx, source, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// SourceSummary describes the runs recorded for one dataset.
type SourceSummary struct {
	Source  string    `json:"source"`
	Runs    int       `json:"runs"`
	LastRun time.Time `json:"last_run"`
}

// ListSources returns every dataset in the ledger, sorted by path.
func (rdb *RunDB) ListSources(ctx context.Context) ([]SourceSummary, error) {
	query := `
	SELECT source, COUNT(*), MAX(started_at)
	FROM runs
	GROUP BY source
	ORDER BY source
	`

	rows, err := rdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []SourceSummary
	for rows.Next() {
		var s SourceSummary
		var last string
		if err := rows.Scan(&s.Source, &s.Runs, &last); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		s.LastRun = parseTimestamp(last)
		sources = append(sources, s)
	}

	return sources, rows.Err()
}

// FingerprintChanges reports, for runs ordered newest first, whether each
// run saw a different file than the run before it. The oldest run, and any
// pair where a fingerprint is unknown, is never marked.
func FingerprintChanges(runs []Run) []bool {
	changed := make([]bool, len(runs))
	for i := 0; i+1 < len(runs); i++ {
		cur, prev := runs[i].Fingerprint, runs[i+1].Fingerprint
		changed[i] = cur != "" && prev != "" && cur != prev
	}
	return changed
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var started, finished, steps, warnings, outputs string

	err := row.Scan(
		&run.ID,
		&run.Source,
		&run.Fingerprint,
		&run.RecordCount,
		&started,
		&finished,
		&steps,
		&warnings,
		&outputs,
		&run.SpendMode,
		&run.Error,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.StartedAt = parseTimestamp(started)
	run.FinishedAt = parseTimestamp(finished)
	if run.Steps, err = decodeList(steps); err != nil {
		return nil, fmt.Errorf("failed to parse steps: %w", err)
	}
	if run.Warnings, err = decodeList(warnings); err != nil {
		return nil, fmt.Errorf("failed to parse warnings: %w", err)
	}
	if run.Outputs, err = decodeList(outputs); err != nil {
		return nil, fmt.Errorf("failed to parse outputs: %w", err)
	}

	return &run, nil
}

func collectRuns(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeList(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(s), &values); err != nil {
		return nil, err
	}
	return values, nil
}

// timestampFormats contains the timestamp formats the ledger may hold.
// Rows written by SaveRun use timeLayout; the others cover values written
// by hand or by SQLite's own datetime functions.
var timestampFormats = []string{
	timeLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// parseTimestamp tries every known format and returns the zero time when
// none matches. Stored times are UTC.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
