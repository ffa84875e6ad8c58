package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/coverflat/internal/model"
)

// FileName is the name of the database file inside the database directory.
const FileName = "coverflat.db"

// timestampLayout stores UTC times with a fixed width so that text
// ordering matches time ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// HistoryDB provides SQLite-based storage for recorded coverage runs.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
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

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// Otherwise a missing database yields ErrDatabaseNotFound.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a new file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the path of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per recorded run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_path TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		line_rate TEXT NOT NULL,
		class_count INTEGER NOT NULL,
		digest TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_report ON runs(report_path);

	-- Per-file coverage of a run, in report order
	CREATE TABLE IF NOT EXISTS run_files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		filename TEXT NOT NULL,
		line_rate TEXT NOT NULL,
		lines_covered INTEGER NOT NULL DEFAULT 0,
		lines_total INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_run_files_run ON run_files(run_id);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a run and its files in one transaction and returns the
// new run ID.
func (hdb *HistoryDB) SaveRun(ctx context.Context, run *model.Run) (int64, error) {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() //nolint:errcheck // no-op after commit

	ts := run.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	res, err := tx.ExecContext(ctx, `
	INSERT INTO runs (report_path, timestamp, line_rate, class_count, digest)
	VALUES (?, ?, ?, ?, ?)
	`,
		run.ReportPath,
		ts.UTC().Format(timestampLayout),
		run.LineRate,
		run.ClassCount,
		run.Digest,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	for i, f := range run.Files {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO run_files (run_id, position, filename, line_rate, lines_covered, lines_total)
		VALUES (?, ?, ?, ?, ?, ?)
		`, id, i, f.Filename, f.LineRate, f.LinesCovered, f.LinesTotal)
		if err != nil {
			return 0, fmt.Errorf("failed to save file coverage: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return id, nil
}

// GetHistory returns the runs of reportPath, newest first, with their
// files. An empty reportPath returns runs of all reports. A limit of zero
// or less returns every run.
func (hdb *HistoryDB) GetHistory(ctx context.Context, reportPath string, limit int) ([]*model.Run, error) {
	query := `
	SELECT id, report_path, timestamp, line_rate, class_count, digest
	FROM runs
	WHERE (? = '' OR report_path = ?)
	ORDER BY id DESC
	LIMIT ?
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := hdb.db.QueryContext(ctx, query, reportPath, reportPath, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	runs := make([]*model.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	_ = rows.Close()

	// Files are loaded after the cursor is closed; the pool has one connection.
	for _, run := range runs {
		if run.Files, err = hdb.getFiles(ctx, run.ID); err != nil {
			return nil, err
		}
	}

	return runs, nil
}

// GetRun retrieves a run by its ID. It returns nil, nil when no run has
// that ID.
func (hdb *HistoryDB) GetRun(ctx context.Context, id int64) (*model.Run, error) {
	row := hdb.db.QueryRowContext(ctx, `
	SELECT id, report_path, timestamp, line_rate, class_count, digest
	FROM runs
	WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if run.Files, err = hdb.getFiles(ctx, run.ID); err != nil {
		return nil, err
	}
	return run, nil
}

// ReportStats summarizes the recorded runs of one report.
type ReportStats struct {
	// ReportPath is the report as given on the command line.
	ReportPath string `json:"report_path"`

	// RunCount is the number of recorded runs.
	RunCount int `json:"run_count"`

	// LastRun is when the newest run was recorded.
	LastRun time.Time `json:"last_run"`
}

// ListReports returns every report path that has history, sorted by path.
func (hdb *HistoryDB) ListReports(ctx context.Context) ([]ReportStats, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT report_path, COUNT(*), MAX(timestamp)
	FROM runs
	GROUP BY report_path
	ORDER BY report_path
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	stats := make([]ReportStats, 0)
	for rows.Next() {
		var s ReportStats
		var last string
		if err := rows.Scan(&s.ReportPath, &s.RunCount, &last); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		s.LastRun = parseTimestamp(last)
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// getFiles loads the files of a run in report order.
func (hdb *HistoryDB) getFiles(ctx context.Context, runID int64) ([]model.FileCoverage, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT filename, line_rate, lines_covered, lines_total
	FROM run_files
	WHERE run_id = ?
	ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run files: %w", err)
	}
	defer rows.Close()

	var files []model.FileCoverage
	for rows.Next() {
		var f model.FileCoverage
		if err := rows.Scan(&f.Filename, &f.LineRate, &f.LinesCovered, &f.LinesTotal); err != nil {
			return nil, fmt.Errorf("failed to scan run file: %w", err)
		}
		files = append(files, f)
	}

	return files, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun reads one runs row. sql.ErrNoRows is returned unwrapped.
func scanRun(row rowScanner) (*model.Run, error) {
	var run model.Run
	var timestamp string
	var digest sql.NullString

	err := row.Scan(&run.ID, &run.ReportPath, &timestamp, &run.LineRate, &run.ClassCount, &digest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Timestamp = parseTimestamp(timestamp)
	run.Digest = digest.String
	return &run, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
