package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import for side-effects only
)

// Run is one invocation of an operation. Only metadata is kept, never the
// records themselves.
type Run struct {
	ID           string
	Operation    string
	Paths        []string
	RecordCount  int
	Output       string
	Status       string
	ErrorKind    string
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
}

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Connect opens a connection to the SQLite database and ensures the schema exists.
// It automatically applies recommended settings for concurrency (WAL mode).
func Connect(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Use robust connection settings to prevent "database locked" errors
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL", dbPath)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

// createSchema is private as it's only called by Connect.
func createSchema(db *sql.DB) error {
	runsTable := `
	CREATE TABLE IF NOT EXISTS runs (
	  id TEXT PRIMARY KEY,
	  operation TEXT NOT NULL,
	  paths TEXT NOT NULL,
	  record_count INTEGER DEFAULT 0,
	  output TEXT,
	  status TEXT NOT NULL,
	  error_kind TEXT,
	  error_message TEXT,
	  started_at TIMESTAMP NOT NULL,
	  finished_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`
	_, err := db.Exec(runsTable)
	return err
}

// History records runs in a SQLite database.
type History struct {
	db *sql.DB
}

// NewHistory wraps an open database.
func NewHistory(db *sql.DB) *History {
	return &History{db: db}
}

// SaveRun inserts one run.
func (h *History) SaveRun(ctx context.Context, r Run) error {
	_, err := h.db.ExecContext(ctx, `
	INSERT INTO runs (
	  id, operation, paths, record_count, output, status, error_kind, error_message, started_at, finished_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.Operation,
		strings.Join(r.Paths, "\n"),
		r.RecordCount,
		sql.NullString{String: r.Output, Valid: r.Output != ""},
		r.Status,
		sql.NullString{String: r.ErrorKind, Valid: r.ErrorKind != ""},
		sql.NullString{String: r.ErrorMessage, Valid: r.ErrorMessage != ""},
		r.StartedAt.UTC(),
		r.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", r.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 means all.
func (h *History) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, operation, paths, record_count, output, status, error_kind, error_message, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                       Run
			paths                   string
			output, errKind, errMsg sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Operation, &paths, &r.RecordCount, &output, &r.Status, &errKind, &errMsg, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		if paths != "" {
			r.Paths = strings.Split(paths, "\n")
		}
		r.Output = output.String
		r.ErrorKind = errKind.String
		r.ErrorMessage = errMsg.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ClearRuns wipes the entire history.
func (h *History) ClearRuns(ctx context.Context) (int64, error) {
	res, err := h.db.ExecContext(ctx, "DELETE FROM runs")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
