// Package store bulk loads shaped records into a SQLite document table.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"osmaudit/internal/models"
	"osmaudit/pkg/metadata"
)

// Store errors.
var (
	ErrRunIDRequired  = errors.New("run id is required")
	ErrRecordNotFound = errors.New("record not found")
)

// DB is a document store backed by one SQLite file.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS records (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  run_id TEXT NOT NULL,
  element_type TEXT NOT NULL,
  element_id TEXT,
  doc TEXT NOT NULL,
  loaded_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id);
CREATE INDEX IF NOT EXISTS idx_records_element ON records(element_type, element_id);

CREATE TABLE IF NOT EXISTS runs (
  run_id TEXT PRIMARY KEY,
  input TEXT NOT NULL,
  output TEXT NOT NULL,
  checksum TEXT,
  records INTEGER NOT NULL DEFAULT 0,
  skipped INTEGER NOT NULL DEFAULT 0,
  started_at TEXT NOT NULL,
  finished_at TEXT
);
`

	_, err := d.conn.Exec(schema)

	return err
}

// InsertRecords stores records under runID in a single transaction.
func (d *DB) InsertRecords(runID string, records []models.ShapedRecord) error {
	if runID == "" {
		return ErrRunIDRequired
	}

	if len(records) == 0 {
		return nil
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO records (run_id, element_type, element_id, doc) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		doc, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record %s: %w", rec.ID(), err)
		}

		if _, err := stmt.Exec(runID, rec.Type(), nullable(rec.ID()), string(doc)); err != nil {
			return fmt.Errorf("failed to insert record %s: %w", rec.ID(), err)
		}
	}

	return tx.Commit()
}

// RecordRun inserts or replaces the row describing a run.
func (d *DB) RecordRun(m *metadata.Metadata) error {
	if m.RunID == "" {
		return ErrRunIDRequired
	}

	var finished any
	if !m.FinishedAt.IsZero() {
		finished = m.FinishedAt.UTC().Format(time.RFC3339)
	}

	_, err := d.conn.Exec(`
INSERT INTO runs (run_id, input, output, checksum, records, skipped, started_at, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(run_id) DO UPDATE SET
  input=excluded.input,
  output=excluded.output,
  checksum=excluded.checksum,
  records=excluded.records,
  skipped=excluded.skipped,
  started_at=excluded.started_at,
  finished_at=excluded.finished_at
`, m.RunID, m.Input, m.Output, m.Checksum, m.Records, m.Skipped, m.StartedAt.UTC().Format(time.RFC3339), finished)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return nil
}

// CountRecords returns how many records were loaded for runID.
func (d *DB) CountRecords(runID string) (int, error) {
	var n int
	if err := d.conn.QueryRow(`SELECT COUNT(*) FROM records WHERE run_id = ?`, runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}

	return n, nil
}

// DeleteRun removes a run and its records, so a file can be loaded again.
func (d *DB) DeleteRun(runID string) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM records WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("failed to delete records: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM runs WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	return tx.Commit()
}

// FindRecord returns the most recently loaded document for an element, or
// ErrRecordNotFound.
func (d *DB) FindRecord(elementType, elementID string) (models.ShapedRecord, error) {
	var doc string

	err := d.conn.QueryRow(`
SELECT doc FROM records
WHERE element_type = ? AND element_id = ?
ORDER BY id DESC LIMIT 1`, elementType, elementID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %s", ErrRecordNotFound, elementType, elementID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find record: %w", err)
	}

	var rec models.ShapedRecord
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}

	return rec, nil
}

// ListRuns returns all recorded runs, newest first.
func (d *DB) ListRuns() ([]metadata.Metadata, error) {
	rows, err := d.conn.Query(`
SELECT run_id, input, output, COALESCE(checksum, ''), records, skipped, started_at, COALESCE(finished_at, '')
FROM runs ORDER BY started_at DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []metadata.Metadata

	for rows.Next() {
		var (
			m                 metadata.Metadata
			started, finished string
		)

		if err := rows.Scan(&m.RunID, &m.Input, &m.Output, &m.Checksum, &m.Records, &m.Skipped, &started, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		m.StartedAt, _ = time.Parse(time.RFC3339, started)
		if finished != "" {
			m.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		}

		out = append(out, m)
	}

	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}

	return s
}
