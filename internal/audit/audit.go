// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package audit keeps a SQLite ledger of pipeline runs. Rows carry
// pseudonymized student tokens only — raw identifiers never reach the
// ledger — so the trail is safe to retain past the artifact purge.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store manages the run-ledger SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path, creating the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			processed INTEGER NOT NULL DEFAULT 0,
			rendered INTEGER NOT NULL DEFAULT 0,
			delivered INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			pseudonym TEXT NOT NULL,
			report_path TEXT,
			analyzed INTEGER NOT NULL,
			rendered INTEGER NOT NULL,
			delivered INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_run_id ON records(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordResult is the per-student outcome written to the ledger.
type RecordResult struct {
	Pseudonym  string
	ReportPath string
	Analyzed   bool
	Rendered   bool
	Delivered  bool
}

// Summary holds the counts of one pipeline run.
type Summary struct {
	Processed int
	Rendered  int
	Delivered int
	Failed    int
}

// Total returns the number of records processed.
func (s Summary) Total() int {
	return s.Processed + s.Failed
}

// BeginRun opens a new run row and returns its id.
func (s *Store) BeginRun(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at) VALUES (?)`,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	return res.LastInsertId()
}

// RecordResult appends one student outcome to a run.
func (s *Store) RecordResult(ctx context.Context, runID int64, r RecordResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (run_id, pseudonym, report_path, analyzed, rendered, delivered, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, r.Pseudonym, r.ReportPath, r.Analyzed, r.Rendered, r.Delivered,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting record result: %w", err)
	}
	return nil
}

// FinishRun closes a run row with its summary counts.
func (s *Store) FinishRun(ctx context.Context, runID int64, sum Summary) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, processed = ?, rendered = ?, delivered = ?, failed = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		sum.Processed, sum.Rendered, sum.Delivered, sum.Failed, runID)
	if err != nil {
		return fmt.Errorf("finishing run %d: %w", runID, err)
	}
	return nil
}

// RunResults returns the recorded outcomes of a run in insertion order.
func (s *Store) RunResults(ctx context.Context, runID int64) ([]RecordResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pseudonym, report_path, analyzed, rendered, delivered
		 FROM records WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run %d: %w", runID, err)
	}
	defer rows.Close()

	var out []RecordResult
	for rows.Next() {
		var r RecordResult
		if err := rows.Scan(&r.Pseudonym, &r.ReportPath, &r.Analyzed, &r.Rendered, &r.Delivered); err != nil {
			return nil, fmt.Errorf("scanning record result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
