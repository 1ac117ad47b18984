// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists sync run records in a local SQLite database.
// Each run keeps its summary counters and the candidate set it extracted,
// so a drop in extracted candidates or merge matches can be traced back to
// the run that introduced it.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/guide-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "history.db"
)

// Store manages the run-history SQLite database.
type Store struct {
	db      *sql.DB
	maxRuns int
}

// Run is one recorded sync run.
type Run struct {
	ID          int64
	StartedAt   time.Time
	SourceURL   string
	Layers      int
	Features    int
	Candidates  int
	WithPlaceID int
	Updated     int
	AlreadyHad  int
	Unmatched   int
}

// NewStore opens or creates the history database at
// cfg.DataDir/index/history.db, creating the schema if needed.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxRuns := cfg.MaxRuns
	if maxRuns <= 0 {
		maxRuns = 20
	}

	s := &Store{db: db, maxRuns: maxRuns}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
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
			source_url TEXT,
			layers INTEGER,
			features INTEGER,
			candidates INTEGER,
			with_place_id INTEGER,
			updated INTEGER,
			already_had INTEGER,
			unmatched INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS run_candidates (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			feature_id TEXT,
			name TEXT,
			lat REAL,
			lng REAL,
			place_id TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_candidates_run_id ON run_candidates(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun inserts a run and its candidate set in one transaction,
// returning the new run ID.
func (s *Store) RecordRun(ctx context.Context, run Run, candidates []types.PlaceCandidate) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, source_url, layers, features, candidates,
			with_place_id, updated, already_had, unmatched)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano), run.SourceURL,
		run.Layers, run.Features, run.Candidates, run.WithPlaceID,
		run.Updated, run.AlreadyHad, run.Unmatched,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_candidates (run_id, feature_id, name, lat, lng, place_id)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range candidates {
		var lat, lng any
		if c.Lat != nil {
			lat = *c.Lat
		}
		if c.Lng != nil {
			lng = *c.Lng
		}
		if _, err := stmt.ExecContext(ctx, runID, c.FeatureID, c.Name, lat, lng, c.PlaceID); err != nil {
			return 0, fmt.Errorf("inserting candidate %s: %w", c.FeatureID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first. A limit of 0 uses
// the configured default.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = s.maxRuns
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, source_url, layers, features, candidates,
			with_place_id, updated, already_had, unmatched
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.SourceURL, &r.Layers, &r.Features,
			&r.Candidates, &r.WithPlaceID, &r.Updated, &r.AlreadyHad, &r.Unmatched); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, started); err == nil {
			r.StartedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunCandidates returns the candidate set recorded for one run.
func (s *Store) RunCandidates(ctx context.Context, runID int64) ([]types.PlaceCandidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT feature_id, name, lat, lng, place_id
		 FROM run_candidates WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying candidates for run %d: %w", runID, err)
	}
	defer rows.Close()

	var candidates []types.PlaceCandidate
	for rows.Next() {
		var c types.PlaceCandidate
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&c.FeatureID, &c.Name, &lat, &lng, &c.PlaceID); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		if lat.Valid {
			v := lat.Float64
			c.Lat = &v
		}
		if lng.Valid {
			v := lng.Float64
			c.Lng = &v
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
