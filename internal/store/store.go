// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists papers, edges and chat history in SQLite.
//
// Papers are keyed by arXiv identifier and never updated after creation.
// Edges are unique per unordered pair of papers and are removed together
// with either endpoint.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-graph/pkg/types"
)

const dbFile = "paper-graph.db"

var (
	// ErrNotFound is returned when a paper, edge or message does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSelfLoop is returned when an edge would connect a paper to itself.
	ErrSelfLoop = errors.New("edge endpoints must differ")

	// ErrInvalidEdgeType is returned for an unknown edge type.
	ErrInvalidEdgeType = errors.New("invalid edge type")
)

// Store manages the paper graph SQLite database.
type Store struct {
	db      *sql.DB
	dataDir string

	// now stamps created_at columns. Tests replace it.
	now func() time.Time
}

// NewStore opens or creates the database at cfg.DataDir/paper-graph.db and
// creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows a single writer; one connection keeps the
	// check-then-insert sequences below race free.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, dataDir: dataDir, now: time.Now}
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

// DataDir returns the directory holding the database and exports.
func (s *Store) DataDir() string {
	return s.dataDir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			authors TEXT,
			summary TEXT,
			published TEXT,
			pdf_url TEXT,
			key_concepts TEXT,
			citations TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS edges (
			id TEXT PRIMARY KEY,
			source_id TEXT NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
			target_id TEXT NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
			edge_type TEXT NOT NULL,
			evidence TEXT,
			pair_lo TEXT NOT NULL,
			pair_hi TEXT NOT NULL,
			created_at TEXT NOT NULL,
			UNIQUE (pair_lo, pair_hi)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_id)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id)`,
		`CREATE TABLE IF NOT EXISTS chat_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
