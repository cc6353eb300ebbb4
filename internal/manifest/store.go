// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest records conversion outcomes in a SQLite database so
// batch re-runs can skip notes whose content has not changed.
package manifest

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/boxmd/pkg/types"
)

const dbFile = ".boxmd-manifest.db"

const schema = `
CREATE TABLE IF NOT EXISTS conversions (
	source       TEXT NOT NULL,
	format       TEXT NOT NULL,
	sha256       TEXT NOT NULL,
	output       TEXT NOT NULL,
	converted_at TEXT NOT NULL,
	PRIMARY KEY (source, format)
);
`

// Store is the per-output-directory conversion manifest.
type Store struct {
	db *sql.DB
}

// Open opens or creates the manifest database inside dir and bootstraps
// the schema.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating manifest directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening manifest database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating manifest schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Unchanged reports whether source was already converted to format with
// the same content hash.
func (s *Store) Unchanged(source string, format types.OutputFormat, hash string) bool {
	var stored string
	err := s.db.QueryRow(
		`SELECT sha256 FROM conversions WHERE source = ? AND format = ?`,
		source, string(format),
	).Scan(&stored)
	if err != nil {
		return false
	}
	return stored == hash
}

// Record upserts the conversion outcome for source.
func (s *Store) Record(source string, format types.OutputFormat, hash, output string) error {
	_, err := s.db.Exec(
		`INSERT INTO conversions (source, format, sha256, output, converted_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (source, format) DO UPDATE SET
		   sha256 = excluded.sha256,
		   output = excluded.output,
		   converted_at = excluded.converted_at`,
		source, string(format), hash, output, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording conversion: %w", err)
	}
	return nil
}

// Count returns the number of recorded conversions.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM conversions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting conversions: %w", err)
	}
	return n, nil
}
