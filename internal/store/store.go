// SPDX-License-Identifier: MIT

// Package store persists the scraped catalog in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver (pure Go, no CGO)
)

// Store provides SQLite persistence for the car catalog.
type Store struct {
	db *sql.DB
}

// Open initializes the database with WAL mode and runs migrations.
// busy_timeout keeps concurrent scrape and API reads from tripping
// "database locked" errors.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(1 * time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for integrity checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS makes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		slug TEXT NOT NULL,
		url TEXT NOT NULL,
		scraped_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS models (
		id TEXT PRIMARY KEY,
		make_id TEXT NOT NULL REFERENCES makes(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		year TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL,
		UNIQUE (make_id, name)
	);

	CREATE TABLE IF NOT EXISTS trims (
		id TEXT PRIMARY KEY,
		model_id TEXT NOT NULL REFERENCES models(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		production TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL,
		UNIQUE (model_id, name)
	);

	CREATE TABLE IF NOT EXISTS trim_specs (
		trim_id TEXT NOT NULL REFERENCES trims(id) ON DELETE CASCADE,
		kind TEXT NOT NULL CHECK(kind IN ('spec', 'option')),
		grp TEXT NOT NULL,
		name TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (trim_id, kind, grp, name)
	);

	CREATE INDEX IF NOT EXISTS idx_models_make ON models(make_id);
	CREATE INDEX IF NOT EXISTS idx_trims_model ON trims(model_id);
	CREATE INDEX IF NOT EXISTS idx_trim_specs_trim ON trim_specs(trim_id);
	`

	_, err := s.db.Exec(schema)
	return err
}
