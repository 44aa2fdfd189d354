// Package store persists attorney records and scrape-run provenance in
// sqlite.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS attorneys (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	bar_number TEXT,
	state TEXT NOT NULL,
	first_name TEXT,
	last_name TEXT,
	full_name TEXT NOT NULL,
	status TEXT,
	admission_date TEXT,
	firm_name TEXT,
	city TEXT,
	county TEXT,
	address TEXT,
	email TEXT,
	phone TEXT,
	website TEXT,
	law_school TEXT,
	graduation_year TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(bar_number, state)
);

CREATE TABLE IF NOT EXISTS practice_areas (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	attorney_id INTEGER NOT NULL,
	practice_area TEXT NOT NULL,
	is_primary BOOLEAN DEFAULT 0,
	FOREIGN KEY (attorney_id) REFERENCES attorneys(id),
	UNIQUE(attorney_id, practice_area)
);

CREATE TABLE IF NOT EXISTS scrape_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	state TEXT NOT NULL,
	started_at TIMESTAMP,
	completed_at TIMESTAMP,
	attorneys_found INTEGER DEFAULT 0,
	attorneys_added INTEGER DEFAULT 0,
	attorneys_updated INTEGER DEFAULT 0,
	errors INTEGER DEFAULT 0,
	status TEXT DEFAULT 'running',
	notes TEXT
);

CREATE INDEX IF NOT EXISTS idx_attorneys_state ON attorneys(state);
CREATE INDEX IF NOT EXISTS idx_attorneys_status ON attorneys(status);
CREATE INDEX IF NOT EXISTS idx_attorneys_firm ON attorneys(firm_name);
CREATE INDEX IF NOT EXISTS idx_attorneys_city ON attorneys(city);
CREATE INDEX IF NOT EXISTS idx_practice_areas_area ON practice_areas(practice_area);
CREATE INDEX IF NOT EXISTS idx_attorneys_name ON attorneys(last_name, first_name);
`

const defaultPingTimeout = 5 * time.Second

// Store wraps the sqlite database holding attorneys, practice areas, and
// scrape logs.
type Store struct {
	db *sqlx.DB
}

// Open connects to the sqlite database at path, creating the schema if it
// does not exist. Use ":memory:" for an ephemeral store in tests.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: connect to %s: %w", path, err)
	}

	// sqlite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent workers.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), defaultPingTimeout)
	defer cancel()
	if pingErr := db.PingContext(ctx); pingErr != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", pingErr)
	}

	if _, execErr := db.Exec(schema); execErr != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", execErr)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
