package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB is a SQLite-backed marker store and evaluation log
type DB struct {
	conn *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// It enables WAL mode and runs migrations. ":memory:" is accepted for tests.
func Open(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases shared and serializes writers
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates or updates the database schema
func (db *DB) migrate() error {
	schema := `
-- Labels table: the label set of each pull request, including its severity marker
CREATE TABLE IF NOT EXISTS labels (
    repo        TEXT NOT NULL,
    pr_number   INTEGER NOT NULL,
    label       TEXT NOT NULL,
    added_at    DATETIME NOT NULL,
    PRIMARY KEY (repo, pr_number, label)
);

-- Evaluations table: one row per evaluated pull request per run
CREATE TABLE IF NOT EXISTS evaluations (
    id              TEXT PRIMARY KEY,
    repo            TEXT NOT NULL,
    pr_number       INTEGER NOT NULL,
    status          TEXT NOT NULL,
    severity        TEXT,
    elapsed_minutes REAL NOT NULL,
    marker_changed  INTEGER NOT NULL,
    notified        INTEGER NOT NULL,
    evaluated_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_evaluations_pr ON evaluations(repo, pr_number);
`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}
