// Package sqlite implements the repository interfaces on top of SQLite.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of SQLite: no CGo, no C compiler, and the
// binary cross-compiles like any other Go program. For a single-node
// deployment (and for tests, via ":memory:") that is all we need.
//
// DOCUMENT STORAGE:
// A profile is a deeply nested record (education, skills, projects...) that
// is written once and always read back whole. Splitting it over a dozen
// child tables would buy nothing, so each profile is one row holding the
// JSON document plus a few columns we may want to query on.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces. New creates it; Close releases it.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/genfolio.db" → file-based database (persistent)
//   - ":memory:"         → in-memory database (tests)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database lives and dies with its connection. Pinning the
	// pool to one connection keeps every query on the same database.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers proceed while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates or upgrades the schema. Every step is idempotent, so it
// runs on every start.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS profiles (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL DEFAULT '',
			template    TEXT NOT NULL DEFAULT '',
			document    TEXT NOT NULL,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_profiles_created_at ON profiles(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating profiles table: %w", err)
	}

	// The digest column arrived after the first release; databases created
	// before that get it added here.
	if err := db.addColumnIfNotExists("profiles", "digest", "TEXT NOT NULL DEFAULT ''"); err != nil {
		return fmt.Errorf("adding digest to profiles: %w", err)
	}

	return nil
}

// addColumnIfNotExists adds a column to a table only if it doesn't already
// exist. ALTER TABLE ... ADD COLUMN errors on duplicates, so check first.
func (db *DB) addColumnIfNotExists(table, column, definition string) error {
	var count int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
		table, column,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking column %s.%s: %w", table, column, err)
	}
	if count > 0 {
		return nil
	}
	_, err = db.conn.Exec(fmt.Sprintf(
		`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition,
	))
	return err
}
