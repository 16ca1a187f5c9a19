// Package sqlite persists wiki pages and attachment blobs in a single
// database file (modernc.org/sqlite, no cgo).
//
// The package keeps no long-lived handle: every operation opens its own
// connection and closes it before returning. Serialization of concurrent
// access is left to the database file's own locking; busy_timeout makes
// competing handles wait instead of failing outright.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

type Storage struct {
	dsn string
}

// New prepares the schema at dbPath and returns a Storage bound to it.
// The file is created when missing.
func New(dbPath string) (*Storage, error) {
	s := &Storage{dsn: buildDsn(dbPath)}

	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func buildDsn(dbPath string) string {
	// WAL lets readers proceed while a writer holds the file;
	// _time_format stores time.Time in SQLite's text format.
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite", dbPath)
}

func (s *Storage) open() (*sql.DB, error) {
	return sql.Open("sqlite", s.dsn)
}

// Ping verifies the database file is reachable. Used by readiness checks.
func (s *Storage) Ping(ctx context.Context) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()
	return db.PingContext(ctx)
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
-- Pages are the named wiki documents. The attachments column carries the
-- page's attachment list as JSON so the list lives and dies with its page.
CREATE TABLE IF NOT EXISTS pages (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL COLLATE NOCASE,
    content       TEXT NOT NULL,
    last_modified TIMESTAMP NOT NULL,
    attachments   TEXT NOT NULL DEFAULT '[]'
);

-- Page names are unique regardless of case.
CREATE UNIQUE INDEX IF NOT EXISTS idx_pages_name ON pages (name);

-- Blobs hold raw attachment payloads keyed by generated id.
CREATE TABLE IF NOT EXISTS blobs (
    file_id    TEXT PRIMARY KEY,
    file_name  TEXT NOT NULL,
    mime_type  TEXT NOT NULL,
    size_bytes INTEGER NOT NULL,
    uploaded   TIMESTAMP NOT NULL,
    data       BLOB NOT NULL
);
`)
	return err
}

func isUniqueViolation(err error) bool {
	var se *sqlite3.Error
	return errors.As(err, &se) && se.Code() == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE
}
