// Package repo contains all database access logic for the Voyager app.
// Each resource has its own file with an interface and a SQLite
// implementation. No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure Go SQLite driver, no CGO

	"github.com/Erfanur1/Voyager/migrations"
)

// Store owns the on-device SQLite database. All repos share one Store.
//
// SQLite permits a single writer at a time; writeTx serializes writers
// through an explicit lock instead of letting concurrent transactions race
// to SQLITE_BUSY. Reads go straight to the pool.
type Store struct {
	db      *sql.DB
	writeCh chan struct{} // single-slot write token
}

// Open opens (or creates) the database at path, applies pending migrations,
// and returns a ready Store. Parent directories are created as needed.
// Pass ":memory:" for an ephemeral database in tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("repo.Open: create directory: %w", err)
		}
	}

	// foreign_keys must be set per connection, so it goes in the DSN where
	// the driver applies it to every new connection in the pool.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("repo.Open: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("repo.Open: migrate: %w", err)
	}

	s := &Store{db: db, writeCh: make(chan struct{}, 1)}
	s.writeCh <- struct{}{}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies all embedded migrations using the goose provider API.
func migrate(db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}

// writeTx runs fn inside a write transaction while holding the write token.
// If fn returns an error the transaction is rolled back and the database is
// left exactly as it was before the call — no partial write survives.
func (s *Store) writeTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	select {
	case <-s.writeCh:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { s.writeCh <- struct{}{} }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// SQLite stores timestamps as RFC 3339 text. Helpers below keep the
// conversion in one place so every column round-trips in UTC.

func timeToDB(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func timeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
