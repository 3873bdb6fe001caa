// Package testutil provides shared helpers for tests that need a real
// database. SQLite runs embedded, so unlike a server database there is
// nothing to skip on: every test gets its own file under t.TempDir and the
// full migration set applied.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/Erfanur1/Voyager/internal/repo"
)

// NewStore opens a migrated SQLite store in a per-test temp directory.
// The store is closed automatically when the test (and all its subtests)
// finish, and the file is removed with the temp dir.
func NewStore(t *testing.T) *repo.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "voyager.db")
	store, err := repo.Open(path)
	if err != nil {
		t.Fatalf("testutil.NewStore: open: %v", err)
	}

	t.Cleanup(func() { store.Close() })
	return store
}
