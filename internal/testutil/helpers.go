package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"taskapi/internal/store/sqlitestore"
)

// findProjectRoot walks up from this file until it finds go.mod.
func findProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)

		if parent == dir {
			break
		}

		dir = parent
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	return "."
}

// InitTestDB opens an in-memory sqlite database with the migrations
// applied. A single connection keeps the memory database alive for the
// test's lifetime.
func InitTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")

	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	db.SetMaxOpenConns(1)

	migrationsPath := filepath.Join(findProjectRoot(), "db", "migrations")

	if err := sqlitestore.RunMigrations(db, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
