//go:build integration

package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates a new in-memory SQLite database with the application schema.
// It returns the database and a teardown function to be deferred.
func setupTestDB(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to sqlite test database: %v", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	schema, err := os.ReadFile(filepath.Join("..", "..", "migrations", "sqlite3", "000001_create_blog_schema.up.sql"))
	if err != nil {
		t.Fatalf("Failed to read schema migration: %v", err)
	}
	db.MustExec(string(schema))

	teardown := func() {
		db.Close()
	}
	return db, teardown
}
