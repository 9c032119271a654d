package testutil

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"wiki-echo/internal/repository"
)

// NewTestDB opens an in-memory SQLite database with all migrations applied
// and closes it when the test completes.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := repository.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("migrating test db: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing test db: %v", err)
		}
	})
	return db
}

// NewTestRepositories wires repositories over a fresh test database.
func NewTestRepositories(t *testing.T) (*repository.Repositories, *sqlx.DB) {
	t.Helper()
	db := NewTestDB(t)
	return repository.NewRepositories(repository.NewDBFactory(db, db)), db
}
