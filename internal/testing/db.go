// Package testing provides testing utilities and helpers for the vending machine.
package testing

import (
	"testing"

	"github.com/aristath/vending/internal/database"
)

// NewTestDB creates an in-memory SQLite database for testing and applies schema.
// Returns the database instance and a cleanup function that closes the connection.
// The cleanup function also runs through t.Cleanup and is safe to call twice.
func NewTestDB(t *testing.T, name string, schema string) (*database.DB, func()) {
	t.Helper()

	db, err := database.New(database.Config{Name: name})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	return migrate(t, db, name, schema)
}

func migrate(t *testing.T, db *database.DB, name string, schema string) (*database.DB, func()) {
	t.Helper()

	if schema != "" {
		if err := db.Migrate(schema); err != nil {
			_ = db.Close()
			t.Fatalf("Failed to migrate test database %s: %v", name, err)
		}
	}

	closed := false
	cleanup := func() {
		if closed {
			return
		}
		closed = true
		if err := db.Close(); err != nil {
			// Log error but don't fail test
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
	}
	t.Cleanup(cleanup)

	return db, cleanup
}
