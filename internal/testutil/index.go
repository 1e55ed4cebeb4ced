package testutil

import (
	"testing"

	"idup/internal/database"
)

// NewTestIndex creates an in-memory SQLite index with the schema applied.
// The index is closed when the test completes.
func NewTestIndex(t *testing.T) *database.SQLiteIndex {
	t.Helper()

	sqlDB, err := database.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if _, err := sqlDB.Exec(database.Schema); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	index := database.NewSQLiteIndexFromDB(sqlDB)

	t.Cleanup(func() {
		index.Close()
	})

	return index
}
