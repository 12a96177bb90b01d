package helpers

import (
	"testing"

	"gorm.io/gorm"

	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/database"
)

// NewTestDB opens a migrated in-memory catalog database that is closed when
// the test finishes.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.NewTestConnection()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(db); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})
	return db
}
