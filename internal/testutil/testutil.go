// Package testutil provides shared test helpers for creating config files and seeded card stores.
package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/LeDat98/Drip/internal/config"
	"github.com/LeDat98/Drip/internal/database"
)

// SetupTestConfig creates a minimal config file with the card store in the
// given directory. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	configContent := fmt.Sprintf(`database:
  path: %s
ui:
  sound: false
  auto_popup: false
`, filepath.Join(tmpDir, "cards.db"))

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// OpenTestStore opens a migrated SQLite store in a fresh temp directory.
// The store is closed when the test finishes.
func OpenTestStore(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "cards.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	require.NoError(t, database.Migrate(db))
	return db
}

// CardFixture describes one card row to seed into a test store.
type CardFixture struct {
	Term        string
	Definition  string
	Stage       int
	DueIn       time.Duration // relative to now, negative means overdue
	LastCorrect *bool
	Priority    float64
}

// SeedCards inserts fixtures relative to now and returns their ids in
// insertion order.
func SeedCards(t *testing.T, db *sqlx.DB, now time.Time, fixtures []CardFixture) []int64 {
	t.Helper()

	ids := make([]int64, 0, len(fixtures))
	for _, fixture := range fixtures {
		lastCorrect := sql.NullBool{}
		if fixture.LastCorrect != nil {
			lastCorrect = sql.NullBool{Bool: *fixture.LastCorrect, Valid: true}
		}

		result, err := db.Exec(
			`INSERT INTO flashcards (term, definition, stage, last_correct, created_at, next_due_at, priority_score)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			fixture.Term, fixture.Definition, fixture.Stage, lastCorrect,
			now.Add(-24*time.Hour), now.Add(fixture.DueIn), fixture.Priority,
		)
		require.NoError(t, err)

		id, err := result.LastInsertId()
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}
