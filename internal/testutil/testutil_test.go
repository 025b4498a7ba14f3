package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir)

	want := filepath.Join(tmpDir, "config.yml")
	assert.Equal(t, want, got)

	content, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Contains(t, string(content), filepath.Join(tmpDir, "cards.db"))
	assert.Contains(t, string(content), "auto_popup: false")
}

func TestOpenTestStore(t *testing.T) {
	db := OpenTestStore(t)

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM flashcards"))
	assert.Equal(t, 0, count)
}

func TestSeedCards(t *testing.T) {
	db := OpenTestStore(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	wrong := false
	ids := SeedCards(t, db, now, []CardFixture{
		{Term: "ephemeral", Definition: "short-lived", Stage: 1, DueIn: -time.Hour, Priority: 120},
		{Term: "ubiquitous", Definition: "everywhere", Stage: 3, DueIn: 2 * time.Hour, LastCorrect: &wrong, Priority: 60},
	})
	require.Len(t, ids, 2)
	assert.Less(t, ids[0], ids[1])

	var stages []int
	require.NoError(t, db.Select(&stages, "SELECT stage FROM flashcards ORDER BY id"))
	assert.Equal(t, []int{1, 3}, stages)

	var lastCorrect []bool
	require.NoError(t, db.Select(&lastCorrect,
		"SELECT last_correct FROM flashcards WHERE last_correct IS NOT NULL"))
	assert.Equal(t, []bool{false}, lastCorrect)
}
