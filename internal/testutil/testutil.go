package testutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vytor/lexiflash/internal/db"
	"github.com/vytor/lexiflash/internal/models"
)

// NewTestDB opens an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	return database
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	t.Helper()
	require.NoError(t, closer.Close())
}

// Words builds a word list with ids w1..wn, handy for session tests.
func Words(names ...string) []models.LearningWord {
	out := make([]models.LearningWord, 0, len(names))
	for i, name := range names {
		out = append(out, models.LearningWord{
			ID:    fmt.Sprintf("w%d", i+1),
			Word:  name,
			Level: "new",
		})
	}
	return out
}
