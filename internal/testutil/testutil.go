package testutil

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vytor/phishdefense/internal/db"
	"github.com/vytor/phishdefense/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	database, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	return database
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Questions builds n distinct phishing questions with ids prefix-0..n-1.
// Even indexes are phishing, odd ones legitimate.
func Questions(prefix string, n int) []models.Question {
	out := make([]models.Question, n)
	for i := range out {
		out[i] = models.Question{
			ID:          prefix + "-" + strconv.Itoa(i),
			Kind:        "SMS",
			Prompt:      "prompt " + prefix + " " + strconv.Itoa(i),
			IsPhishing:  i%2 == 0,
			Clues:       []string{"clue"},
			Explanation: "explanation",
		}
	}
	return out
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
