// Package leaderboard keeps the bounded, score-ordered list of finished rounds.
package leaderboard

import (
	"sort"

	"github.com/vytor/phishdefense/internal/models"
)

// DefaultLimit is the number of entries kept in the persisted history.
const DefaultLimit = 15

// Merge prepends entry to history, orders by score descending and truncates
// to limit. The sort is stable, so a new entry ranks ahead of older entries
// with the same score. history is not modified.
func Merge(history []models.ScoreRecord, entry models.ScoreRecord, limit int) []models.ScoreRecord {
	next := make([]models.ScoreRecord, 0, len(history)+1)
	next = append(next, entry)
	next = append(next, history...)
	return Normalize(next, limit)
}

// Normalize returns a sorted, truncated copy of history.
func Normalize(history []models.ScoreRecord, limit int) []models.ScoreRecord {
	if limit <= 0 {
		limit = DefaultLimit
	}
	out := make([]models.ScoreRecord, len(history))
	copy(out, history)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Top returns at most n leading entries.
func Top(history []models.ScoreRecord, n int) []models.ScoreRecord {
	if n < 0 {
		n = 0
	}
	if len(history) < n {
		n = len(history)
	}
	out := make([]models.ScoreRecord, n)
	copy(out, history[:n])
	return out
}
