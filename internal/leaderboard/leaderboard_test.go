package leaderboard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/phishdefense/internal/leaderboard"
	"github.com/vytor/phishdefense/internal/models"
)

func rec(score int, minute int) models.ScoreRecord {
	return models.ScoreRecord{
		When:  time.Date(2025, 1, 1, 12, minute, 0, 0, time.UTC),
		Score: score,
		Total: 10,
	}
}

func TestMerge_SortsDescending(t *testing.T) {
	history := []models.ScoreRecord{rec(9, 1), rec(5, 2), rec(2, 3)}

	out := leaderboard.Merge(history, rec(6, 4), 15)

	require.Len(t, out, 4)
	assert.Equal(t, []int{9, 6, 5, 2}, scores(out))
}

func TestMerge_NewEntryWinsTies(t *testing.T) {
	history := []models.ScoreRecord{rec(7, 1), rec(7, 2)}
	entry := rec(7, 30)

	out := leaderboard.Merge(history, entry, 15)

	require.Len(t, out, 3)
	assert.Equal(t, entry.When, out[0].When)
}

func TestMerge_Truncates(t *testing.T) {
	var history []models.ScoreRecord
	for i := 0; i < 15; i++ {
		history = append(history, rec(5, i))
	}

	out := leaderboard.Merge(history, rec(1, 59), 15)
	assert.Len(t, out, 15)
	for _, r := range out {
		assert.Equal(t, 5, r.Score, "the lowest score should be dropped")
	}

	out = leaderboard.Merge(history, rec(10, 59), 15)
	assert.Len(t, out, 15)
	assert.Equal(t, 10, out[0].Score)
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	history := []models.ScoreRecord{rec(1, 1), rec(3, 2)}

	_ = leaderboard.Merge(history, rec(2, 3), 15)

	assert.Equal(t, []int{1, 3}, scores(history))
}

func TestNormalize(t *testing.T) {
	out := leaderboard.Normalize([]models.ScoreRecord{rec(1, 1), rec(4, 2), rec(3, 3)}, 2)
	assert.Equal(t, []int{4, 3}, scores(out))

	assert.Len(t, leaderboard.Normalize(nil, 0), 0)
}

func TestTop(t *testing.T) {
	history := []models.ScoreRecord{rec(9, 1), rec(5, 2), rec(2, 3)}

	assert.Equal(t, []int{9, 5}, scores(leaderboard.Top(history, 2)))
	assert.Len(t, leaderboard.Top(history, 8), 3)
	assert.Empty(t, leaderboard.Top(history, -1))
}

func scores(rs []models.ScoreRecord) []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.Score
	}
	return out
}
