package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/phishdefense/internal/models"
)

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "5:00", models.FormatClock(300))
	assert.Equal(t, "0:09", models.FormatClock(9))
	assert.Equal(t, "1:05", models.FormatClock(65))
	assert.Equal(t, "0:00", models.FormatClock(-3))
}

func TestParseVerdict(t *testing.T) {
	v, err := models.ParseVerdict("Phish")
	require.NoError(t, err)
	assert.True(t, v)

	v, err = models.ParseVerdict(" legit ")
	require.NoError(t, err)
	assert.False(t, v)

	_, err = models.ParseVerdict("maybe")
	assert.Error(t, err)
}

func TestScoreRecord_JSONShape(t *testing.T) {
	rec := models.ScoreRecord{
		When:  time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
		Score: 7,
		Total: 10,
		Hard:  true,
	}

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"when":"2025-03-01T10:30:00Z","score":7,"total":10,"hard":true}`, string(b))
}

func TestScoreRecord_ParsesBrowserTimestamps(t *testing.T) {
	var rec models.ScoreRecord
	err := json.Unmarshal([]byte(`{"when":"2025-03-01T10:30:00.123Z","score":4,"total":10,"hard":false}`), &rec)
	require.NoError(t, err)
	assert.Equal(t, 4, rec.Score)
	assert.Equal(t, 123*int(time.Millisecond), rec.When.Nanosecond())
	assert.Equal(t, "normal", rec.ModeLabel())
}

func TestSnapshot_Progress(t *testing.T) {
	s := models.Snapshot{Pool: make([]models.Question, 4), Position: 1}
	assert.InDelta(t, 0.25, s.Progress(), 1e-9)
	assert.Equal(t, 0.0, models.Snapshot{}.Progress())
}

func TestPhase_MarshalText(t *testing.T) {
	b, err := json.Marshal(struct {
		P models.Phase `json:"p"`
	}{models.PhaseFinished})
	require.NoError(t, err)
	assert.JSONEq(t, `{"p":"finished"}`, string(b))
}

func TestPhase_UnmarshalText(t *testing.T) {
	var got struct {
		P models.Phase `json:"p"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"p":"active"}`), &got))
	assert.Equal(t, models.PhaseActive, got.P)

	assert.Error(t, json.Unmarshal([]byte(`{"p":"paused"}`), &got))
}

func TestSnapshot_LastAnswerWrong(t *testing.T) {
	assert.False(t, models.Snapshot{}.LastAnswerWrong())

	s := models.Snapshot{AnswerLog: []models.AnswerEntry{{WasCorrect: false}, {WasCorrect: true}}}
	assert.False(t, s.LastAnswerWrong())

	s.AnswerLog = append(s.AnswerLog, models.AnswerEntry{WasCorrect: false})
	assert.True(t, s.LastAnswerWrong())
}
