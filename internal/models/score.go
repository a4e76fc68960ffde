package models

import "time"

// ScoreRecord is one persisted leaderboard entry.
type ScoreRecord struct {
	When  time.Time `json:"when"`
	Score int       `json:"score"`
	Total int       `json:"total"`
	Hard  bool      `json:"hard"`
}

// ModeLabel is the display name of the mode the round was played in.
func (r ScoreRecord) ModeLabel() string {
	if r.Hard {
		return "hard"
	}
	return "normal"
}
