package models

import "fmt"

// Phase is the lifecycle state of a round.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseActive
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// MarshalText lets the phase serialize as its name in JSON.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "not_started":
		*p = PhaseNotStarted
	case "active":
		*p = PhaseActive
	case "finished":
		*p = PhaseFinished
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}

// AnswerEntry is one line of a round's append-only answer log.
type AnswerEntry struct {
	QuestionID  string `json:"question_id"`
	UserVerdict bool   `json:"user_verdict"`
	WasCorrect  bool   `json:"was_correct"`
}

// ReviewItem pairs an answer with the question it answered, for the
// results screen.
type ReviewItem struct {
	Question Question    `json:"question"`
	Answer   AnswerEntry `json:"answer"`
}

// Snapshot is a read-only copy of a round as seen by a front-end.
type Snapshot struct {
	Phase            Phase         `json:"phase"`
	HardMode         bool          `json:"hard_mode"`
	Pool             []Question    `json:"pool"`
	Position         int           `json:"position"`
	Score            int           `json:"score"`
	RemainingSeconds int           `json:"remaining_seconds"`
	AnswerLog        []AnswerEntry `json:"answer_log"`
	Finished         bool          `json:"finished"`
	Current          *Question     `json:"current,omitempty"`
	Review           []ReviewItem  `json:"review,omitempty"`
}

// Total is the number of questions in the round.
func (s Snapshot) Total() int {
	return len(s.Pool)
}

// Progress is the fraction of the pool already answered, in [0,1].
func (s Snapshot) Progress() float64 {
	if len(s.Pool) == 0 {
		return 0
	}
	return float64(s.Position) / float64(len(s.Pool))
}

// LastAnswerWrong reports whether the most recent answer was incorrect.
func (s Snapshot) LastAnswerWrong() bool {
	n := len(s.AnswerLog)
	return n > 0 && !s.AnswerLog[n-1].WasCorrect
}

// Clock renders the remaining time as m:ss.
func (s Snapshot) Clock() string {
	return FormatClock(s.RemainingSeconds)
}

// FormatClock renders seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
