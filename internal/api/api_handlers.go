package api

import (
	"net/http"

	"github.com/vytor/phishdefense/internal/logger"
	"github.com/vytor/phishdefense/internal/models"
)

const maxLeaderboardLimit = 100

// questionView is a question as sent to API clients. The answer, clues and
// explanation stay hidden until the question has been answered.
type questionView struct {
	ID          string   `json:"id"`
	Kind        string   `json:"kind"`
	Prompt      string   `json:"prompt"`
	IsPhishing  *bool    `json:"is_phishing,omitempty"`
	Clues       []string `json:"clues,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

func newQuestionView(q models.Question, reveal bool) questionView {
	v := questionView{ID: q.ID, Kind: q.Kind, Prompt: q.Prompt}
	if reveal {
		isPhishing := q.IsPhishing
		v.IsPhishing = &isPhishing
		v.Clues = q.Clues
		v.Explanation = q.Explanation
	}
	return v
}

type stateView struct {
	Phase            models.Phase         `json:"phase"`
	HardMode         bool                 `json:"hard_mode"`
	Pool             []questionView       `json:"pool"`
	Position         int                  `json:"position"`
	Score            int                  `json:"score"`
	RemainingSeconds int                  `json:"remaining_seconds"`
	AnswerLog        []models.AnswerEntry `json:"answer_log"`
	Finished         bool                 `json:"finished"`
	Current          *questionView        `json:"current,omitempty"`
	Review           []models.ReviewItem  `json:"review,omitempty"`
}

type stateResponse struct {
	State stateView `json:"state"`
	Clock string    `json:"clock"`
}

func newStateResponse(snap models.Snapshot) stateResponse {
	finished := snap.Phase == models.PhaseFinished
	view := stateView{
		Phase:            snap.Phase,
		HardMode:         snap.HardMode,
		Pool:             make([]questionView, len(snap.Pool)),
		Position:         snap.Position,
		Score:            snap.Score,
		RemainingSeconds: snap.RemainingSeconds,
		AnswerLog:        snap.AnswerLog,
		Finished:         snap.Finished,
		Review:           snap.Review,
	}
	for i, q := range snap.Pool {
		view.Pool[i] = newQuestionView(q, finished || i < snap.Position)
	}
	if snap.Current != nil {
		cur := newQuestionView(*snap.Current, finished)
		view.Current = &cur
	}
	return stateResponse{State: view, Clock: snap.Clock()}
}

func (s *Server) handleAPIState(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.State(r.Context(), sessionFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newStateResponse(state))
}

func (s *Server) handleAPIStartRound(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	in, err := readInput(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	hard := in.Hard != nil && *in.Hard
	log.Debug("api start round: hard=%t", hard)

	state, err := s.Sessions.Start(r.Context(), sessionFromContext(r.Context()), hard)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, newStateResponse(state))
}

func (s *Server) handleAPIAnswer(w http.ResponseWriter, r *http.Request) {
	in, err := readInput(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	verdict, err := parseVerdict(in.Verdict)
	if err != nil {
		handleError(w, r, err)
		return
	}

	state, err := s.Sessions.Answer(r.Context(), sessionFromContext(r.Context()), verdict)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newStateResponse(state))
}

func (s *Server) handleAPIRestart(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Restart(r.Context(), sessionFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newStateResponse(state))
}

func (s *Server) handleAPILeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"), s.LeaderboardDisplay, maxLeaderboardLimit)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"scores": s.Leaderboard.Top(r.Context(), limit),
	})
}
