package api

import (
	"html/template"
	"net/http"
	"time"

	"github.com/vytor/phishdefense/internal/db"
	"github.com/vytor/phishdefense/internal/errors"
	"github.com/vytor/phishdefense/internal/logger"
	"github.com/vytor/phishdefense/internal/models"
	"github.com/vytor/phishdefense/internal/services"
)

type Server struct {
	DB                 *db.DB
	Sessions           services.SessionService
	Leaderboard        services.LeaderboardService
	Templates          *template.Template
	LeaderboardDisplay int
	RoundSize          int
	RoundSeconds       int
	ShareURL           string
	SessionTTL         time.Duration
}

type pageData map[string]any

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("rendering home page")

	state, err := s.Sessions.State(r.Context(), sessionFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}

	s.render(w, r, "pages/home.html", pageData{
		"state":        state,
		"roundSize":    s.RoundSize,
		"roundSeconds": s.RoundSeconds,
	})
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	state, err := s.Sessions.State(r.Context(), sessionFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if state.Phase == models.PhaseNotStarted {
		log.Debug("no round in progress, redirecting home")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.render(w, r, "pages/play.html", pageData{
		"state":    state,
		"shareURL": s.ShareURL,
	})
}

func (s *Server) handleStartRound(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	in, err := readInput(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	hard := in.Hard != nil && *in.Hard

	if _, err := s.Sessions.Start(r.Context(), sessionFromContext(r.Context()), hard); err != nil {
		if !errors.Is(err, errors.ErrEmptyCatalog) {
			handleError(w, r, err)
			return
		}
		log.Warn("round has no questions: hard=%t", hard)
	}
	http.Redirect(w, r, "/play", http.StatusSeeOther)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
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

	if _, err := s.Sessions.Answer(r.Context(), sessionFromContext(r.Context()), verdict); err != nil {
		handleError(w, r, err)
		return
	}
	http.Redirect(w, r, "/play", http.StatusSeeOther)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	if _, err := s.Sessions.Restart(r.Context(), sessionFromContext(r.Context())); err != nil {
		handleError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}
	if _, ok := data["leaderboard"]; !ok && s.Leaderboard != nil {
		data["leaderboard"] = s.Leaderboard.Top(r.Context(), s.LeaderboardDisplay)
	}

	log := logger.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
