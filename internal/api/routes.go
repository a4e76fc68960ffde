package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(recoverer)
	r.Use(noStore)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errNotFound(r.URL.Path))
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Get("/", s.handleHome)
		r.Get("/play", s.handlePlay)
		r.Post("/round", s.handleStartRound)
		r.Post("/answer", s.handleAnswer)
		r.Post("/restart", s.handleRestart)

		r.Route("/api", func(r chi.Router) {
			r.Get("/state", s.handleAPIState)
			r.Post("/round", s.handleAPIStartRound)
			r.Post("/answer", s.handleAPIAnswer)
			r.Post("/restart", s.handleAPIRestart)
			r.Get("/leaderboard", s.handleAPILeaderboard)
		})
	})

	return r
}
