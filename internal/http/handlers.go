package http

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/arena/internal/live"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) MatchFeedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := s.Matches.Get(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		s.Live.ServeRoom(w, r, live.MatchRoom(id))
	}
}

func (s *Server) TournamentFeedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := s.Tournaments.Get(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		s.Live.ServeRoom(w, r, live.TournamentRoom(id))
	}
}
