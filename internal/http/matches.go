package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/arena/internal/match"
	"github.com/mauv0809/arena/internal/processor"
)

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in match.NewMatch
		if err := decode(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		m, err := s.Matches.Create(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusOK, func() (*match.Match, error) {
			return s.Matches.Get(r.Context(), chi.URLParam(r, "id"))
		})
	}
}

func (s *Server) HighlightsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusOK, func() ([]match.Highlight, error) {
			return s.Matches.Highlights(r.Context(), chi.URLParam(r, "id"))
		})
	}
}

// transitionHandler serves the body-less status changes.
func (s *Server) transitionHandler(op func(*match.Service, context.Context, string) (*match.Match, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusOK, func() (*match.Match, error) {
			return op(s.Matches, r.Context(), chi.URLParam(r, "id"))
		})
	}
}

func (s *Server) StartMatchHandler() http.HandlerFunc {
	return s.transitionHandler((*match.Service).Start)
}

// CancelMatchHandler and PostponeMatchHandler go through the tournament
// service so a tournament fixture gets a replay.
func (s *Server) CancelMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusOK, func() (*match.Match, error) {
			return s.Tournaments.CancelMatch(r.Context(), chi.URLParam(r, "id"))
		})
	}
}

func (s *Server) PostponeMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusOK, func() (*match.Match, error) {
			return s.Tournaments.PostponeMatch(r.Context(), chi.URLParam(r, "id"))
		})
	}
}

func (s *Server) MatchEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ev match.Event
		if err := decode(r, &ev); err != nil {
			writeError(w, r, err)
			return
		}
		respond(w, r, http.StatusOK, func() (*match.Match, error) {
			return s.Matches.ApplyEvent(r.Context(), chi.URLParam(r, "id"), ev)
		})
	}
}

func (s *Server) UpdateStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var updates []match.StatUpdate
		if err := decode(r, &updates); err != nil {
			writeError(w, r, err)
			return
		}
		respond(w, r, http.StatusOK, func() (*match.Match, error) {
			return s.Matches.UpdateStats(r.Context(), chi.URLParam(r, "id"), updates)
		})
	}
}

func (s *Server) CompleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req processor.CompleteRequest
		if err := decode(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		respond(w, r, http.StatusOK, func() (*processor.Result, error) {
			return s.Processor.CompleteMatch(r.Context(), chi.URLParam(r, "id"), req)
		})
	}
}
