package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/arena/internal/apperr"
	"github.com/mauv0809/arena/internal/match"
	"github.com/mauv0809/arena/internal/tournament"
)

func (s *Server) CreateTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in tournament.NewTournament
		if err := decode(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		in.CreatedBy = claimsFromContext(r).UserID
		t, err := s.Tournaments.Create(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func (s *Server) ListTournamentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := tournament.Filter{Status: tournament.Status(q.Get("status")), ClubID: q.Get("clubId")}
		respond(w, r, http.StatusOK, func() ([]*tournament.Tournament, error) {
			ts, err := s.Tournaments.List(r.Context(), f)
			if ts == nil {
				ts = []*tournament.Tournament{}
			}
			return ts, err
		})
	}
}

func (s *Server) GetTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusOK, func() (*tournament.Tournament, error) {
			return s.Tournaments.Get(r.Context(), chi.URLParam(r, "id"))
		})
	}
}

func (s *Server) RegisterTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerTeamRequest
		if err := decode(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if req.TeamID == "" {
			writeError(w, r, apperr.Validation("teamId is required"))
			return
		}
		if !actsForTeam(r, req.TeamID) {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden", Message: "players may only register themselves"})
			return
		}
		respond(w, r, http.StatusOK, func() (*tournament.Tournament, error) {
			return s.Tournaments.RegisterTeam(r.Context(), chi.URLParam(r, "id"), req.TeamID, req.Seed)
		})
	}
}

func (s *Server) WithdrawTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")
		if !actsForTeam(r, teamID) {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden", Message: "players may only withdraw themselves"})
			return
		}
		respond(w, r, http.StatusOK, func() (*tournament.Tournament, error) {
			return s.Tournaments.WithdrawTeam(r.Context(), chi.URLParam(r, "id"), teamID)
		})
	}
}

// actsForTeam reports whether the caller may enter or withdraw teamID. Staff
// act for any team; a player only for the entry carrying their own user id.
func actsForTeam(r *http.Request, teamID string) bool {
	claims := claimsFromContext(r)
	if claims == nil {
		return false
	}
	switch claims.Role {
	case RoleAdmin, RoleCoach:
		return true
	}
	return claims.UserID == teamID
}

func (s *Server) ConfirmTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusOK, func() (*tournament.Tournament, error) {
			return s.Tournaments.ConfirmTeam(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "teamID"))
		})
	}
}

func (s *Server) TransitionStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := decode(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		respond(w, r, http.StatusOK, func() (*tournament.Tournament, error) {
			return s.Tournaments.TransitionStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
		})
	}
}

func (s *Server) GenerateBracketsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusOK, func() (*tournament.Tournament, error) {
			return s.Tournaments.GenerateBrackets(r.Context(), chi.URLParam(r, "id"))
		})
	}
}

func (s *Server) StandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusOK, func() (*tournament.StandingsView, error) {
			return s.Tournaments.Standings(r.Context(), chi.URLParam(r, "id"))
		})
	}
}

func (s *Server) TournamentMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := s.Tournaments.Get(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		respond(w, r, http.StatusOK, func() ([]*match.Match, error) {
			ms, err := s.Matches.ListByTournament(r.Context(), id)
			if ms == nil {
				ms = []*match.Match{}
			}
			return ms, err
		})
	}
}
