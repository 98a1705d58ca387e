package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/arena/internal/achievement"
	"github.com/mauv0809/arena/internal/apperr"
	"github.com/mauv0809/arena/internal/performance"
)

// PerformanceHandler returns one season when ?season= is given and every
// season otherwise.
func (s *Server) PerformanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := chi.URLParam(r, "id")
		if season := r.URL.Query().Get("season"); season != "" {
			respond(w, r, http.StatusOK, func() (*performance.Performance, error) {
				return s.Performances.Get(r.Context(), nil, playerID, season)
			})
			return
		}
		respond(w, r, http.StatusOK, func() ([]*performance.Performance, error) {
			ps, err := s.Performances.ListByPlayer(r.Context(), playerID)
			if ps == nil {
				ps = []*performance.Performance{}
			}
			return ps, err
		})
	}
}

func (s *Server) UserAchievementsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusOK, func() ([]achievement.UserAchievement, error) {
			uas, err := s.Achievements.ForUser(r.Context(), chi.URLParam(r, "id"))
			if uas == nil {
				uas = []achievement.UserAchievement{}
			}
			return uas, err
		})
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, r, apperr.Validation("limit must be a positive integer"))
				return
			}
			limit = n
		}
		respond(w, r, http.StatusOK, func() ([]achievement.LeaderboardEntry, error) {
			entries, err := s.Achievements.Leaderboard(r.Context(), limit)
			if entries == nil {
				entries = []achievement.LeaderboardEntry{}
			}
			return entries, err
		})
	}
}

// AnnounceLeaderboardHandler posts the current top ten to the notifier.
// Meant for a weekly Cloud Scheduler call.
func (s *Server) AnnounceLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.Achievements.Leaderboard(r.Context(), 10)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.Notifier.SendLeaderboard(entries, isDryRunFromContext(r)); err != nil {
			writeError(w, r, err)
			return
		}
		if entries == nil {
			entries = []achievement.LeaderboardEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func (s *Server) ListAchievementsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusOK, func() ([]achievement.Achievement, error) {
			as, err := s.Achievements.List(r.Context())
			if as == nil {
				as = []achievement.Achievement{}
			}
			return as, err
		})
	}
}

func (s *Server) DefineAchievementHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var a achievement.Achievement
		if err := decode(r, &a); err != nil {
			writeError(w, r, err)
			return
		}
		created, err := s.Achievements.Define(r.Context(), a)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}
