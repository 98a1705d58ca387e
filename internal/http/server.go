package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mauv0809/arena/internal/config"
	"github.com/mauv0809/arena/internal/metrics"
)

func NewServer(services Services, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Services:       services,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         chi.NewRouter(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	r := s.Router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.Cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Handle("/metrics", s.MetricsHandler)
	r.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	r.Get("/ws/matches/{id}", s.MatchFeedHandler())
	r.Get("/ws/tournaments/{id}", s.TournamentFeedHandler())

	// Pub/Sub push subscriptions authenticate at the subscription level.
	r.Route("/pubsub", func(r chi.Router) {
		r.Use(paramsMiddleware)
		r.Post("/match-completed", s.MatchCompletedPushHandler())
		r.Post("/achievement-unlocked", s.AchievementUnlockedPushHandler())
	})

	staff := authorize(RoleAdmin, RoleCoach)
	r.Route("/api", func(r chi.Router) {
		r.Use(paramsMiddleware, authenticate(s.Cfg.JWTSecret))

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", s.ListTournamentsHandler())
			r.Get("/{id}", s.GetTournamentHandler())
			r.Get("/{id}/standings", s.StandingsHandler())
			r.Get("/{id}/matches", s.TournamentMatchesHandler())
			r.Post("/{id}/teams", s.RegisterTeamHandler())
			r.Delete("/{id}/teams/{teamID}", s.WithdrawTeamHandler())

			r.Group(func(r chi.Router) {
				r.Use(staff)
				r.Post("/", s.CreateTournamentHandler())
				r.Post("/{id}/teams/{teamID}/confirm", s.ConfirmTeamHandler())
				r.Post("/{id}/status", s.TransitionStatusHandler())
				r.Post("/{id}/brackets", s.GenerateBracketsHandler())
			})
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/{id}", s.GetMatchHandler())
			r.Get("/{id}/highlights", s.HighlightsHandler())

			r.Group(func(r chi.Router) {
				r.Use(staff)
				r.Post("/", s.CreateMatchHandler())
				r.Post("/{id}/start", s.StartMatchHandler())
				r.Post("/{id}/events", s.MatchEventHandler())
				r.Put("/{id}/stats", s.UpdateStatsHandler())
				r.Post("/{id}/complete", s.CompleteMatchHandler())
				r.Post("/{id}/cancel", s.CancelMatchHandler())
				r.Post("/{id}/postpone", s.PostponeMatchHandler())
			})
		})

		r.Get("/players/{id}/performance", s.PerformanceHandler())
		r.Get("/users/{id}/achievements", s.UserAchievementsHandler())
		r.Get("/achievements/leaderboard", s.LeaderboardHandler())
		r.Get("/achievements", s.ListAchievementsHandler())
		r.With(authorize(RoleAdmin)).Post("/achievements", s.DefineAchievementHandler())
		r.With(authorize(RoleAdmin)).Post("/achievements/leaderboard/announce", s.AnnounceLeaderboardHandler())
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
