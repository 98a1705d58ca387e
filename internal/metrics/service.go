package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		TeamRegistrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_team_registrations_total",
			Help: "The total number of accepted tournament registrations.",
		}),
		LiveEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_live_events_total",
			Help: "The total number of live match events applied, by type.",
		}, []string{"type"}),
		MatchesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_matches_completed_total",
			Help: "The total number of matches completed.",
		}),
		CompletionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "arena_match_completion_duration_seconds",
			Help:    "The duration of the match completion transaction.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		AchievementsUnlocked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_achievements_unlocked_total",
			Help: "The total number of achievements unlocked.",
		}),
		ConcurrencyConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_concurrency_conflicts_total",
			Help: "The total number of optimistic lock failures.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arena_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.TeamRegistrations,
		s.LiveEvents,
		s.MatchesCompleted,
		s.CompletionDuration,
		s.AchievementsUnlocked,
		s.ConcurrencyConflicts,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncTeamRegistrations() {
	s.TeamRegistrations.Inc()
}

func (s *Service) IncLiveEvents(eventType string) {
	s.LiveEvents.WithLabelValues(eventType).Inc()
}

func (s *Service) IncMatchesCompleted() {
	s.MatchesCompleted.Inc()
}

func (s *Service) ObserveCompletionDuration(seconds float64) {
	s.CompletionDuration.Observe(seconds)
}

func (s *Service) IncAchievementsUnlocked(count int) {
	s.AchievementsUnlocked.Add(float64(count))
}

func (s *Service) IncConcurrencyConflicts() {
	s.ConcurrencyConflicts.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
